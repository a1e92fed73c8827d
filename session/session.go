package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/views"
)

// View names that own a booking list.
const (
	ViewClientBookings = "client:bookings"
	ViewCoachRequests  = "coach:requests"
	ViewCoachBookings  = "coach:bookings"
	ViewAdminBookings  = "admin:bookings"
)

// PaymentView is the view a payment page for bookingID is bound to.
func PaymentView(bookingID string) string {
	return "payment:" + bookingID
}

type task struct {
	seq    uint64
	view   string
	cancel context.CancelFunc
}

// Session is one signed-in user's state on this tier.
type Session struct {
	token    string
	identity Identity

	mu       sync.Mutex
	profile  *models.User
	lists    map[string]*views.BookingList
	tasks    map[string]task
	active   string
	seq      uint64
	lastSeen time.Time
	closed   bool
}

// Strings kept by a session are cloned: callers may hand in views of a
// request buffer that is reused once the request ends.
func newSession(token string, identity Identity, now time.Time) *Session {
	return &Session{
		token:    strings.Clone(token),
		identity: identity,
		lists:    make(map[string]*views.BookingList),
		tasks:    make(map[string]task),
		lastSeen: now,
	}
}

func (s *Session) Token() string      { return s.token }
func (s *Session) Identity() Identity { return s.identity }

func (s *Session) Profile() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Session) SetProfile(u *models.User) {
	s.mu.Lock()
	s.profile = u
	s.mu.Unlock()
}

// List returns the booking list owned by view, creating it on first use.
func (s *Session) List(view string) *views.BookingList {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[view]
	if !ok {
		list = &views.BookingList{}
		s.lists[view] = list
	}
	return list
}

// Activate makes view the current one and cancels tasks bound to any other.
func (s *Session) Activate(view string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = strings.Clone(view)
	for name, t := range s.tasks {
		if t.view != view {
			t.cancel()
			delete(s.tasks, name)
		}
	}
}

func (s *Session) ActiveView() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Bind starts a task named name tied to view and returns its context. A task
// already running under the same name is cancelled first. The returned
// release func must be called when the task ends.
func (s *Session) Bind(parent context.Context, view, name string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	view, name = strings.Clone(view), strings.Clone(name)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return ctx, func() {}
	}
	if prev, ok := s.tasks[name]; ok {
		prev.cancel()
	}
	s.seq++
	seq := s.seq
	s.tasks[name] = task{seq: seq, view: view, cancel: cancel}
	s.mu.Unlock()

	release := func() {
		cancel()
		s.mu.Lock()
		if t, ok := s.tasks[name]; ok && t.seq == seq {
			delete(s.tasks, name)
		}
		s.mu.Unlock()
	}
	return ctx, release
}

// Cancel stops the named task if it runs.
func (s *Session) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[name]
	if ok {
		t.cancel()
		delete(s.tasks, name)
	}
	return ok
}

func (s *Session) Running(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[name]
	return ok
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for name, t := range s.tasks {
		t.cancel()
		delete(s.tasks, name)
	}
	s.lists = make(map[string]*views.BookingList)
	s.profile = nil
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
