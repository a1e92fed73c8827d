package jobs

import (
	"sync"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/notifications"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/rs/zerolog"
)

// Reminders notifies both sides of a confirmed session that starts about
// lead from now. Each run covers start times from where the previous run
// stopped up to now+lead+window, so runs neither overlap nor leave gaps even
// when they fire late or irregularly.
type Reminders struct {
	sessions *session.Provider
	resolver lifecycle.Resolver
	notifier notifications.Notifier
	lead     time.Duration
	window   time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	covered time.Time
}

func NewReminders(sessions *session.Provider, resolver lifecycle.Resolver, notifier notifications.Notifier, lead, window time.Duration, log zerolog.Logger) *Reminders {
	return &Reminders{sessions: sessions, resolver: resolver, notifier: notifier, lead: lead, window: window, log: log}
}

// Send works from the booking lists already loaded into live sessions; it
// makes no API calls. It returns how many reminders went out.
func (r *Reminders) Send(now time.Time) int {
	r.log.Debug().Msg("running job: session reminders")

	r.mu.Lock()
	defer r.mu.Unlock()

	lower := now.Add(r.lead)
	if r.covered.After(now) {
		lower = r.covered
	}
	upper := now.Add(r.lead + r.window)
	if !upper.After(lower) {
		return 0
	}
	r.covered = upper
	sent := 0
	seen := map[string]bool{}

	r.sessions.Each("", func(s *session.Session) {
		view := session.ViewClientBookings
		if s.Identity().Role == lifecycle.RoleCoach {
			view = session.ViewCoachBookings
		} else if s.Identity().Role != lifecycle.RoleClient {
			return
		}

		for _, b := range s.List(view).Snapshot() {
			if b.Status != string(lifecycle.StatusConfirmed) {
				continue
			}
			start, ok := r.resolver.Resolve(b)
			if !ok || start.Before(lower) || !start.Before(upper) {
				continue
			}
			key := s.Identity().UserID + ":" + b.ID
			if seen[key] {
				continue
			}
			seen[key] = true

			with := b.Coach.DisplayName()
			if s.Identity().Role == lifecycle.RoleCoach {
				with = b.Client.DisplayName()
			}
			r.notifier.Notify(s.Identity().UserID, notifications.Reminder(b, start, with))
			sent++
		}
	})

	if sent > 0 {
		r.log.Info().Int("count", sent).Msg("session reminders sent")
	}
	return sent
}
