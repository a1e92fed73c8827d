package views

import (
	"sync"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
)

// BookingList is the in-memory list held by one active view. It is replaced
// wholesale after every fetch; MarkPaid and Remove are the only local patches
// and the next Replace overwrites them.
type BookingList struct {
	mu        sync.RWMutex
	bookings  []models.Booking
	loaded    bool
	updatedAt time.Time
}

func (l *BookingList) Replace(all []models.Booking) {
	copied := make([]models.Booking, len(all))
	copy(copied, all)

	l.mu.Lock()
	l.bookings = copied
	l.loaded = true
	l.updatedAt = time.Now()
	l.mu.Unlock()
}

func (l *BookingList) Snapshot() []models.Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Booking, len(l.bookings))
	copy(out, l.bookings)
	return out
}

func (l *BookingList) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

func (l *BookingList) Find(id string) (models.Booking, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, b := range l.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

// MarkPaid bumps a booking to confirmed+paid after the payment gateway
// reported success, ahead of the server echoing it back.
func (l *BookingList) MarkPaid(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.bookings {
		if l.bookings[i].ID == id {
			l.bookings[i].Status = string(lifecycle.StatusConfirmed)
			l.bookings[i].PaymentStatus = string(lifecycle.PaymentPaid)
			return true
		}
	}
	return false
}

// Remove drops a decided request from a pending list.
func (l *BookingList) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.bookings {
		if l.bookings[i].ID == id {
			l.bookings = append(l.bookings[:i], l.bookings[i+1:]...)
			return true
		}
	}
	return false
}
