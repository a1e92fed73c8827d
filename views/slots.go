package views

import (
	"sort"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
)

// AvailableSlots returns the bookable slots on date ("2006-01-02", empty for
// any date) that have not started yet, earliest first.
func AvailableSlots(slots []models.TimeSlot, date string, now time.Time, r lifecycle.Resolver) []models.TimeSlot {
	type candidate struct {
		slot  models.TimeSlot
		start time.Time
	}

	var open []candidate
	for _, slot := range slots {
		if !slot.IsAvailable {
			continue
		}
		if date != "" && !sameDate(slot.Date, date) {
			continue
		}
		start, ok := r.SlotStart(slot)
		if !ok || !start.After(now) {
			continue
		}
		open = append(open, candidate{slot: slot, start: start})
	}

	sort.SliceStable(open, func(i, j int) bool { return open[i].start.Before(open[j].start) })

	out := make([]models.TimeSlot, 0, len(open))
	for _, c := range open {
		out = append(out, c.slot)
	}
	return out
}

// sameDate compares the calendar part; slot dates may carry a timestamp.
func sameDate(slotDate, date string) bool {
	if len(slotDate) >= len(lifecycle.DateLayout) {
		slotDate = slotDate[:len(lifecycle.DateLayout)]
	}
	return slotDate == date
}
