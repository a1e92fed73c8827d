package lifecycle

import (
	"strings"
	"time"

	"github.com/anjiri1684/cricket_coach/models"
)

// GraceBuffer keeps a session that started recently listed as upcoming.
const GraceBuffer = 4 * time.Hour

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Timeframe string

const (
	Upcoming Timeframe = "upcoming"
	Past     Timeframe = "past"
	Unknown  Timeframe = "unknown"
)

// Resolver turns the schedule shapes found on booking records into one start
// time. Slot dates and times are wall-clock values in Location.
type Resolver struct {
	Location *time.Location
}

func NewResolver(loc *time.Location) Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return Resolver{Location: loc}
}

type scheduleShape struct {
	date  string
	start string
}

// Resolve tries timeSlot, the flat fields, timeSlotData and bookingDate in that
// order and returns the first that parses.
func (r Resolver) Resolve(b models.Booking) (time.Time, bool) {
	shapes := make([]scheduleShape, 0, 4)
	if b.TimeSlot != nil {
		shapes = append(shapes, scheduleShape{b.TimeSlot.Date, b.TimeSlot.StartTime})
	}
	shapes = append(shapes, scheduleShape{b.Date, b.StartTime})
	if b.TimeSlotData != nil {
		shapes = append(shapes, scheduleShape{b.TimeSlotData.Date, b.TimeSlotData.StartTime})
	}
	shapes = append(shapes, scheduleShape{b.BookingDate, ""})

	for _, s := range shapes {
		if t, ok := r.combine(s); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func (r Resolver) loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

func (r Resolver) combine(s scheduleShape) (time.Time, bool) {
	date := strings.TrimSpace(s.date)
	if date == "" {
		return time.Time{}, false
	}

	start := strings.TrimSpace(s.start)
	if start == "" {
		// bookingDate may carry a full timestamp; use it as is.
		if t, err := time.Parse(time.RFC3339, date); err == nil {
			return t, true
		}
	}

	y, m, d, ok := calendarDate(date)
	if !ok {
		return time.Time{}, false
	}
	hour, minute := 0, 0
	if start != "" {
		clock, err := time.Parse(TimeLayout, start)
		if err != nil {
			return time.Time{}, false
		}
		hour, minute = clock.Hour(), clock.Minute()
	}
	return time.Date(y, m, d, hour, minute, 0, 0, r.loc()), true
}

func calendarDate(value string) (int, time.Month, int, bool) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t.Year(), t.Month(), t.Day(), true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		y, m, d := t.Date()
		return y, m, d, true
	}
	return 0, 0, 0, false
}

// Classify applies the grace buffer: a session is past only once it started
// more than GraceBuffer before now.
func Classify(start time.Time, ok bool, now time.Time) Timeframe {
	if !ok {
		return Unknown
	}
	if start.Before(now.Add(-GraceBuffer)) {
		return Past
	}
	return Upcoming
}

func (r Resolver) Timeframe(b models.Booking, now time.Time) Timeframe {
	start, ok := r.Resolve(b)
	return Classify(start, ok, now)
}

// FormatSession renders a resolved start for display, or "N/A".
func FormatSession(t time.Time, ok bool) string {
	if !ok {
		return "N/A"
	}
	return t.Format("Mon, 02 Jan 2006 15:04")
}

// SlotStart resolves a coach-owned slot the same way.
func (r Resolver) SlotStart(s models.TimeSlot) (time.Time, bool) {
	return r.combine(scheduleShape{s.Date, s.StartTime})
}
