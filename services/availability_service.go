package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/anjiri1684/cricket_coach/views"
	"github.com/rs/zerolog"
)

type availabilityAPI interface {
	GetAvailability(ctx context.Context, token, coachID string) ([]models.TimeSlot, error)
	UpdateAvailability(ctx context.Context, token, coachID string, slots []models.TimeSlot) ([]models.TimeSlot, error)
}

type AvailabilityService struct {
	api      availabilityAPI
	resolver lifecycle.Resolver
	log      zerolog.Logger
	now      func() time.Time
}

func NewAvailabilityService(api availabilityAPI, resolver lifecycle.Resolver, log zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{api: api, resolver: resolver, log: log, now: time.Now}
}

// Open lists a coach's bookable slots for date, as clients see them.
func (svc *AvailabilityService) Open(ctx context.Context, token, coachID, date string) ([]models.TimeSlot, error) {
	if date != "" {
		if _, err := time.Parse(lifecycle.DateLayout, date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	slots, err := svc.api.GetAvailability(ctx, token, coachID)
	if err != nil {
		return nil, err
	}
	return views.AvailableSlots(slots, date, svc.now(), svc.resolver), nil
}

// Own returns every slot of the signed-in coach, booked ones included.
func (svc *AvailabilityService) Own(ctx context.Context, s *session.Session) ([]models.TimeSlot, error) {
	if s.Identity().Role != lifecycle.RoleCoach {
		return nil, lifecycle.ErrForbidden
	}
	return svc.api.GetAvailability(ctx, s.Token(), s.Identity().UserID)
}

func (svc *AvailabilityService) Update(ctx context.Context, s *session.Session, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	if s.Identity().Role != lifecycle.RoleCoach {
		return nil, lifecycle.ErrForbidden
	}
	normalized, err := NormalizeSlots(slots)
	if err != nil {
		return nil, err
	}
	updated, err := svc.api.UpdateAvailability(ctx, s.Token(), s.Identity().UserID, normalized)
	if err != nil {
		return nil, err
	}
	svc.log.Info().Str("coach_id", s.Identity().UserID).Int("slots", len(normalized)).Msg("availability updated")
	return updated, nil
}

// NormalizeSlots checks each slot's window, fills a missing duration and
// rejects overlapping slots on the same date.
func NormalizeSlots(slots []models.TimeSlot) ([]models.TimeSlot, error) {
	type window struct {
		index      int
		start, end int
	}
	byDate := map[string][]window{}
	out := make([]models.TimeSlot, len(slots))

	for i, slot := range slots {
		start, err := minutesOfDay(slot.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d start time: %v", ErrInvalidInput, i, err)
		}
		end, err := minutesOfDay(slot.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d end time: %v", ErrInvalidInput, i, err)
		}
		if end == start {
			return nil, fmt.Errorf("%w: slot %d has no length", ErrInvalidInput, i)
		}
		if end < start {
			// crosses midnight
			end += 24 * 60
		}
		if slot.Duration != 0 && slot.Duration != end-start {
			return nil, fmt.Errorf("%w: slot %d duration %d does not match %s-%s", ErrInvalidInput, i, slot.Duration, slot.StartTime, slot.EndTime)
		}
		slot.Duration = end - start
		out[i] = slot
		byDate[slot.Date] = append(byDate[slot.Date], window{index: i, start: start, end: end})
	}

	for date, windows := range byDate {
		sort.Slice(windows, func(a, b int) bool { return windows[a].start < windows[b].start })
		for k := 1; k < len(windows); k++ {
			if windows[k].start < windows[k-1].end {
				return nil, fmt.Errorf("%w: slots %d and %d overlap on %s", ErrInvalidInput, windows[k-1].index, windows[k].index, date)
			}
		}
	}
	return out, nil
}

func minutesOfDay(hhmm string) (int, error) {
	t, err := time.Parse(lifecycle.TimeLayout, hhmm)
	if err != nil {
		return 0, fmt.Errorf("%q is not HH:MM", hhmm)
	}
	return t.Hour()*60 + t.Minute(), nil
}
