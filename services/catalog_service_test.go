package services

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/anjiri1684/cricket_coach/cache"
	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/rs/zerolog"
)

// failingStore simulates an unreachable cache backend.
type failingStore struct{}

func (failingStore) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, any, time.Duration) error {
	return errors.New("connection refused")
}

func (failingStore) Delete(context.Context, ...string) error { return errors.New("connection refused") }

func TestCatalogCachesPerQuery(t *testing.T) {
	api := newFakeAPI()
	api.coaches = []models.Coach{{ID: "coach-1", Name: "Ravi", HourlyRate: 40}}
	svc := NewCatalogService(api, cache.NewMemory(), time.Minute, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.Coaches(ctx, url.Values{"specialization": {"batting"}})
	if err != nil || len(first) != 1 || first[0].HourlyRate != 40 {
		t.Fatalf("expected one coach, got %+v (%v)", first, err)
	}
	if _, err := svc.Coaches(ctx, url.Values{"specialization": {"batting"}}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if api.count("coaches") != 1 {
		t.Fatalf("expected a cache hit, got %d calls", api.count("coaches"))
	}
	if _, err := svc.Coaches(ctx, url.Values{"specialization": {"bowling"}}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if api.count("coaches") != 2 {
		t.Fatalf("expected a new query to miss, got %d calls", api.count("coaches"))
	}
}

func TestCatalogMissingCoach(t *testing.T) {
	svc := NewCatalogService(newFakeAPI(), cache.NewMemory(), time.Minute, zerolog.Nop())

	if _, err := svc.Coach(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogSurvivesCacheOutage(t *testing.T) {
	api := newFakeAPI()
	api.coaches = []models.Coach{{ID: "coach-1", Name: "Ravi"}}
	svc := NewCatalogService(api, failingStore{}, time.Minute, zerolog.Nop())

	coach, err := svc.Coach(context.Background(), "coach-1")
	if err != nil || coach.Name != "Ravi" {
		t.Fatalf("expected direct fetch, got %+v (%v)", coach, err)
	}
}

func TestOpenSlotsFiltersPastAndBooked(t *testing.T) {
	api := newFakeAPI()
	api.slots = []models.TimeSlot{
		{ID: "late", Date: "2026-03-15", StartTime: "16:00", EndTime: "17:00", IsAvailable: true},
		{ID: "early", Date: "2026-03-15", StartTime: "14:00", EndTime: "15:00", IsAvailable: true},
		{ID: "gone", Date: "2026-03-15", StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
		{ID: "taken", Date: "2026-03-15", StartTime: "18:00", EndTime: "19:00", IsAvailable: false},
		{ID: "other", Date: "2026-03-16", StartTime: "14:00", EndTime: "15:00", IsAvailable: true},
	}
	svc := NewAvailabilityService(api, lifecycle.NewResolver(time.UTC), zerolog.Nop())
	svc.now = func() time.Time { return testNow }

	slots, err := svc.Open(context.Background(), "", "coach-1", "2026-03-15")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(slots) != 2 || slots[0].ID != "early" || slots[1].ID != "late" {
		t.Fatalf("expected early then late, got %+v", slots)
	}
	if _, err := svc.Open(context.Background(), "", "coach-1", "15/03/2026"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad date, got %v", err)
	}
}

func TestNormalizeSlots(t *testing.T) {
	tests := []struct {
		name    string
		slots   []models.TimeSlot
		wantErr bool
	}{
		{
			name:  "fills duration",
			slots: []models.TimeSlot{{Date: "2026-03-16", StartTime: "09:00", EndTime: "10:30"}},
		},
		{
			name:    "zero length",
			slots:   []models.TimeSlot{{Date: "2026-03-16", StartTime: "10:00", EndTime: "10:00"}},
			wantErr: true,
		},
		{
			name:  "crosses midnight",
			slots: []models.TimeSlot{{Date: "2026-03-16", StartTime: "23:00", EndTime: "00:30", Duration: 90}},
		},
		{
			name:    "crossing with wrong duration",
			slots:   []models.TimeSlot{{Date: "2026-03-16", StartTime: "23:00", EndTime: "00:30", Duration: 30}},
			wantErr: true,
		},
		{
			name:    "duration mismatch",
			slots:   []models.TimeSlot{{Date: "2026-03-16", StartTime: "09:00", EndTime: "10:00", Duration: 45}},
			wantErr: true,
		},
		{
			name: "overlap on same date",
			slots: []models.TimeSlot{
				{Date: "2026-03-16", StartTime: "09:00", EndTime: "10:00"},
				{Date: "2026-03-16", StartTime: "09:30", EndTime: "10:30"},
			},
			wantErr: true,
		},
		{
			name: "same window on different dates",
			slots: []models.TimeSlot{
				{Date: "2026-03-16", StartTime: "09:00", EndTime: "10:00"},
				{Date: "2026-03-17", StartTime: "09:00", EndTime: "10:00"},
			},
		},
		{
			name:    "bad clock",
			slots:   []models.TimeSlot{{Date: "2026-03-16", StartTime: "9am", EndTime: "10:00"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSlots(tt.slots)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got[0].Duration == 0 {
				t.Fatalf("expected duration to be filled")
			}
		})
	}

	got, _ := NormalizeSlots([]models.TimeSlot{{Date: "2026-03-16", StartTime: "09:00", EndTime: "10:30"}})
	if got[0].Duration != 90 {
		t.Fatalf("expected 90 minutes, got %d", got[0].Duration)
	}
}

func TestUpdateAvailabilityCoachOnly(t *testing.T) {
	api := newFakeAPI()
	svc := NewAvailabilityService(api, lifecycle.NewResolver(time.UTC), zerolog.Nop())
	provider := newProvider()
	client := newTestSession(t, provider, "client-1", lifecycle.RoleClient)
	coach := newTestSession(t, provider, "coach-1", lifecycle.RoleCoach)
	slots := []models.TimeSlot{{Date: "2026-03-16", StartTime: "09:00", EndTime: "10:00"}}

	if _, err := svc.Update(context.Background(), client, slots); !errors.Is(err, lifecycle.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	updated, err := svc.Update(context.Background(), coach, slots)
	if err != nil || len(updated) != 1 || updated[0].Duration != 60 {
		t.Fatalf("expected normalized slot, got %+v (%v)", updated, err)
	}
}
