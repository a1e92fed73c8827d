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
	"github.com/anjiri1684/cricket_coach/views"
	"github.com/rs/zerolog"
)

func newAdminService(api *fakeAPI) (*AdminService, *CatalogService) {
	catalog := NewCatalogService(api, cache.NewMemory(), time.Minute, zerolog.Nop())
	svc := NewAdminService(api, lifecycle.NewResolver(time.UTC), catalog, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return svc, catalog
}

func TestAdminBookingTabs(t *testing.T) {
	api := newFakeAPI(
		sessionAt("up", "confirmed", "paid", testNow.Add(24*time.Hour)),
		sessionAt("old", "completed", "paid", testNow.Add(-72*time.Hour)),
		sessionAt("gone", "cancelled", "", testNow.Add(24*time.Hour)),
	)
	svc, _ := newAdminService(api)
	admin := newTestSession(t, newProvider(), "admin-1", lifecycle.RoleAdmin)

	all, err := svc.Bookings(context.Background(), admin, views.TabAll)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected three bookings, got %d (%v)", len(all), err)
	}
	cancelled, _ := svc.Bookings(context.Background(), admin, views.TabCancelled)
	if len(cancelled) != 1 || cancelled[0].ID != "gone" {
		t.Fatalf("expected only the cancelled booking, got %+v", cancelled)
	}
	for _, row := range all {
		if len(row.Actions) != 0 {
			t.Fatalf("expected admins to get no row actions, got %v", row.Actions)
		}
	}
}

func TestAdminRequiresAdminRole(t *testing.T) {
	svc, _ := newAdminService(newFakeAPI())
	coach := newTestSession(t, newProvider(), "coach-1", lifecycle.RoleCoach)

	if _, err := svc.Bookings(context.Background(), coach, views.TabAll); !errors.Is(err, lifecycle.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteUser(context.Background(), coach, "client-1"); !errors.Is(err, lifecycle.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestForceRefundNeedsPaidBooking(t *testing.T) {
	api := newFakeAPI(
		sessionAt("unpaid", "approved", "awaiting_payment", testNow.Add(24*time.Hour)),
		sessionAt("paid", "confirmed", "succeeded", testNow.Add(24*time.Hour)),
	)
	svc, _ := newAdminService(api)
	admin := newTestSession(t, newProvider(), "admin-1", lifecycle.RoleAdmin)

	if err := svc.ForceRefund(context.Background(), admin, "unpaid"); !errors.Is(err, lifecycle.ErrActionUnavailable) {
		t.Fatalf("expected ErrActionUnavailable, got %v", err)
	}
	if err := svc.ForceRefund(context.Background(), admin, "paid"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if api.count("force-refund") != 1 {
		t.Fatalf("expected one refund call, got %d", api.count("force-refund"))
	}
	if err := svc.DeleteBooking(context.Background(), admin, "unpaid"); err != nil {
		t.Fatalf("expected delete to be allowed, got %v", err)
	}
}

func TestForceRefundReadsStateLikeOtherCallers(t *testing.T) {
	api := newFakeAPI(
		sessionAt("mixed-case", "Confirmed", " Succeeded ", testNow.Add(24*time.Hour)),
		sessionAt("garbled", "on_hold", "paid", testNow.Add(24*time.Hour)),
	)
	svc, _ := newAdminService(api)
	admin := newTestSession(t, newProvider(), "admin-1", lifecycle.RoleAdmin)

	if err := svc.ForceRefund(context.Background(), admin, "mixed-case"); err != nil {
		t.Fatalf("expected refund on a paid booking, got %v", err)
	}
	if err := svc.ForceRefund(context.Background(), admin, "garbled"); !errors.Is(err, lifecycle.ErrActionUnavailable) {
		t.Fatalf("expected ErrActionUnavailable for an unreadable status, got %v", err)
	}
	if err := svc.DeleteBooking(context.Background(), admin, "garbled"); err != nil {
		t.Fatalf("expected delete to be allowed, got %v", err)
	}
}

func TestAdminCannotRemoveThemselves(t *testing.T) {
	api := newFakeAPI()
	svc, _ := newAdminService(api)
	admin := newTestSession(t, newProvider(), "admin-1", lifecycle.RoleAdmin)

	if err := svc.SetUserActive(context.Background(), admin, "admin-1", false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.DeleteUser(context.Background(), admin, "admin-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.SetUserActive(context.Background(), admin, "client-1", false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if api.count("user-status") != 1 || api.count("delete-user") != 0 {
		t.Fatalf("unexpected calls: %v", api.calls)
	}
}

func TestApproveCoachInvalidatesCatalog(t *testing.T) {
	api := newFakeAPI()
	api.coaches = []models.Coach{{ID: "coach-1", Name: "Ravi"}}
	svc, catalog := newAdminService(api)
	admin := newTestSession(t, newProvider(), "admin-1", lifecycle.RoleAdmin)
	ctx := context.Background()

	if _, err := catalog.Coaches(ctx, url.Values{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := catalog.Coaches(ctx, url.Values{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if api.count("coaches") != 1 {
		t.Fatalf("expected cached second read, got %d calls", api.count("coaches"))
	}

	if err := svc.ApproveCoach(ctx, admin, "coach-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := catalog.Coaches(ctx, url.Values{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if api.count("coaches") != 2 {
		t.Fatalf("expected refetch after approval, got %d calls", api.count("coaches"))
	}
}
