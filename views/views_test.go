package views

import (
	"testing"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
)

var (
	now      = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	resolver = lifecycle.NewResolver(time.UTC)
	client   = lifecycle.Viewer{ID: "client-1", Role: lifecycle.RoleClient}
	coach    = lifecycle.Viewer{ID: "coach-1", Role: lifecycle.RoleCoach}
)

func at(id, status, payment string, start time.Time) models.Booking {
	return models.Booking{
		ID:            id,
		Client:        &models.Ref{ID: "client-1", Name: "Asha"},
		Coach:         &models.Ref{ID: "coach-1", Name: "Ravi"},
		Date:          start.Format(lifecycle.DateLayout),
		StartTime:     start.Format(lifecycle.TimeLayout),
		Status:        status,
		PaymentStatus: payment,
	}
}

func ids(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func equalIDs(t *testing.T, label string, rows []Row, want ...string) {
	t.Helper()
	got := ids(rows)
	if len(got) != len(want) {
		t.Fatalf("%s: expected %v, got %v", label, want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: expected %v, got %v", label, want, got)
		}
	}
}

func TestClientViewPartitionAndSort(t *testing.T) {
	bookings := []models.Booking{
		at("later", "approved", "awaiting_payment", now.Add(48*time.Hour)),
		at("sooner", "pending_approval", "", now.Add(2*time.Hour)),
		at("grace", "confirmed", "paid", now.Add(-3*time.Hour)),
		at("old", "completed", "paid", now.Add(-72*time.Hour)),
		at("older", "no-show", "paid", now.Add(-96*time.Hour)),
		at("cancelled", "cancelled", "", now.Add(24*time.Hour)),
		at("rejected", "rejected", "", now.Add(-24*time.Hour)),
		{ID: "broken", Client: &models.Ref{ID: "client-1"}, Status: "approved", Date: "not-a-date"},
		at("someone-else", "approved", "", now.Add(time.Hour)),
	}
	bookings[8].Client = &models.Ref{ID: "client-2"}

	tabs := ClientView(bookings, client, resolver, now)

	equalIDs(t, "upcoming", tabs.Upcoming, "grace", "sooner", "later", "broken")
	equalIDs(t, "past", tabs.Past, "old", "older")
	equalIDs(t, "cancelled", tabs.Cancelled, "cancelled", "rejected")
}

func TestRowDegradesMalformedRecord(t *testing.T) {
	b := models.Booking{ID: "b1", Client: &models.Ref{ID: "client-1"}, Status: "archived", Date: "garbage"}

	row := NewRow(b, client, resolver, now)
	if row.Session != "N/A" {
		t.Fatalf("expected N/A session, got %q", row.Session)
	}
	if row.DisplayStatus != "Unknown" {
		t.Fatalf("expected Unknown display status, got %q", row.DisplayStatus)
	}
	if len(row.Actions) != 0 {
		t.Fatalf("expected no actions, got %v", row.Actions)
	}
	if row.ClientName != "Unknown" || row.CoachName != "Unknown" {
		t.Fatalf("expected placeholder names, got %q / %q", row.ClientName, row.CoachName)
	}
}

func TestRowActionsPerRole(t *testing.T) {
	b := at("b1", "approved", "awaiting_payment", now.Add(24*time.Hour))

	clientRow := NewRow(b, client, resolver, now)
	if !hasAction(clientRow, lifecycle.EventPay) || !hasAction(clientRow, lifecycle.EventCancel) {
		t.Fatalf("expected client to pay or cancel, got %v", clientRow.Actions)
	}
	coachRow := NewRow(b, coach, resolver, now)
	if hasAction(coachRow, lifecycle.EventPay) {
		t.Fatalf("coach must not pay, got %v", coachRow.Actions)
	}
}

func hasAction(row Row, ev lifecycle.Event) bool {
	for _, a := range row.Actions {
		if a == ev {
			return true
		}
	}
	return false
}

func TestCoachRequestsOnlyPending(t *testing.T) {
	bookings := []models.Booking{
		at("p2", "pending_approval", "", now.Add(72*time.Hour)),
		at("approved", "approved", "awaiting_payment", now.Add(24*time.Hour)),
		at("p1", "pending_approval", "", now.Add(24*time.Hour)),
	}

	equalIDs(t, "requests", CoachRequests(bookings, coach, resolver, now), "p1", "p2")
}

func TestAdminTabsPartitionAll(t *testing.T) {
	bookings := []models.Booking{
		at("u1", "confirmed", "paid", now.Add(time.Hour)),
		at("p1", "completed", "paid", now.Add(-48*time.Hour)),
		at("c1", "cancelled", "", now.Add(time.Hour)),
		at("r1", "rejected", "", now.Add(-48*time.Hour)),
		{ID: "x1", Status: "mystery"},
	}

	tabs := AdminView(bookings, resolver, now)

	if len(tabs.All) != len(bookings) {
		t.Fatalf("expected all %d bookings, got %d", len(bookings), len(tabs.All))
	}
	seen := map[string]int{}
	for _, tab := range [][]Row{tabs.Upcoming, tabs.Past, tabs.Cancelled} {
		for _, row := range tab {
			seen[row.ID]++
		}
	}
	for _, b := range bookings {
		if seen[b.ID] != 1 {
			t.Fatalf("expected %s in exactly one tab, got %d", b.ID, seen[b.ID])
		}
	}
	for _, row := range tabs.All {
		if len(row.Actions) != 0 {
			t.Fatalf("expected no admin row actions, got %v on %s", row.Actions, row.ID)
		}
	}
	equalIDs(t, "select cancelled", tabs.Select(TabCancelled), "c1", "r1")
}

func TestParseTab(t *testing.T) {
	if tab, err := ParseTab(""); err != nil || tab != TabAll {
		t.Fatalf("expected empty tab to mean all, got %q %v", tab, err)
	}
	if _, err := ParseTab("archived"); err == nil {
		t.Fatalf("expected error for unknown tab")
	}
}

func TestBookingListOptimisticUpdates(t *testing.T) {
	var list BookingList
	list.Replace([]models.Booking{
		at("b1", "approved", "awaiting_payment", now.Add(time.Hour)),
		at("b2", "pending_approval", "", now.Add(time.Hour)),
	})

	if !list.MarkPaid("b1") {
		t.Fatalf("expected b1 to be marked paid")
	}
	b1, _ := list.Find("b1")
	if b1.Status != "confirmed" || b1.PaymentStatus != "paid" {
		t.Fatalf("expected confirmed+paid, got %s/%s", b1.Status, b1.PaymentStatus)
	}
	if !list.Remove("b2") {
		t.Fatalf("expected b2 to be removed")
	}
	if len(list.Snapshot()) != 1 {
		t.Fatalf("expected one booking left, got %d", len(list.Snapshot()))
	}

	// The next fetch wins over local patches.
	list.Replace([]models.Booking{at("b1", "approved", "failed", now.Add(time.Hour))})
	b1, _ = list.Find("b1")
	if b1.Status != "approved" {
		t.Fatalf("expected server status after replace, got %s", b1.Status)
	}
}

func TestAvailableSlots(t *testing.T) {
	slots := []models.TimeSlot{
		{ID: "late", Date: "2026-03-15", StartTime: "18:00", EndTime: "19:00", IsAvailable: true},
		{ID: "started", Date: "2026-03-15", StartTime: "11:00", EndTime: "12:30", IsAvailable: true},
		{ID: "booked", Date: "2026-03-15", StartTime: "15:00", EndTime: "16:00", IsAvailable: false},
		{ID: "early", Date: "2026-03-15T00:00:00Z", StartTime: "13:00", EndTime: "14:00", IsAvailable: true},
		{ID: "tomorrow", Date: "2026-03-16", StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
	}

	got := AvailableSlots(slots, "2026-03-15", now, resolver)
	if len(got) != 2 || got[0].ID != "early" || got[1].ID != "late" {
		t.Fatalf("expected [early late], got %+v", got)
	}
	if all := AvailableSlots(slots, "", now, resolver); len(all) != 3 {
		t.Fatalf("expected 3 open slots across dates, got %d", len(all))
	}
}

func TestTabsOnly(t *testing.T) {
	tabs := Tabs{Upcoming: []Row{{ID: "u"}}, Past: []Row{}, Cancelled: []Row{{ID: "c"}}}

	if rows, ok := tabs.Only(TabCancelled); !ok || len(rows) != 1 || rows[0].ID != "c" {
		t.Fatalf("expected cancelled row, got %+v", rows)
	}
	if _, ok := tabs.Only(TabAll); ok {
		t.Fatalf("expected all to report false")
	}
}

func TestSummarize(t *testing.T) {
	paid := at("paid", "confirmed", "succeeded", now.Add(24*time.Hour))
	paid.PaymentAmount = 40
	refunded := at("refunded", "cancelled", "refunded", now.Add(24*time.Hour))
	refunded.PaymentAmount = 25
	pending := at("pending", "pending_approval", "", now.Add(48*time.Hour))
	broken := at("broken", "archived", "", now.Add(48*time.Hour))

	sum := Summarize(AdminView([]models.Booking{paid, refunded, pending, broken}, resolver, now))
	if sum.Total != 4 || sum.Cancelled != 1 || sum.Upcoming != 3 {
		t.Fatalf("unexpected counts %+v", sum)
	}
	if sum.PendingApproval != 1 {
		t.Fatalf("expected one pending approval, got %d", sum.PendingApproval)
	}
	if sum.Revenue != 40 || sum.Refunded != 25 {
		t.Fatalf("expected revenue 40 and refunded 25, got %v and %v", sum.Revenue, sum.Refunded)
	}
}
