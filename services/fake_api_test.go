package services

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/cricket_coach/apiclient"
	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/notifications"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// fakeAPI keeps bookings in memory and records every mutating call.
type fakeAPI struct {
	mu       sync.Mutex
	bookings []models.Booking
	calls    map[string]int
	slots    []models.TimeSlot
	coaches  []models.Coach
	result   *models.PaymentResult
	payment  *models.Payment

	// approveGate, when set, blocks ApproveBooking until it is closed.
	approveGate    chan struct{}
	approveStarted chan struct{}
}

func newFakeAPI(bookings ...models.Booking) *fakeAPI {
	return &fakeAPI{bookings: bookings, calls: map[string]int{}}
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeAPI) setStatus(id, status, payment string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].Status = status
			if payment != "" {
				f.bookings[i].PaymentStatus = payment
			}
		}
	}
}

func (f *fakeAPI) list() []models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Booking, len(f.bookings))
	copy(out, f.bookings)
	return out
}

func (f *fakeAPI) GetBooking(_ context.Context, _, id string) (*models.Booking, error) {
	for _, b := range f.list() {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, &apiclient.APIError{Status: 404, Message: "Booking not found"}
}

func (f *fakeAPI) CreateBooking(_ context.Context, _ string, input models.CreateBookingInput) (*models.Booking, error) {
	f.record("create")
	b := models.Booking{ID: "new-1", Coach: &models.Ref{ID: input.CoachID}, Status: "pending_approval"}
	f.mu.Lock()
	f.bookings = append(f.bookings, b)
	f.mu.Unlock()
	return &b, nil
}

func (f *fakeAPI) ListClientBookings(context.Context, string) ([]models.Booking, error) {
	f.record("list")
	return f.list(), nil
}

func (f *fakeAPI) ListCoachBookings(context.Context, string) ([]models.Booking, error) {
	f.record("list")
	return f.list(), nil
}

func (f *fakeAPI) ListAllBookings(context.Context, string) ([]models.Booking, error) {
	f.record("list")
	return f.list(), nil
}

func (f *fakeAPI) ApproveBooking(_ context.Context, _, id string) error {
	f.record("approve")
	if f.approveStarted != nil {
		close(f.approveStarted)
	}
	if f.approveGate != nil {
		<-f.approveGate
	}
	f.setStatus(id, "approved", "awaiting_payment")
	return nil
}

func (f *fakeAPI) RejectBooking(_ context.Context, _, id, _ string) error {
	f.record("reject")
	f.setStatus(id, "rejected", "")
	return nil
}

func (f *fakeAPI) CancelBooking(_ context.Context, _, id string) error {
	f.record("cancel")
	f.setStatus(id, "cancelled", "")
	return nil
}

func (f *fakeAPI) CompleteBooking(_ context.Context, _, id string) error {
	f.record("complete")
	f.setStatus(id, "completed", "")
	return nil
}

func (f *fakeAPI) MarkNoShow(_ context.Context, _, id string) error {
	f.record("no-show")
	f.setStatus(id, "no-show", "")
	return nil
}

func (f *fakeAPI) CreateReview(_ context.Context, _ string, input models.CreateReviewInput) (*models.Review, error) {
	f.record("review")
	f.mu.Lock()
	for i := range f.bookings {
		if f.bookings[i].ID == input.BookingID {
			f.bookings[i].Reviewed = true
		}
	}
	f.mu.Unlock()
	return &models.Review{ID: "r1", BookingID: input.BookingID, Rating: input.Rating, Comment: input.Comment}, nil
}

func (f *fakeAPI) CreatePaymentIntent(_ context.Context, _, bookingID string) (*models.PaymentIntent, error) {
	f.record("intent")
	return &models.PaymentIntent{PaymentIntentID: "pi_" + bookingID, ClientSecret: "secret"}, nil
}

func (f *fakeAPI) ConfirmPayment(context.Context, string, models.ConfirmPaymentInput) (*models.PaymentResult, error) {
	f.record("confirm")
	return f.result, nil
}

func (f *fakeAPI) GetPayment(_ context.Context, _, bookingID string) (*models.Payment, error) {
	f.record("payment")
	if f.payment == nil {
		return nil, &apiclient.APIError{Status: 404, Message: "no payment"}
	}
	return f.payment, nil
}

func (f *fakeAPI) RequestRefund(_ context.Context, _, id, _ string) error {
	f.record("refund")
	f.setStatus(id, "completed", "refund_requested")
	return nil
}

func (f *fakeAPI) ForceRefund(_ context.Context, _, id string) error {
	f.record("force-refund")
	return nil
}

func (f *fakeAPI) DeleteBooking(_ context.Context, _, id string) error {
	f.record("delete")
	return nil
}

func (f *fakeAPI) ListUsers(context.Context, string) ([]models.User, error) { return nil, nil }
func (f *fakeAPI) SetUserActive(context.Context, string, string, bool) error {
	f.record("user-status")
	return nil
}
func (f *fakeAPI) DeleteUser(context.Context, string, string) error {
	f.record("delete-user")
	return nil
}
func (f *fakeAPI) ListAdminCoaches(context.Context, string) ([]models.Coach, error) {
	return f.coaches, nil
}
func (f *fakeAPI) ApproveCoach(context.Context, string, string) error {
	f.record("approve-coach")
	return nil
}
func (f *fakeAPI) DeleteCoach(context.Context, string, string) error { return nil }
func (f *fakeAPI) ListReviews(context.Context, string) ([]models.Review, error) { return nil, nil }
func (f *fakeAPI) DeleteReview(context.Context, string, string) error { return nil }

func (f *fakeAPI) ListCoaches(context.Context, url.Values) ([]models.Coach, error) {
	f.record("coaches")
	return f.coaches, nil
}

func (f *fakeAPI) GetCoach(_ context.Context, id string) (*models.Coach, error) {
	f.record("coach")
	for _, c := range f.coaches {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, &apiclient.APIError{Status: 404, Message: "Coach not found"}
}

func (f *fakeAPI) ListCoachReviews(context.Context, string) ([]models.Review, error) {
	f.record("reviews")
	return nil, nil
}

func (f *fakeAPI) GetAvailability(context.Context, string, string) ([]models.TimeSlot, error) {
	return f.slots, nil
}

func (f *fakeAPI) UpdateAvailability(_ context.Context, _, _ string, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	f.record("availability")
	f.slots = slots
	return slots, nil
}

type notifyRecorder struct {
	mu  sync.Mutex
	got map[string][]notifications.Notification
}

func (r *notifyRecorder) Notify(userID string, n notifications.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.got == nil {
		r.got = map[string][]notifications.Notification{}
	}
	r.got[userID] = append(r.got[userID], n)
}

func (r *notifyRecorder) kinds(userID string) []notifications.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notifications.Kind
	for _, n := range r.got[userID] {
		out = append(out, n.Kind)
	}
	return out
}

func newTestSession(t *testing.T, p *session.Provider, id string, role lifecycle.Role) *session.Session {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": id, "role": string(role)}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	s, err := p.Resolve(token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return s
}

func newProvider() *session.Provider {
	return session.NewProvider(time.Hour, zerolog.Nop())
}

func sessionAt(id, status, payment string, start time.Time) models.Booking {
	return models.Booking{
		ID:            id,
		Client:        &models.Ref{ID: "client-1", Name: "Asha"},
		Coach:         &models.Ref{ID: "coach-1", Name: "Ravi"},
		TimeSlot:      &models.SlotData{Date: start.Format(lifecycle.DateLayout), StartTime: start.Format(lifecycle.TimeLayout)},
		Status:        status,
		PaymentStatus: payment,
	}
}
