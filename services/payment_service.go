package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/cricket_coach/jobs"
	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/notifications"
	"github.com/anjiri1684/cricket_coach/payments"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type paymentAPI interface {
	bookingReader
	jobs.PaymentFetcher
	ListClientBookings(ctx context.Context, token string) ([]models.Booking, error)
	CreatePaymentIntent(ctx context.Context, token, bookingID string) (*models.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, token string, input models.ConfirmPaymentInput) (*models.PaymentResult, error)
	RequestRefund(ctx context.Context, token, bookingID, reason string) error
}

type PayInput struct {
	PaymentIntentID string        `json:"paymentIntentId" validate:"required"`
	Card            payments.Card `json:"card"`
}

type PaymentService struct {
	api      paymentAPI
	poller   *jobs.Poller
	notifier notifications.Notifier
	inflight singleflight.Group
	log      zerolog.Logger
	now      func() time.Time
}

func NewPaymentService(api paymentAPI, poller *jobs.Poller, notifier notifications.Notifier, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		api:      api,
		poller:   poller,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func watchTask(bookingID string) string {
	return "payment-watch:" + bookingID
}

// CreateIntent opens the payment page for an approved booking.
func (svc *PaymentService) CreateIntent(ctx context.Context, s *session.Session, bookingID string) (*models.PaymentIntent, error) {
	b, err := findBooking(ctx, svc.api, s, bookingID, session.ViewClientBookings)
	if err != nil {
		return nil, err
	}
	if _, err := lifecycle.Authorize(b, s.Identity().Viewer(), lifecycle.EventPay); err != nil {
		return nil, err
	}
	s.Activate(session.PaymentView(bookingID))

	v, err, _ := svc.inflight.Do(flightKey(s, bookingID, "intent"), func() (any, error) {
		return svc.api.CreatePaymentIntent(ctx, s.Token(), bookingID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.PaymentIntent), nil
}

// Pay validates the card locally, then asks the API to confirm the intent.
// A success bumps the booking to confirmed right away; a pending result
// starts a status watch.
func (svc *PaymentService) Pay(ctx context.Context, s *session.Session, bookingID string, input PayInput) (payments.Outcome, error) {
	if err := input.Card.Validate(svc.now()); err != nil {
		return payments.Outcome{}, err
	}
	b, err := findBooking(ctx, svc.api, s, bookingID, session.ViewClientBookings)
	if err != nil {
		return payments.Outcome{}, err
	}
	if _, err := lifecycle.Authorize(b, s.Identity().Viewer(), lifecycle.EventPay); err != nil {
		return payments.Outcome{}, err
	}

	v, err, _ := svc.inflight.Do(flightKey(s, bookingID, string(lifecycle.EventPay)), func() (any, error) {
		result, err := svc.api.ConfirmPayment(ctx, s.Token(), models.ConfirmPaymentInput{
			BookingID:       bookingID,
			PaymentIntentID: input.PaymentIntentID,
			PaymentMethod:   "card",
		})
		if err != nil {
			return nil, err
		}
		outcome := payments.Interpret(result)
		svc.log.Info().
			Str("booking_id", bookingID).
			Str("status", string(outcome.Status)).
			Str("card_last4", input.Card.Last4()).
			Msg("payment confirmed")
		if outcome.Succeeded() {
			s.List(session.ViewClientBookings).MarkPaid(bookingID)
			if recipient, n, ok := notifications.ForEvent(lifecycle.EventPay, b, lifecycle.RoleClient); ok {
				svc.notifier.Notify(recipient, n)
			}
		}
		return outcome, nil
	})
	if err != nil {
		return payments.Outcome{}, fmt.Errorf("confirm payment for %s: %w", bookingID, err)
	}

	outcome := v.(payments.Outcome)
	if outcome.Status == lifecycle.NormalizedPending {
		if err := svc.Watch(ctx, s, bookingID); err != nil {
			svc.log.Warn().Err(err).Str("booking_id", bookingID).Msg("start payment watch")
		}
	}
	return outcome, nil
}

// Watch polls the payment for bookingID in the background. The poll is
// bound to the booking's payment view and stops when the user leaves it.
func (svc *PaymentService) Watch(ctx context.Context, s *session.Session, bookingID string) error {
	bookingID = strings.Clone(bookingID)
	b, err := findBooking(ctx, svc.api, s, bookingID, session.ViewClientBookings)
	if err != nil {
		return err
	}
	if !lifecycle.Visible(b, s.Identity().Viewer()) || s.Identity().Role != lifecycle.RoleClient {
		return lifecycle.ErrForbidden
	}

	view := session.PaymentView(bookingID)
	s.Activate(view)
	watchCtx, release := s.Bind(context.Background(), view, watchTask(bookingID))

	go func() {
		defer release()
		status, err := svc.poller.Watch(watchCtx, s.Token(), bookingID)
		switch {
		case errors.Is(err, context.Canceled):
			return
		case errors.Is(err, jobs.ErrPollTimeout):
			svc.notifier.Notify(s.Identity().UserID, notifications.PaymentUpdate(bookingID, lifecycle.NormalizedPending))
			return
		case err != nil:
			svc.log.Warn().Err(err).Str("booking_id", bookingID).Msg("payment watch stopped")
			return
		}
		if status == lifecycle.NormalizedPaid {
			s.List(session.ViewClientBookings).MarkPaid(bookingID)
		}
		svc.notifier.Notify(s.Identity().UserID, notifications.PaymentUpdate(bookingID, status))
	}()
	return nil
}

// Unwatch stops a running watch. It reports whether one was running.
func (svc *PaymentService) Unwatch(s *session.Session, bookingID string) bool {
	return s.Cancel(watchTask(bookingID))
}

func (svc *PaymentService) Status(ctx context.Context, s *session.Session, bookingID string) (*models.Payment, error) {
	b, err := findBooking(ctx, svc.api, s, bookingID, session.ViewClientBookings, session.ViewCoachBookings)
	if err != nil {
		return nil, err
	}
	if !lifecycle.Visible(b, s.Identity().Viewer()) {
		return nil, lifecycle.ErrForbidden
	}
	return svc.api.GetPayment(ctx, s.Token(), bookingID)
}

func (svc *PaymentService) RequestRefund(ctx context.Context, s *session.Session, bookingID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: a refund reason is required", ErrInvalidInput)
	}
	b, err := findBooking(ctx, svc.api, s, bookingID, session.ViewClientBookings)
	if err != nil {
		return err
	}
	if !lifecycle.Visible(b, s.Identity().Viewer()) {
		return lifecycle.ErrForbidden
	}
	state, err := lifecycle.StateOf(b)
	if err != nil || !lifecycle.RefundRequestable(state, s.Identity().Role) {
		return fmt.Errorf("%w: refund not available for this booking", lifecycle.ErrActionUnavailable)
	}

	_, err, _ = svc.inflight.Do(flightKey(s, bookingID, "refund"), func() (any, error) {
		return nil, svc.api.RequestRefund(ctx, s.Token(), bookingID, reason)
	})
	if err != nil {
		return err
	}
	svc.log.Info().Str("booking_id", bookingID).Msg("refund requested")

	if bookings, err := svc.api.ListClientBookings(ctx, s.Token()); err == nil {
		s.List(session.ViewClientBookings).Replace(bookings)
	} else {
		svc.log.Warn().Err(err).Msg("refresh bookings after refund request")
	}
	return nil
}
