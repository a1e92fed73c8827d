package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/notifications"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/anjiri1684/cricket_coach/views"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type bookingAPI interface {
	bookingReader
	CreateBooking(ctx context.Context, token string, input models.CreateBookingInput) (*models.Booking, error)
	ListClientBookings(ctx context.Context, token string) ([]models.Booking, error)
	ListCoachBookings(ctx context.Context, token string) ([]models.Booking, error)
	ApproveBooking(ctx context.Context, token, id string) error
	RejectBooking(ctx context.Context, token, id, reason string) error
	CancelBooking(ctx context.Context, token, id string) error
	CompleteBooking(ctx context.Context, token, id string) error
	MarkNoShow(ctx context.Context, token, id string) error
	CreateReview(ctx context.Context, token string, input models.CreateReviewInput) (*models.Review, error)
}

// BookingService drives the booking lifecycle for clients and coaches. Every
// mutation is checked against the transition table before the API sees it,
// and the affected lists are re-fetched once the API confirms.
type BookingService struct {
	api      bookingAPI
	resolver lifecycle.Resolver
	notifier notifications.Notifier
	inflight singleflight.Group
	log      zerolog.Logger
	now      func() time.Time
}

func NewBookingService(api bookingAPI, resolver lifecycle.Resolver, notifier notifications.Notifier, log zerolog.Logger) *BookingService {
	return &BookingService{
		api:      api,
		resolver: resolver,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (svc *BookingService) ClientBookings(ctx context.Context, s *session.Session) (views.Tabs, error) {
	if s.Identity().Role != lifecycle.RoleClient {
		return views.Tabs{}, lifecycle.ErrForbidden
	}
	s.Activate(session.ViewClientBookings)
	if err := svc.refreshClient(ctx, s); err != nil {
		return views.Tabs{}, err
	}
	return svc.ClientTabs(s), nil
}

// ClientTabs renders the client's list as currently held, without fetching.
func (svc *BookingService) ClientTabs(s *session.Session) views.Tabs {
	return views.ClientView(s.List(session.ViewClientBookings).Snapshot(), s.Identity().Viewer(), svc.resolver, svc.now())
}

// CoachBookings loads the coach's sessions, completing any that are due first.
func (svc *BookingService) CoachBookings(ctx context.Context, s *session.Session) (views.Tabs, error) {
	if s.Identity().Role != lifecycle.RoleCoach {
		return views.Tabs{}, lifecycle.ErrForbidden
	}
	s.Activate(session.ViewCoachBookings)
	if _, err := svc.AutoComplete(ctx, s); err != nil {
		return views.Tabs{}, err
	}
	return svc.CoachTabs(s), nil
}

func (svc *BookingService) CoachTabs(s *session.Session) views.Tabs {
	return views.CoachBookings(s.List(session.ViewCoachBookings).Snapshot(), s.Identity().Viewer(), svc.resolver, svc.now())
}

func (svc *BookingService) CoachRequests(ctx context.Context, s *session.Session) ([]views.Row, error) {
	if s.Identity().Role != lifecycle.RoleCoach {
		return nil, lifecycle.ErrForbidden
	}
	s.Activate(session.ViewCoachRequests)
	if err := svc.refreshCoach(ctx, s); err != nil {
		return nil, err
	}
	return svc.PendingRows(s), nil
}

func (svc *BookingService) PendingRows(s *session.Session) []views.Row {
	return views.CoachRequests(s.List(session.ViewCoachRequests).Snapshot(), s.Identity().Viewer(), svc.resolver, svc.now())
}

// AutoComplete fetches the coach's bookings and moves confirmed, paid
// sessions whose start has passed to completed. The lists are replaced with
// the server's view afterwards.
func (svc *BookingService) AutoComplete(ctx context.Context, s *session.Session) (int, error) {
	if s.Identity().Role != lifecycle.RoleCoach {
		return 0, nil
	}
	bookings, err := svc.api.ListCoachBookings(ctx, s.Token())
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, id := range lifecycle.AutoComplete(bookings, svc.resolver, svc.now()) {
		b := bookingByID(bookings, id)
		_, err, _ := svc.inflight.Do(flightKey(s, id, string(lifecycle.EventSessionStarted)), func() (any, error) {
			if err := svc.api.CompleteBooking(ctx, s.Token(), id); err != nil {
				return nil, err
			}
			svc.notify(lifecycle.EventSessionStarted, b, lifecycle.RoleSystem)
			return nil, nil
		})
		if err != nil {
			svc.log.Warn().Err(err).Str("booking_id", id).Msg("auto-complete booking")
			continue
		}
		completed++
	}

	if completed > 0 {
		svc.log.Info().Str("coach_id", s.Identity().UserID).Int("completed", completed).Msg("auto-completed sessions")
		if bookings, err = svc.api.ListCoachBookings(ctx, s.Token()); err != nil {
			return completed, err
		}
	}
	s.List(session.ViewCoachBookings).Replace(bookings)
	s.List(session.ViewCoachRequests).Replace(bookings)
	return completed, nil
}

func (svc *BookingService) Create(ctx context.Context, s *session.Session, input models.CreateBookingInput) (*models.Booking, error) {
	if s.Identity().Role != lifecycle.RoleClient {
		return nil, lifecycle.ErrForbidden
	}

	v, err, _ := svc.inflight.Do(flightKey(s, input.TimeSlotID, "create"), func() (any, error) {
		booking, err := svc.api.CreateBooking(ctx, s.Token(), input)
		if err != nil {
			return nil, err
		}
		if booking.Client == nil {
			booking.Client = &models.Ref{ID: s.Identity().UserID, Name: s.Identity().Name}
		}
		if booking.Coach == nil {
			booking.Coach = &models.Ref{ID: input.CoachID}
		}
		if recipient, n := notifications.Requested(*booking); recipient != "" {
			svc.notifier.Notify(recipient, n)
		}
		svc.log.Info().Str("booking_id", booking.ID).Str("coach_id", input.CoachID).Msg("booking requested")
		return booking, nil
	})
	if err != nil {
		return nil, err
	}
	booking := v.(*models.Booking)

	svc.refreshQuietly(ctx, s)
	return booking, nil
}

func (svc *BookingService) Approve(ctx context.Context, s *session.Session, id string) error {
	return svc.transition(ctx, s, id, lifecycle.EventApprove, func(b *models.Booking) error {
		return svc.api.ApproveBooking(ctx, s.Token(), id)
	})
}

func (svc *BookingService) Reject(ctx context.Context, s *session.Session, id, reason string) error {
	if err := lifecycle.ValidateRejection(reason); err != nil {
		return err
	}
	return svc.transition(ctx, s, id, lifecycle.EventReject, func(b *models.Booking) error {
		b.RejectionReason = reason
		return svc.api.RejectBooking(ctx, s.Token(), id, reason)
	})
}

func (svc *BookingService) Cancel(ctx context.Context, s *session.Session, id string) error {
	return svc.transition(ctx, s, id, lifecycle.EventCancel, func(b *models.Booking) error {
		return svc.api.CancelBooking(ctx, s.Token(), id)
	})
}

func (svc *BookingService) Complete(ctx context.Context, s *session.Session, id string) error {
	return svc.transition(ctx, s, id, lifecycle.EventComplete, func(b *models.Booking) error {
		return svc.api.CompleteBooking(ctx, s.Token(), id)
	})
}

func (svc *BookingService) NoShow(ctx context.Context, s *session.Session, id string) error {
	return svc.transition(ctx, s, id, lifecycle.EventNoShow, func(b *models.Booking) error {
		return svc.api.MarkNoShow(ctx, s.Token(), id)
	})
}

// Review posts the client's rating for a completed, paid session.
func (svc *BookingService) Review(ctx context.Context, s *session.Session, id string, rating int, comment string) (*models.Review, error) {
	if err := lifecycle.ValidateReview(rating, comment); err != nil {
		return nil, err
	}
	var review *models.Review
	err := svc.transition(ctx, s, id, lifecycle.EventReview, func(b *models.Booking) error {
		r, err := svc.api.CreateReview(ctx, s.Token(), models.CreateReviewInput{BookingID: id, Rating: rating, Comment: comment})
		review = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// transition guards ev with the lifecycle table, collapses duplicate
// submissions of the same action and refreshes the lists when done. call may
// annotate the booking used for the notification.
func (svc *BookingService) transition(ctx context.Context, s *session.Session, id string, ev lifecycle.Event, call func(*models.Booking) error) error {
	b, err := findBooking(ctx, svc.api, s, id, svc.viewsFor(s)...)
	if err != nil {
		return err
	}
	if _, err := lifecycle.Authorize(b, s.Identity().Viewer(), ev); err != nil {
		return err
	}

	// Only the caller that runs the action notifies; joiners share its result.
	_, err, shared := svc.inflight.Do(flightKey(s, id, string(ev)), func() (any, error) {
		if err := call(&b); err != nil {
			return nil, err
		}
		if ev == lifecycle.EventApprove || ev == lifecycle.EventReject {
			s.List(session.ViewCoachRequests).Remove(id)
		}
		svc.notify(ev, b, s.Identity().Role)
		svc.log.Info().Str("booking_id", id).Str("event", string(ev)).Str("user_id", s.Identity().UserID).Msg("booking updated")
		return nil, nil
	})
	if shared {
		svc.log.Debug().Str("booking_id", id).Str("event", string(ev)).Msg("joined in-flight action")
	}
	if err != nil {
		return fmt.Errorf("%s booking %s: %w", ev, id, err)
	}

	svc.refreshQuietly(ctx, s)
	return nil
}

func (svc *BookingService) viewsFor(s *session.Session) []string {
	if s.Identity().Role == lifecycle.RoleCoach {
		return []string{session.ViewCoachRequests, session.ViewCoachBookings}
	}
	return []string{session.ViewClientBookings}
}

// refreshQuietly replaces the lists after a confirmed mutation. A failed
// refresh keeps the optimistic state until the next successful fetch.
func (svc *BookingService) refreshQuietly(ctx context.Context, s *session.Session) {
	var err error
	switch s.Identity().Role {
	case lifecycle.RoleClient:
		err = svc.refreshClient(ctx, s)
	case lifecycle.RoleCoach:
		err = svc.refreshCoach(ctx, s)
	}
	if err != nil {
		svc.log.Warn().Err(err).Str("user_id", s.Identity().UserID).Msg("refresh bookings after update")
	}
}

func (svc *BookingService) refreshClient(ctx context.Context, s *session.Session) error {
	bookings, err := svc.api.ListClientBookings(ctx, s.Token())
	if err != nil {
		return err
	}
	s.List(session.ViewClientBookings).Replace(bookings)
	return nil
}

func (svc *BookingService) refreshCoach(ctx context.Context, s *session.Session) error {
	bookings, err := svc.api.ListCoachBookings(ctx, s.Token())
	if err != nil {
		return err
	}
	s.List(session.ViewCoachRequests).Replace(bookings)
	s.List(session.ViewCoachBookings).Replace(bookings)
	return nil
}

func (svc *BookingService) notify(ev lifecycle.Event, b models.Booking, actor lifecycle.Role) {
	if recipient, n, ok := notifications.ForEvent(ev, b, actor); ok && recipient != "" {
		svc.notifier.Notify(recipient, n)
	}
}

func bookingByID(bookings []models.Booking, id string) models.Booking {
	for _, b := range bookings {
		if b.ID == id {
			return b
		}
	}
	return models.Booking{ID: id}
}
