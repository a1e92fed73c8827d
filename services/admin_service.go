package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/anjiri1684/cricket_coach/views"
	"github.com/rs/zerolog"
)

type adminAPI interface {
	bookingReader
	ListAllBookings(ctx context.Context, token string) ([]models.Booking, error)
	ForceRefund(ctx context.Context, token, bookingID string) error
	DeleteBooking(ctx context.Context, token, bookingID string) error
	ListUsers(ctx context.Context, token string) ([]models.User, error)
	SetUserActive(ctx context.Context, token, userID string, active bool) error
	DeleteUser(ctx context.Context, token, userID string) error
	ListAdminCoaches(ctx context.Context, token string) ([]models.Coach, error)
	ApproveCoach(ctx context.Context, token, coachID string) error
	DeleteCoach(ctx context.Context, token, coachID string) error
	ListReviews(ctx context.Context, token string) ([]models.Review, error)
	DeleteReview(ctx context.Context, token, reviewID string) error
}

type catalogInvalidator interface {
	Invalidate(ctx context.Context, coachID string)
}

// AdminService backs the moderation screens. Every call requires an admin
// session.
type AdminService struct {
	api      adminAPI
	resolver lifecycle.Resolver
	catalog  catalogInvalidator
	log      zerolog.Logger
	now      func() time.Time
}

func NewAdminService(api adminAPI, resolver lifecycle.Resolver, catalog catalogInvalidator, log zerolog.Logger) *AdminService {
	return &AdminService{api: api, resolver: resolver, catalog: catalog, log: log, now: time.Now}
}

func requireAdmin(s *session.Session) error {
	if s.Identity().Role != lifecycle.RoleAdmin {
		return lifecycle.ErrForbidden
	}
	return nil
}

func (svc *AdminService) Bookings(ctx context.Context, s *session.Session, tab views.Tab) ([]views.Row, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	s.Activate(session.ViewAdminBookings)
	if err := svc.refresh(ctx, s); err != nil {
		return nil, err
	}
	return views.AdminView(s.List(session.ViewAdminBookings).Snapshot(), svc.resolver, svc.now()).Select(tab), nil
}

// Summary is the dashboard view over every booking.
func (svc *AdminService) Summary(ctx context.Context, s *session.Session) (views.Summary, error) {
	if err := requireAdmin(s); err != nil {
		return views.Summary{}, err
	}
	if err := svc.refresh(ctx, s); err != nil {
		return views.Summary{}, err
	}
	return views.Summarize(views.AdminView(s.List(session.ViewAdminBookings).Snapshot(), svc.resolver, svc.now())), nil
}

func (svc *AdminService) ForceRefund(ctx context.Context, s *session.Session, bookingID string) error {
	return svc.bookingOp(ctx, s, bookingID, lifecycle.AdminForceRefund, svc.api.ForceRefund)
}

func (svc *AdminService) DeleteBooking(ctx context.Context, s *session.Session, bookingID string) error {
	return svc.bookingOp(ctx, s, bookingID, lifecycle.AdminDelete, svc.api.DeleteBooking)
}

func (svc *AdminService) bookingOp(ctx context.Context, s *session.Session, bookingID string, op lifecycle.AdminOp, call func(ctx context.Context, token, id string) error) error {
	if err := requireAdmin(s); err != nil {
		return err
	}
	b, err := findBooking(ctx, svc.api, s, bookingID, session.ViewAdminBookings)
	if err != nil {
		return err
	}
	// Deletion stays available for records whose status cannot be read.
	state, err := lifecycle.StateOf(b)
	if err != nil && op != lifecycle.AdminDelete {
		return fmt.Errorf("%w: %s on booking with status %q", lifecycle.ErrActionUnavailable, op, b.Status)
	}
	if !lifecycle.AdminCan(state, op) {
		return fmt.Errorf("%w: %s on booking with payment %q", lifecycle.ErrActionUnavailable, op, b.PaymentStatus)
	}
	if err := call(ctx, s.Token(), bookingID); err != nil {
		return err
	}
	svc.log.Info().Str("booking_id", bookingID).Str("op", string(op)).Str("admin_id", s.Identity().UserID).Msg("admin booking action")

	if err := svc.refresh(ctx, s); err != nil {
		svc.log.Warn().Err(err).Msg("refresh admin bookings")
	}
	return nil
}

func (svc *AdminService) refresh(ctx context.Context, s *session.Session) error {
	bookings, err := svc.api.ListAllBookings(ctx, s.Token())
	if err != nil {
		return err
	}
	s.List(session.ViewAdminBookings).Replace(bookings)
	return nil
}

func (svc *AdminService) Users(ctx context.Context, s *session.Session) ([]models.User, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	return svc.api.ListUsers(ctx, s.Token())
}

func (svc *AdminService) SetUserActive(ctx context.Context, s *session.Session, userID string, active bool) error {
	if err := requireAdmin(s); err != nil {
		return err
	}
	if userID == s.Identity().UserID && !active {
		return fmt.Errorf("%w: admins cannot deactivate themselves", ErrInvalidInput)
	}
	return svc.api.SetUserActive(ctx, s.Token(), userID, active)
}

func (svc *AdminService) DeleteUser(ctx context.Context, s *session.Session, userID string) error {
	if err := requireAdmin(s); err != nil {
		return err
	}
	if userID == s.Identity().UserID {
		return fmt.Errorf("%w: admins cannot delete themselves", ErrInvalidInput)
	}
	return svc.api.DeleteUser(ctx, s.Token(), userID)
}

func (svc *AdminService) Coaches(ctx context.Context, s *session.Session) ([]models.Coach, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	return svc.api.ListAdminCoaches(ctx, s.Token())
}

func (svc *AdminService) ApproveCoach(ctx context.Context, s *session.Session, coachID string) error {
	if err := requireAdmin(s); err != nil {
		return err
	}
	if err := svc.api.ApproveCoach(ctx, s.Token(), coachID); err != nil {
		return err
	}
	svc.catalog.Invalidate(ctx, coachID)
	return nil
}

func (svc *AdminService) DeleteCoach(ctx context.Context, s *session.Session, coachID string) error {
	if err := requireAdmin(s); err != nil {
		return err
	}
	if err := svc.api.DeleteCoach(ctx, s.Token(), coachID); err != nil {
		return err
	}
	svc.catalog.Invalidate(ctx, coachID)
	return nil
}

func (svc *AdminService) Reviews(ctx context.Context, s *session.Session) ([]models.Review, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	return svc.api.ListReviews(ctx, s.Token())
}

func (svc *AdminService) DeleteReview(ctx context.Context, s *session.Session, reviewID string) error {
	if err := requireAdmin(s); err != nil {
		return err
	}
	return svc.api.DeleteReview(ctx, s.Token(), reviewID)
}
