package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/cricket_coach/models"
)

// Viewer is the authenticated actor looking at or acting on a booking.
type Viewer struct {
	ID   string
	Role Role
}

// StateOf reads the lifecycle state of a wire record. An unknown status is
// reported as an error so the caller can degrade that one row.
func StateOf(b models.Booking) (State, error) {
	status, err := ParseStatus(b.Status)
	if err != nil {
		return State{}, err
	}
	return State{
		Status:   status,
		Payment:  ParsePaymentStatus(b.PaymentStatus),
		Reviewed: b.Reviewed,
	}, nil
}

func Visible(b models.Booking, v Viewer) bool {
	switch v.Role {
	case RoleAdmin:
		return true
	case RoleClient:
		return v.ID != "" && b.ClientID() == v.ID
	case RoleCoach:
		return v.ID != "" && b.CoachID() == v.ID
	default:
		return false
	}
}

// Authorize checks ownership and the transition table for ev.
func Authorize(b models.Booking, v Viewer, ev Event) (State, error) {
	if !Visible(b, v) || v.Role == RoleAdmin {
		return State{}, ErrForbidden
	}
	state, err := StateOf(b)
	if err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrActionUnavailable, err)
	}
	next, _, err := Apply(state, ev, v.Role)
	if err != nil {
		return State{}, err
	}
	return next, nil
}

// RowActions is Actions for a wire record; unknown statuses get none.
func RowActions(b models.Booking, v Viewer) []Event {
	if !Visible(b, v) {
		return nil
	}
	state, err := StateOf(b)
	if err != nil {
		return nil
	}
	return Actions(state, v.Role)
}

// DueForCompletion reports a confirmed, paid booking whose session has started.
func DueForCompletion(b models.Booking, r Resolver, now time.Time) bool {
	state, err := StateOf(b)
	if err != nil || state.Status != StatusConfirmed {
		return false
	}
	if NormalizePayment(b.PaymentStatus) != NormalizedPaid {
		return false
	}
	start, ok := r.Resolve(b)
	if !ok {
		return false
	}
	return !start.After(now)
}

// AutoComplete returns the ids of bookings the system should move to completed.
func AutoComplete(bookings []models.Booking, r Resolver, now time.Time) []string {
	var due []string
	for _, b := range bookings {
		if b.ID != "" && DueForCompletion(b, r, now) {
			due = append(due, b.ID)
		}
	}
	return due
}

var (
	ErrRatingRequired  = errors.New("rating must be between 1 and 5")
	ErrCommentRequired = errors.New("comment is required")
	ErrReasonRequired  = errors.New("a rejection reason is required")
)

func ValidateReview(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrRatingRequired
	}
	if strings.TrimSpace(comment) == "" {
		return ErrCommentRequired
	}
	return nil
}

func ValidateRejection(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	return nil
}
