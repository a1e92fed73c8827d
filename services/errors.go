package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anjiri1684/cricket_coach/apiclient"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/session"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

type bookingReader interface {
	GetBooking(ctx context.Context, token, id string) (*models.Booking, error)
}

// findBooking looks in the session's lists first and asks the API only when
// the booking is not loaded in any of the given views.
func findBooking(ctx context.Context, api bookingReader, s *session.Session, id string, viewNames ...string) (models.Booking, error) {
	for _, name := range viewNames {
		if b, ok := s.List(name).Find(id); ok {
			return b, nil
		}
	}
	b, err := api.GetBooking(ctx, s.Token(), id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return models.Booking{}, fmt.Errorf("booking %s: %w", id, ErrNotFound)
		}
		return models.Booking{}, err
	}
	return *b, nil
}

// flightKey scopes in-flight de-duplication to one session, so repeated
// submits from the same sign-in share a call.
func flightKey(s *session.Session, bookingID, action string) string {
	return s.Token() + ":" + bookingID + ":" + action
}
