package handlers

import (
	"errors"

	"github.com/anjiri1684/cricket_coach/apiclient"
	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/middleware"
	"github.com/anjiri1684/cricket_coach/payments"
	"github.com/anjiri1684/cricket_coach/services"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/gofiber/fiber/v2"
)

// mapError turns a service error into the JSON error response. Anything the
// API rejected keeps the API's status and message.
func mapError(c *fiber.Ctx, err error) error {
	var fields payments.FieldErrors
	var apiErr *apiclient.APIError

	switch {
	case errors.As(err, &fields):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "fields": fields})
	case errors.Is(err, lifecycle.ErrRatingRequired),
		errors.Is(err, lifecycle.ErrCommentRequired),
		errors.Is(err, lifecycle.ErrReasonRequired),
		errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apiclient.ErrUnauthorized),
		errors.Is(err, session.ErrExpired),
		errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, session.ErrNoToken):
		return middleware.Unauthorized(c, "Session expired, please log in again")
	case errors.Is(err, lifecycle.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, lifecycle.ErrActionUnavailable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, apiclient.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":     "The booking service is unavailable, please try again",
			"retryable": true,
		})
	case errors.As(err, &apiErr):
		return c.Status(apiErr.Status).JSON(fiber.Map{"error": apiErr.Message})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process request"})
	}
}

func currentSession(c *fiber.Ctx) (*session.Session, error) {
	s := middleware.CurrentSession(c)
	if s == nil {
		return nil, session.ErrNoToken
	}
	return s, nil
}
