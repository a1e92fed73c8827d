package handlers

import (
	"context"

	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/payments"
	"github.com/anjiri1684/cricket_coach/services"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/gofiber/fiber/v2"
)

type paymentService interface {
	CreateIntent(ctx context.Context, s *session.Session, bookingID string) (*models.PaymentIntent, error)
	Pay(ctx context.Context, s *session.Session, bookingID string, input services.PayInput) (payments.Outcome, error)
	Watch(ctx context.Context, s *session.Session, bookingID string) error
	Unwatch(s *session.Session, bookingID string) bool
	Status(ctx context.Context, s *session.Session, bookingID string) (*models.Payment, error)
	RequestRefund(ctx context.Context, s *session.Session, bookingID, reason string) error
}

type PaymentHandler struct {
	service paymentService
}

func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type refundRequest struct {
	Reason string `json:"reason"`
}

func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	intent, err := h.service.CreateIntent(c.Context(), s, c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"paymentIntent": intent})
}

// Pay answers 200 for every gateway outcome; the client reads status to
// decide between the success, failure and processing screens.
func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	var input services.PayInput
	if ok, err := bindJSON(c, &input); !ok {
		return err
	}
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}

	outcome, err := h.service.Pay(c.Context(), s, c.Params("id"), input)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"status": outcome.Status, "message": outcome.Message})
}

func (h *PaymentHandler) Status(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	payment, err := h.service.Status(c.Context(), s, c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"payment": payment})
}

func (h *PaymentHandler) Watch(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	if err := h.service.Watch(c.Context(), s, c.Params("id")); err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Watching payment status"})
}

func (h *PaymentHandler) Unwatch(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"stopped": h.service.Unwatch(s, c.Params("id"))})
}

func (h *PaymentHandler) RequestRefund(c *fiber.Ctx) error {
	var req refundRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	if err := h.service.RequestRefund(c.Context(), s, c.Params("id"), req.Reason); err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Refund requested"})
}
