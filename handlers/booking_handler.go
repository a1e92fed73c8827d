package handlers

import (
	"context"

	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/services"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/anjiri1684/cricket_coach/views"
	"github.com/gofiber/fiber/v2"
)

type bookingService interface {
	ClientBookings(ctx context.Context, s *session.Session) (views.Tabs, error)
	CoachBookings(ctx context.Context, s *session.Session) (views.Tabs, error)
	CoachRequests(ctx context.Context, s *session.Session) ([]views.Row, error)
	Create(ctx context.Context, s *session.Session, input models.CreateBookingInput) (*models.Booking, error)
	Approve(ctx context.Context, s *session.Session, id string) error
	Reject(ctx context.Context, s *session.Session, id, reason string) error
	Cancel(ctx context.Context, s *session.Session, id string) error
	Complete(ctx context.Context, s *session.Session, id string) error
	NoShow(ctx context.Context, s *session.Session, id string) error
	Review(ctx context.Context, s *session.Session, id string, rating int, comment string) (*models.Review, error)
}

type BookingHandler struct {
	service bookingService
}

func NewBookingHandler(service *services.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *BookingHandler) ClientBookings(c *fiber.Ctx) error {
	return h.list(c, h.service.ClientBookings)
}

func (h *BookingHandler) CoachBookings(c *fiber.Ctx) error {
	return h.list(c, h.service.CoachBookings)
}

func (h *BookingHandler) list(c *fiber.Ctx, load func(context.Context, *session.Session) (views.Tabs, error)) error {
	tab, err := views.ParseTab(c.Query("tab"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tab must be upcoming, past, cancelled or all"})
	}
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}

	tabs, err := load(c.Context(), s)
	if err != nil {
		return mapError(c, err)
	}
	if rows, ok := tabs.Only(tab); ok {
		return c.JSON(fiber.Map{"tab": tab, "bookings": rows})
	}
	return c.JSON(fiber.Map{"tabs": tabs})
}

func (h *BookingHandler) CoachRequests(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	rows, err := h.service.CoachRequests(c.Context(), s)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"requests": rows})
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var input models.CreateBookingInput
	if ok, err := bindJSON(c, &input); !ok {
		return err
	}
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}

	booking, err := h.service.Create(c.Context(), s, input)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) Approve(c *fiber.Ctx) error {
	return h.act(c, "Booking approved", h.service.Approve)
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	return h.act(c, "Booking cancelled", h.service.Cancel)
}

func (h *BookingHandler) Complete(c *fiber.Ctx) error {
	return h.act(c, "Session marked as completed", h.service.Complete)
}

func (h *BookingHandler) NoShow(c *fiber.Ctx) error {
	return h.act(c, "Session marked as no-show", h.service.NoShow)
}

func (h *BookingHandler) Reject(c *fiber.Ctx) error {
	var req rejectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	return h.act(c, "Booking rejected", func(ctx context.Context, s *session.Session, id string) error {
		return h.service.Reject(ctx, s, id, req.Reason)
	})
}

func (h *BookingHandler) Review(c *fiber.Ctx) error {
	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}

	review, err := h.service.Review(c.Context(), s, c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review})
}

func (h *BookingHandler) act(c *fiber.Ctx, msg string, fn func(context.Context, *session.Session, string) error) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	if err := fn(c.Context(), s, c.Params("id")); err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}
