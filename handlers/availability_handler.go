package handlers

import (
	"context"

	"github.com/anjiri1684/cricket_coach/middleware"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/services"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/gofiber/fiber/v2"
)

type availabilityService interface {
	Open(ctx context.Context, token, coachID, date string) ([]models.TimeSlot, error)
	Own(ctx context.Context, s *session.Session) ([]models.TimeSlot, error)
	Update(ctx context.Context, s *session.Session, slots []models.TimeSlot) ([]models.TimeSlot, error)
}

type AvailabilityHandler struct {
	service availabilityService
}

func NewAvailabilityHandler(service *services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// OpenSlots lists a coach's bookable slots, optionally for one ?date=.
func (h *AvailabilityHandler) OpenSlots(c *fiber.Ctx) error {
	slots, err := h.service.Open(c.Context(), middleware.BearerToken(c), c.Params("coachId"), c.Query("date"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"slots": slots})
}

func (h *AvailabilityHandler) Own(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	slots, err := h.service.Own(c.Context(), s)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"slots": slots})
}

func (h *AvailabilityHandler) Update(c *fiber.Ctx) error {
	var req models.Availability
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	slots, err := h.service.Update(c.Context(), s, req.Slots)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"slots": slots})
}
