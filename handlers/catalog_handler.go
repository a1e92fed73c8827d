package handlers

import (
	"context"
	"net/url"

	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/services"
	"github.com/gofiber/fiber/v2"
)

type catalogService interface {
	Coaches(ctx context.Context, query url.Values) ([]models.Coach, error)
	Coach(ctx context.Context, id string) (*models.Coach, error)
	Reviews(ctx context.Context, coachID string) ([]models.Review, error)
}

type CatalogHandler struct {
	service catalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// coachFilters are the directory filters passed through to the API.
var coachFilters = []string{"search", "specialization", "minRate", "maxRate", "minRating", "page", "limit"}

func (h *CatalogHandler) ListCoaches(c *fiber.Ctx) error {
	query := url.Values{}
	for _, key := range coachFilters {
		if v := c.Query(key); v != "" {
			query.Set(key, v)
		}
	}
	coaches, err := h.service.Coaches(c.Context(), query)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"coaches": coaches})
}

func (h *CatalogHandler) GetCoach(c *fiber.Ctx) error {
	coach, err := h.service.Coach(c.Context(), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"coach": coach})
}

func (h *CatalogHandler) CoachReviews(c *fiber.Ctx) error {
	reviews, err := h.service.Reviews(c.Context(), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}
