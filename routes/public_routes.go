package routes

import (
	"github.com/anjiri1684/cricket_coach/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App, catalog *handlers.CatalogHandler, availability *handlers.AvailabilityHandler) {
	coaches := api(app).Group("/coaches")
	coaches.Get("", catalog.ListCoaches)
	coaches.Get("/:id", catalog.GetCoach)
	coaches.Get("/:id/reviews", catalog.CoachReviews)
	coaches.Get("/:coachId/slots", availability.OpenSlots)
}
