package routes

import (
	"github.com/anjiri1684/cricket_coach/handlers"
	"github.com/anjiri1684/cricket_coach/middleware"
	"github.com/gofiber/fiber/v2"
)

func CoachRoutes(app *fiber.App, guard Guard, h *handlers.AvailabilityHandler) {
	availability := api(app).Group("/coach/availability", guard.With(middleware.CoachRequired())...)
	availability.Get("", h.Own)
	availability.Put("", h.Update)
}
