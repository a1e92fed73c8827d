package routes

import (
	"github.com/anjiri1684/cricket_coach/handlers"
	"github.com/anjiri1684/cricket_coach/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App, guard Guard, h *handlers.BookingHandler) {
	client := api(app).Group("/client/bookings", guard.With(middleware.ClientRequired())...)
	client.Get("", h.ClientBookings)
	client.Post("", h.CreateBooking)
	client.Put("/:id/cancel", h.Cancel)
	client.Post("/:id/review", h.Review)

	coach := api(app).Group("/coach/bookings", guard.With(middleware.CoachRequired())...)
	coach.Get("", h.CoachBookings)
	coach.Get("/requests", h.CoachRequests)
	coach.Put("/:id/approve", h.Approve)
	coach.Put("/:id/reject", h.Reject)
	coach.Put("/:id/cancel", h.Cancel)
	coach.Put("/:id/complete", h.Complete)
	coach.Put("/:id/no-show", h.NoShow)
}
