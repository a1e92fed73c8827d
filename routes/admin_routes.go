package routes

import (
	"github.com/anjiri1684/cricket_coach/handlers"
	"github.com/anjiri1684/cricket_coach/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App, guard Guard, h *handlers.AdminHandler) {
	admin := api(app).Group("/admin", guard.With(middleware.AdminRequired())...)

	admin.Get("/dashboard", h.Dashboard)
	admin.Get("/bookings", h.Bookings)
	admin.Get("/bookings/export", h.ExportBookings)
	admin.Post("/bookings/:id/refund", h.ForceRefund)
	admin.Delete("/bookings/:id", h.DeleteBooking)

	admin.Get("/users", h.Users)
	admin.Put("/users/:id/status", h.SetUserActive)
	admin.Delete("/users/:id", h.DeleteUser)

	admin.Get("/coaches", h.Coaches)
	admin.Put("/coaches/:id/approve", h.ApproveCoach)
	admin.Delete("/coaches/:id", h.DeleteCoach)

	admin.Get("/reviews", h.Reviews)
	admin.Delete("/reviews/:id", h.DeleteReview)
}
