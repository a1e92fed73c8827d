package routes

import (
	"github.com/anjiri1684/cricket_coach/handlers"
	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App, guard Guard, h *handlers.PaymentHandler) {
	payments := api(app).Group("/payments", guard...)
	client := middleware.ClientRequired()

	payments.Get("/:id", middleware.RequireRole(lifecycle.RoleClient, lifecycle.RoleCoach), h.Status)
	payments.Post("/:id/intent", client, h.CreateIntent)
	payments.Post("/:id/pay", client, h.Pay)
	payments.Post("/:id/watch", client, h.Watch)
	payments.Delete("/:id/watch", client, h.Unwatch)
	payments.Post("/:id/refund", client, h.RequestRefund)
}
