package routes

import (
	"github.com/anjiri1684/cricket_coach/handlers"
	"github.com/gofiber/fiber/v2"
)

// AuthRoutes guards per route: a guarded group on /auth would also wrap
// login and register.
func AuthRoutes(app *fiber.App, guard Guard, h *handlers.AuthHandler) {
	auth := api(app).Group("/auth")
	auth.Post("/login", h.Login)
	auth.Post("/register", h.Register)

	auth.Post("/logout", guard.With(h.Logout)...)
	auth.Get("/profile", guard.With(h.Profile)...)
	auth.Put("/profile", guard.With(h.UpdateProfile)...)
	auth.Put("/password", guard.With(h.ChangePassword)...)
}
