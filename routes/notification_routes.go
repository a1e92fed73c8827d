package routes

import (
	"github.com/anjiri1684/cricket_coach/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// NotificationRoutes serves the push socket. Browsers that cannot set headers
// authenticate with ?token= or with an auth frame after connecting.
func NotificationRoutes(app *fiber.App, attach fiber.Handler, h *handlers.NotificationHandler) {
	ws := api(app).Group("/ws", h.Upgrade)
	ws.Get("/notifications", optionalSession(attach), websocket.New(h.Stream))
}

// optionalSession runs attach only when the upgrade request carries a token.
func optionalSession(attach fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" && c.Query("token") == "" {
			return c.Next()
		}
		return attach(c)
	}
}
