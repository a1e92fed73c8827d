package routes

import "github.com/gofiber/fiber/v2"

// Guard is the handler chain that authenticates a request and attaches its
// session.
type Guard []fiber.Handler

// With returns the guard followed by extra handlers, leaving g untouched.
func (g Guard) With(extra ...fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(g)+len(extra))
	out = append(out, g...)
	return append(out, extra...)
}

func api(app *fiber.App) fiber.Router {
	return app.Group("/api/v1")
}
