package middleware

import (
	"errors"
	"strings"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
)

const (
	sessionKey = "session"
	LoginPath  = "/login"
)

var errMissingToken = errors.New("missing or malformed JWT")

// Protected verifies the bearer signature when a secret is configured. The
// API stays the authority on tokens either way; without a secret this layer
// only requires that one is present.
func Protected(secret string) fiber.Handler {
	if secret == "" {
		return func(c *fiber.Ctx) error {
			if BearerToken(c) == "" {
				return jwtError(c, errMissingToken)
			}
			return c.Next()
		}
	}
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		TokenLookup:  "header:Authorization,query:token",
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if strings.EqualFold(err.Error(), errMissingToken.Error()) {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Missing or malformed JWT", "redirect": LoginPath})
	}
	return Unauthorized(c, "Invalid or expired JWT")
}

// Unauthorized is the single 401 shape: the caller sends the user to login.
func Unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg, "redirect": LoginPath})
}

// BearerToken reads the token from the Authorization header, falling back to
// the token query parameter used by websocket clients.
func BearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(c.Query("token"))
}

// AttachSession resolves the caller's session and stores it for handlers.
func AttachSession(provider *session.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := provider.Resolve(BearerToken(c))
		switch {
		case errors.Is(err, session.ErrExpired):
			return Unauthorized(c, "Session expired, please log in again")
		case err != nil:
			return Unauthorized(c, "Invalid or expired JWT")
		}
		c.Locals(sessionKey, s)
		return c.Next()
	}
}

// CurrentSession returns the session set by AttachSession, or nil.
func CurrentSession(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(sessionKey).(*session.Session)
	return s
}

// WithSession stores s for the request. Used by tests and by routes that
// resolve the session themselves.
func WithSession(c *fiber.Ctx, s *session.Session) {
	c.Locals(sessionKey, s)
}

func RequireRole(roles ...lifecycle.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := CurrentSession(c)
		if s == nil {
			return Unauthorized(c, "Authentication required")
		}
		role := s.Identity().Role
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: " + describe(roles) + " access required",
		})
	}
}

func describe(roles []lifecycle.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = strings.ToUpper(string(r[:1])) + string(r[1:])
	}
	return strings.Join(names, " or ")
}

func AdminRequired() fiber.Handler {
	return RequireRole(lifecycle.RoleAdmin)
}

func CoachRequired() fiber.Handler {
	return RequireRole(lifecycle.RoleCoach)
}

func ClientRequired() fiber.Handler {
	return RequireRole(lifecycle.RoleClient)
}
