package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
)

const secret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func protectedApp(secret string, provider *session.Provider, guards ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{Protected(secret), AttachSession(provider)}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendString(CurrentSession(c).Identity().UserID)
	})
	app.Get("/me", handlers...)
	return app
}

func get(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestProtectedVerifiesSignature(t *testing.T) {
	provider := session.NewProvider(time.Hour, zerolog.Nop())
	app := protectedApp(secret, provider)

	good := sign(t, jwt.MapClaims{"id": "client-1", "role": "client"}, secret)
	forged := sign(t, jwt.MapClaims{"id": "client-1", "role": "admin"}, "other")

	if code := get(t, app, good); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := get(t, app, forged); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", code)
	}
	if code := get(t, app, ""); code != http.StatusBadRequest {
		t.Fatalf("expected 400 without token, got %d", code)
	}
	if provider.Len() != 1 {
		t.Fatalf("expected one session, got %d", provider.Len())
	}
}

func TestAttachSessionWithoutSecret(t *testing.T) {
	app := protectedApp("", session.NewProvider(time.Hour, zerolog.Nop()))

	expired := sign(t, jwt.MapClaims{"id": "client-1", "role": "client", "exp": float64(time.Now().Add(-time.Hour).Unix())}, "any")
	if code := get(t, app, expired); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", code)
	}
	if code := get(t, app, "not-a-jwt"); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage, got %d", code)
	}
	if code := get(t, app, sign(t, jwt.MapClaims{"id": "coach-1", "role": "coach"}, "any")); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRoleGuards(t *testing.T) {
	provider := session.NewProvider(time.Hour, zerolog.Nop())
	app := protectedApp("", provider, AdminRequired())

	if code := get(t, app, sign(t, jwt.MapClaims{"id": "coach-1", "role": "coach"}, "k")); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
	if code := get(t, app, sign(t, jwt.MapClaims{"id": "admin-1", "role": "admin"}, "k")); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	multi := protectedApp("", provider, RequireRole(lifecycle.RoleClient, lifecycle.RoleCoach))
	if code := get(t, multi, sign(t, jwt.MapClaims{"id": "coach-1", "role": "coach"}, "k")); code != http.StatusOK {
		t.Fatalf("expected 200 for coach, got %d", code)
	}
}

func TestBearerTokenFallsBackToQuery(t *testing.T) {
	app := fiber.New()
	app.Get("/ws", func(c *fiber.Ctx) error { return c.SendString(BearerToken(c)) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws?token=abc", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	buf := make([]byte, 3)
	if _, err := io.ReadFull(resp.Body, buf); err != nil || string(buf) != "abc" {
		t.Fatalf("expected abc, got %q (%v)", buf, err)
	}
}
