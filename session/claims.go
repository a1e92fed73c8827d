package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrNoToken      = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpired      = errors.New("session expired")
)

// Identity is who a session acts as.
type Identity struct {
	UserID    string         `json:"userId"`
	Role      lifecycle.Role `json:"role"`
	Name      string         `json:"name,omitempty"`
	ExpiresAt time.Time      `json:"expiresAt,omitempty"`
}

func (i Identity) Viewer() lifecycle.Viewer {
	return lifecycle.Viewer{ID: i.UserID, Role: i.Role}
}

// ParseClaims reads the identity carried by a token without checking its
// signature. The booking API stays the authority on whether it is valid.
func ParseClaims(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrNoToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return IdentityFromClaims(claims)
}

func IdentityFromClaims(claims jwt.MapClaims) (Identity, error) {
	id := claimString(claims, "user_id", "userId", "id", "sub")
	if id == "" {
		return Identity{}, fmt.Errorf("%w: no user id claim", ErrInvalidToken)
	}
	role, ok := lifecycle.ParseRole(claimString(claims, "role"))
	if !ok {
		return Identity{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claimString(claims, "role"))
	}

	identity := Identity{UserID: id, Role: role, Name: claimString(claims, "name")}
	if exp, ok := claims["exp"].(float64); ok {
		identity.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return identity, nil
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
