package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anjiri1684/cricket_coach/apiclient"
	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
)

type fakeAuthAPI struct {
	token        string
	user         *models.User
	profileCalls int
}

func (f *fakeAuthAPI) Login(_ context.Context, creds models.Credentials) (*models.AuthResult, error) {
	if creds.Password != "secret" {
		return nil, &apiclient.APIError{Status: 401, Message: "Invalid credentials"}
	}
	return &models.AuthResult{Token: f.token}, nil
}

func (f *fakeAuthAPI) Register(context.Context, models.Registration) (*models.AuthResult, error) {
	return &models.AuthResult{User: f.user}, nil
}

func (f *fakeAuthAPI) Profile(context.Context, string) (*models.User, error) {
	f.profileCalls++
	return f.user, nil
}

func (f *fakeAuthAPI) UpdateProfile(_ context.Context, _ string, update models.ProfileUpdate) (*models.User, error) {
	u := *f.user
	u.Name = update.Name
	return &u, nil
}

func (f *fakeAuthAPI) ChangePassword(context.Context, string, models.PasswordChange) error {
	return nil
}

func TestLoginStartsSessionFromProfile(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "coach-1"}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	api := &fakeAuthAPI{token: token, user: &models.User{ID: "coach-1", Name: "Ravi", Role: "coach"}}
	provider := newProvider()
	svc := NewAuthService(api, provider, zerolog.Nop())

	if _, err := svc.Login(context.Background(), models.Credentials{Email: "r@x.io", Password: "nope"}); err == nil {
		t.Fatalf("expected login error")
	}

	result, err := svc.Login(context.Background(), models.Credentials{Email: "r@x.io", Password: "secret"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.User == nil || result.User.Name != "Ravi" {
		t.Fatalf("expected profile on result, got %+v", result.User)
	}

	s, err := provider.Resolve(token)
	if err != nil {
		t.Fatalf("expected session, got %v", err)
	}
	if s.Identity().Role != lifecycle.RoleCoach {
		t.Fatalf("expected coach role from profile, got %s", s.Identity().Role)
	}

	if _, err := svc.Profile(context.Background(), s); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if api.profileCalls != 1 {
		t.Fatalf("expected cached profile, got %d fetches", api.profileCalls)
	}

	svc.Logout(s)
	if !s.Closed() || provider.Len() != 0 {
		t.Fatalf("expected session torn down")
	}
}

func TestRegisterWithoutTokenStartsNoSession(t *testing.T) {
	api := &fakeAuthAPI{user: &models.User{ID: "client-2", Role: "client"}}
	provider := newProvider()
	svc := NewAuthService(api, provider, zerolog.Nop())

	result, err := svc.Register(context.Background(), models.Registration{Name: "Asha", Email: "a@x.io", Password: "secret", Role: "client"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Token != "" || provider.Len() != 0 {
		t.Fatalf("expected no session, got %d", provider.Len())
	}
}

func TestUpdateProfileRefreshesSession(t *testing.T) {
	api := &fakeAuthAPI{user: &models.User{ID: "client-1", Name: "Asha", Role: "client"}}
	provider := newProvider()
	svc := NewAuthService(api, provider, zerolog.Nop())
	s := newTestSession(t, provider, "client-1", lifecycle.RoleClient)

	user, err := svc.UpdateProfile(context.Background(), s, models.ProfileUpdate{Name: "Asha Rao"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.Profile() != user || user.Name != "Asha Rao" {
		t.Fatalf("expected session profile to be replaced, got %+v", s.Profile())
	}
	if err := svc.ChangePassword(context.Background(), s, models.PasswordChange{CurrentPassword: "a", NewPassword: "b"}); errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unexpected error %v", err)
	}
}
