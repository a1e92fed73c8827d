package services

import (
	"context"

	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/rs/zerolog"
)

type authAPI interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error)
	Profile(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, update models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, token string, change models.PasswordChange) error
}

type AuthService struct {
	api      authAPI
	sessions *session.Provider
	log      zerolog.Logger
}

func NewAuthService(api authAPI, sessions *session.Provider, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, sessions: sessions, log: log}
}

// Login authenticates against the API and starts the session for the
// returned token.
func (svc *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	result, err := svc.api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := svc.start(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Register creates the account. When the API signs the user in straight
// away a session is started too.
func (svc *AuthService) Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error) {
	result, err := svc.api.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	if result.Token == "" {
		return result, nil
	}
	if err := svc.start(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (svc *AuthService) start(ctx context.Context, result *models.AuthResult) error {
	if result.Token == "" {
		return session.ErrNoToken
	}
	if result.User == nil {
		user, err := svc.api.Profile(ctx, result.Token)
		if err != nil {
			return err
		}
		result.User = user
	}
	_, err := svc.sessions.Init(result.Token, result.User)
	return err
}

func (svc *AuthService) Logout(s *session.Session) {
	svc.sessions.Teardown(s.Token())
}

// Profile serves the cached profile, fetching it once per session.
func (svc *AuthService) Profile(ctx context.Context, s *session.Session) (*models.User, error) {
	if p := s.Profile(); p != nil {
		return p, nil
	}
	user, err := svc.api.Profile(ctx, s.Token())
	if err != nil {
		return nil, err
	}
	s.SetProfile(user)
	return user, nil
}

func (svc *AuthService) UpdateProfile(ctx context.Context, s *session.Session, update models.ProfileUpdate) (*models.User, error) {
	user, err := svc.api.UpdateProfile(ctx, s.Token(), update)
	if err != nil {
		return nil, err
	}
	s.SetProfile(user)
	return user, nil
}

func (svc *AuthService) ChangePassword(ctx context.Context, s *session.Session, change models.PasswordChange) error {
	if err := svc.api.ChangePassword(ctx, s.Token(), change); err != nil {
		return err
	}
	svc.log.Info().Str("user_id", s.Identity().UserID).Msg("password changed")
	return nil
}
