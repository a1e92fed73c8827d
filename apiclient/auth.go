package apiclient

import (
	"context"
	"net/http"

	"github.com/anjiri1684/cricket_coach/models"
)

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var result models.AuthResult
	if err := c.do(ctx, "", http.MethodPost, "/auth/login", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error) {
	var result models.AuthResult
	if err := c.do(ctx, "", http.MethodPost, "/auth/register", reg, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, token, http.MethodGet, "/auth/profile", nil, &user, "user"); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, update models.ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, token, http.MethodPut, "/auth/profile", update, &user, "user"); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, token string, change models.PasswordChange) error {
	return c.do(ctx, token, http.MethodPut, "/auth/password", change, nil)
}
