package handlers

import (
	"context"
	"errors"

	"github.com/anjiri1684/cricket_coach/apiclient"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/services"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/gofiber/fiber/v2"
)

type authService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error)
	Logout(s *session.Session)
	Profile(ctx context.Context, s *session.Session) (*models.User, error)
	UpdateProfile(ctx context.Context, s *session.Session, update models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, s *session.Session, change models.PasswordChange) error
}

type AuthHandler struct {
	service authService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var creds models.Credentials
	if ok, err := bindJSON(c, &creds); !ok {
		return err
	}
	result, err := h.service.Login(c.Context(), creds)
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"token": result.Token, "user": result.User})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var reg models.Registration
	if ok, err := bindJSON(c, &reg); !ok {
		return err
	}
	result, err := h.service.Register(c.Context(), reg)
	if err != nil {
		return mapError(c, err)
	}
	if result.Token == "" {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Registration successful, please log in", "user": result.User})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": result.Token, "user": result.User})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	h.service.Logout(s)
	return c.JSON(fiber.Map{"message": "Logged out", "redirect": "/login"})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	user, err := h.service.Profile(c.Context(), s)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var update models.ProfileUpdate
	if ok, err := bindJSON(c, &update); !ok {
		return err
	}
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	user, err := h.service.UpdateProfile(c.Context(), s, update)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var change models.PasswordChange
	if ok, err := bindJSON(c, &change); !ok {
		return err
	}
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	if err := h.service.ChangePassword(c.Context(), s, change); err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}
