package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/api/middleware"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/auth"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

// AuthService interface for the service
type AuthService interface {
	Login(ctx context.Context, username, password string) (*auth.LoginResult, error)
	Refresh(ctx context.Context, token string) (*auth.LoginResult, error)
}

// AuthHandler handles login and token refresh
type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

func NewAuthHandler(service AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return domain.ErrValidationFailed.WithError(errors.New("username and password are required"))
	}

	result, err := h.service.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// Refresh POST /api/auth/refresh - exchange a valid token for a new one
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := extractBearer(c)
	if token == "" {
		return domain.ErrUnauthorized
	}

	result, err := h.service.Refresh(c.Context(), token)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// Me GET /api/auth/me - identity of the caller, from the validated token
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"id":       claims.UserID,
		"username": claims.Username,
		"role":     claims.Role,
	})
}

func extractBearer(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
