package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

// UserStore is the slice of the user repository the service needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.DashboardUser, error)
	Create(ctx context.Context, u *domain.DashboardUser) error
	UpdateLastLogin(ctx context.Context, id int, at time.Time) error
}

// LoginResult carries the signed token plus the authenticated user.
type LoginResult struct {
	Token string                `json:"token"`
	User  *domain.DashboardUser `json:"user"`
}

// Service authenticates dashboard operators. Password failures and
// unknown usernames both surface as ErrInvalidCredentials so a caller
// cannot probe which usernames exist.
type Service struct {
	users  UserStore
	tokens *JWTService
	logger *slog.Logger
	now    func() time.Time
}

func NewService(users UserStore, tokens *JWTService, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger, now: time.Now}
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Warn("login attempt for unknown user", "username", username)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if !user.IsActive {
		s.logger.Warn("login attempt for inactive user", "username", username)
		return nil, domain.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("failed login attempt", "username", username)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Error("failed to stamp last login", "username", username, "error", err)
	} else {
		user.LastLoginDate = &now
	}

	s.logger.Info("successful login", "username", username, "role", user.Role)

	return &LoginResult{Token: token, User: user}, nil
}

// Refresh exchanges a still-valid token for a fresh one.
func (s *Service) Refresh(ctx context.Context, token string) (*LoginResult, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, domain.ErrUnauthorized.WithError(err)
	}

	user, err := s.users.GetByUsername(ctx, claims.Username)
	if err != nil {
		return nil, domain.ErrUnauthorized.WithError(err)
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	fresh, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResult{Token: fresh, User: user}, nil
}

// EnsureAdmin seeds the default operator account when no user with the
// given username exists yet. Bootstrap only; existing accounts are
// never touched.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("ensure admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &domain.DashboardUser{
		Username:     username,
		PasswordHash: string(hash),
		Role:         "Admin",
		IsActive:     true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	s.logger.Info("seeded admin user", "username", username)

	return nil
}
