package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/auth"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

const (
	// LocalClaims is the key to retrieve the parsed JWT claims from context
	LocalClaims = "claims"
	// LocalUsername is the key to retrieve the username from context
	LocalUsername = "username"
)

// TokenValidator validates a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Auth creates an authentication middleware using JWT bearer tokens
func Auth(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return domain.ErrUnauthorized
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			// Expired and malformed tokens both return 401.
			// Don't reveal which.
			return domain.ErrUnauthorized
		}

		c.Locals(LocalClaims, claims)
		c.Locals(LocalUsername, claims.Username)

		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetClaims retrieves the parsed JWT claims from Fiber context
func GetClaims(c *fiber.Ctx) (*auth.Claims, error) {
	claims, ok := c.Locals(LocalClaims).(*auth.Claims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// GetUsername retrieves the authenticated username from Fiber context
func GetUsername(c *fiber.Ctx) (string, error) {
	username, ok := c.Locals(LocalUsername).(string)
	if !ok || username == "" {
		return "", domain.ErrUnauthorized
	}
	return username, nil
}
