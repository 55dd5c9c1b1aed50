package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/auth"
	"portfolio/internal/http/response"
)

// AdminLocalKey is the Fiber locals key holding the verified *auth.Claims.
const AdminLocalKey = "admin"

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAdmin rejects requests without a valid admin bearer token with 401.
func RequireAdmin(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return response.Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", "missing bearer token")
		}

		claims, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			return response.Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", "invalid or expired token")
		}

		c.Locals(AdminLocalKey, claims)
		return c.Next()
	}
}
