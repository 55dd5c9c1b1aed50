package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"portfolio/internal/http/response"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the Fiber locals key holding the request id.
	RequestIDLocalKey = response.RequestIDLocalKey
)

// RequestID propagates X-Request-ID, generating a UUID when the client sent none.
// The id is stored in locals for the logger and the error envelope.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}
