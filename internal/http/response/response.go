// Package response renders the JSON envelope shared by every API endpoint.
package response

import (
	"github.com/gofiber/fiber/v2"

	"portfolio/internal/model"
)

// RequestIDLocalKey is the Fiber locals key holding the request id.
const RequestIDLocalKey = "request_id"

// Envelope is the body of every API response.
type Envelope struct {
	Success   bool               `json:"success"`
	Data      any                `json:"data,omitempty"`
	Count     *int               `json:"count,omitempty"`
	Category  string             `json:"category,omitempty"`
	ID        string             `json:"id,omitempty"`
	Status    string             `json:"status,omitempty"`
	Code      string             `json:"code,omitempty"`
	Error     string             `json:"error,omitempty"`
	Message   string             `json:"message,omitempty"`
	Fields    []model.FieldError `json:"fields,omitempty"`
	Path      string             `json:"path,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
}

// List writes a successful list response with its count.
func List[T any](c *fiber.Ctx, items []T) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return c.JSON(Envelope{Success: true, Data: items, Count: &n})
}

// Data writes a successful response carrying v.
func Data(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: v})
}

// Write writes env with status, filling in the request id of failures.
func Write(c *fiber.Ctx, status int, env Envelope) error {
	if !env.Success && env.RequestID == "" {
		env.RequestID = RequestID(c)
	}
	return c.Status(status).JSON(env)
}

// Error writes a failure envelope. code is machine readable, errMsg is the
// short user-facing error and message optional detail.
func Error(c *fiber.Ctx, status int, code, errMsg, message string) error {
	return Write(c, status, Envelope{Code: code, Error: errMsg, Message: message})
}

// RequestID returns the id stored by the request id middleware.
func RequestID(c *fiber.Ctx) string {
	if s, ok := c.Locals(RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}
