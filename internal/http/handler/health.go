package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/http/response"
	"portfolio/internal/repository"
)

// HealthCheck reports process status and store connectivity.
func HealthCheck(store repository.Store, started time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Healthy(ctx); err != nil {
			return response.Error(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable", "")
		}
		return c.JSON(fiber.Map{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"uptime":    time.Since(started).Seconds(),
			"demo":      store.Demo,
		})
	}
}

// LivenessProbe answers 200 while the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
