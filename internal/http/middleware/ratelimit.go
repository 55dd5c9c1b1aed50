package middleware

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/http/response"
	"portfolio/internal/logger"
	"portfolio/internal/ratelimit"
)

// RateLimit applies the fixed-window limiter per client address. Limiter
// backend errors let the request through.
func RateLimit(l *ratelimit.Limiter, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := l.Allow(c.UserContext(), c.IP())
		if err != nil {
			log.Warn("rate limiter unavailable", slog.String("ip", c.IP()), logger.Err(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

		if !d.Allowed {
			return response.Error(c, fiber.StatusTooManyRequests, "RATE_LIMITED",
				"Too many requests from this IP, please try again later.", "")
		}
		return c.Next()
	}
}
