package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/logger"
)

// Logger logs one record per request with request_id, method, path, status
// and latency in milliseconds. Server errors are logged at error level.
func Logger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// Let the global error handler write the response first so the
			// logged status is final.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()

		attrs := []slog.Attr{
			slog.String("request_id", rid),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		}
		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
			if err != nil {
				attrs = append(attrs, logger.Err(err))
			}
		}
		log.LogAttrs(c.UserContext(), level, "request", attrs...)

		return nil
	}
}
