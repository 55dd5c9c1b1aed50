package handler

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/http/response"
	"portfolio/internal/logger"
	"portfolio/internal/model"
)

const genericDetail = "Something went wrong"

// Errors renders failure envelopes. Underlying error messages reach the
// client only when detailed is set (development).
type Errors struct {
	log      *slog.Logger
	detailed bool
}

// NewErrors returns an Errors writing to log.
func NewErrors(log *slog.Logger, detailed bool) *Errors {
	return &Errors{log: log, detailed: detailed}
}

func (e *Errors) detail(err error) string {
	if e.detailed && err != nil {
		return err.Error()
	}
	return genericDetail
}

// internal logs err and answers 500 with errMsg.
func (e *Errors) internal(c *fiber.Ctx, errMsg string, err error) error {
	e.log.Error(errMsg,
		slog.String("request_id", response.RequestID(c)),
		slog.String("path", c.Path()),
		logger.Err(err),
	)
	return response.Error(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", errMsg, e.detail(err))
}

// invalid answers 400 with the field details of a *model.ValidationError in err.
func invalid(c *fiber.Ctx, errMsg string, err error) error {
	env := response.Envelope{Code: "VALIDATION_ERROR", Error: errMsg}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		env.Fields = verr.Fields
		if len(verr.Fields) > 0 {
			env.Message = verr.Fields[0].Message
		}
	}
	return response.Write(c, fiber.StatusBadRequest, env)
}

func badBody(c *fiber.Ctx) error {
	return response.Error(c, fiber.StatusBadRequest, "BAD_REQUEST", "Invalid request body", "")
}

// NotFoundAPI answers unmatched /api paths.
func NotFoundAPI(c *fiber.Ctx) error {
	return response.Write(c, fiber.StatusNotFound, response.Envelope{
		Code:  "NOT_FOUND",
		Error: "API endpoint not found",
		Path:  c.OriginalURL(),
	})
}

// Handler returns the Fiber global error handler.
func (e *Errors) Handler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return response.Error(c, status, "BAD_REQUEST", "Bad request", "")
		case fiber.StatusNotFound:
			if strings.HasPrefix(c.Path(), "/api/") {
				return NotFoundAPI(c)
			}
			return response.Error(c, status, "NOT_FOUND", "Resource not found", "")
		case fiber.StatusMethodNotAllowed:
			return response.Error(c, status, "METHOD_NOT_ALLOWED", "Method not allowed", "")
		case fiber.StatusRequestEntityTooLarge:
			return response.Error(c, status, "PAYLOAD_TOO_LARGE", "Request body too large", "")
		default:
			if status < fiber.StatusInternalServerError {
				return response.Error(c, status, "REQUEST_FAILED", err.Error(), "")
			}
			return e.internal(c, "Internal server error", err)
		}
	}
}
