package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/auth"
	"portfolio/internal/http/response"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

var authStatus = map[auth.Code]int{
	auth.CodeInvalidEmail:    fiber.StatusBadRequest,
	auth.CodeTooManyRequests: fiber.StatusTooManyRequests,
	auth.CodeUserNotFound:    fiber.StatusUnauthorized,
	auth.CodeWrongPassword:   fiber.StatusUnauthorized,
}

// Login godoc
// @Summary Sign in as the site admin
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /api/auth/login [post]
func Login(authn *auth.Authenticator, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}

		sess, err := authn.Login(req.Email, req.Password)
		if err != nil {
			var aerr *auth.Error
			if !errors.As(err, &aerr) || aerr.Code == auth.CodeInternal {
				return errs.internal(c, "Login failed", err)
			}
			status, ok := authStatus[aerr.Code]
			if !ok {
				status = fiber.StatusUnauthorized
			}
			return response.Error(c, status, string(aerr.Code), aerr.Message(), "")
		}

		return c.JSON(loginResponse{Success: true, Token: sess.Token, ExpiresAt: sess.ExpiresAt})
	}
}
