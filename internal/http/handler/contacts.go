package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/http/response"
	"portfolio/internal/service"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// SubmitContact godoc
// @Summary Submit the contact form
// @Tags contact
// @Accept json
// @Produce json
// @Param body body contactRequest true "contact message"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/contact [post]
func SubmitContact(svc service.ContactService, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req contactRequest
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}

		msg, err := svc.Submit(c.UserContext(), service.ContactInput{
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			Subject:   req.Subject,
			Message:   req.Message,
			IP:        c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		})
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return invalid(c, "Missing required fields", err)
		case errors.Is(err, service.ErrInvalidEmail):
			return invalid(c, "Invalid email format", err)
		case err != nil:
			return errs.internal(c, "Failed to submit contact form", err)
		}

		return response.Write(c, fiber.StatusCreated, response.Envelope{
			Success: true,
			Message: "Contact form submitted successfully",
			ID:      msg.ID,
		})
	}
}

// ListContacts godoc
// @Summary List contact messages, newest first
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /api/contacts [get]
func ListContacts(svc service.ContactService, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.List(c.UserContext())
		if err != nil {
			return errs.internal(c, "Failed to fetch contacts", err)
		}
		return response.List(c, list)
	}
}

// UpdateContactStatus godoc
// @Summary Change the status of a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "message id"
// @Param body body statusRequest true "new, read, replied or archived"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/contacts/{id}/status [patch]
func UpdateContactStatus(svc service.ContactService, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req statusRequest
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}

		st, err := svc.UpdateStatus(c.UserContext(), id, req.Status)
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			return response.Error(c, fiber.StatusBadRequest, "INVALID_STATUS",
				"Invalid status. Must be one of: new, read, replied, archived", "")
		case errors.Is(err, service.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "NOT_FOUND", "Contact not found", "")
		case errors.Is(err, service.ErrIDRequired):
			return response.Error(c, fiber.StatusBadRequest, "INVALID_ID", "id is required", "")
		case err != nil:
			return errs.internal(c, "Failed to update contact status", err)
		}

		return c.JSON(response.Envelope{
			Success: true,
			Message: "Contact status updated successfully",
			ID:      id,
			Status:  string(st),
		})
	}
}
