package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/admin"
	"portfolio/internal/content"
	"portfolio/internal/http/response"
	"portfolio/internal/model"
)

// panelError maps admin panel errors onto the envelope.
func panelError(c *fiber.Ctx, errs *Errors, err error) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		msg := "Validation failed"
		if len(verr.Fields) > 0 {
			msg = verr.Fields[0].Message
		}
		return invalid(c, msg, err)
	case errors.Is(err, admin.ErrNotConfirmed):
		return response.Error(c, fiber.StatusPreconditionRequired, "CONFIRMATION_REQUIRED",
			"Confirmation required", "repeat the request with confirm=true")
	case errors.Is(err, admin.ErrNotFound):
		return response.Error(c, fiber.StatusNotFound, "NOT_FOUND", "Record not found", "")
	case errors.Is(err, admin.ErrNoDraft):
		return response.Error(c, fiber.StatusConflict, "NO_DRAFT", err.Error(), "")
	default:
		return errs.internal(c, "Failed to save changes", err)
	}
}

func result(c *fiber.Ctx, status int, res content.Result) error {
	return response.Write(c, status, response.Envelope{Success: true, ID: res.ID})
}

func confirmation(c *fiber.Ctx) admin.ConfirmFunc {
	return admin.Confirmed(c.QueryBool("confirm"))
}

// AdminState returns the whole live view, drafts and messages included.
func AdminState(m admin.Mutator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return response.Data(c, fiber.StatusOK, m.State())
	}
}

// CreateProject godoc
// @Summary Create a project
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/admin/projects [post]
func CreateProject(m admin.Mutator, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.Project
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		res, err := admin.NewProjectPanel(m, nil).Create(c.UserContext(), in)
		if err != nil {
			return panelError(c, errs, err)
		}
		return result(c, fiber.StatusCreated, res)
	}
}

// UpdateProject edits project :id with the fields present in the body.
func UpdateProject(m admin.Mutator, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch model.ProjectPatch
		if err := c.BodyParser(&patch); err != nil {
			return badBody(c)
		}
		panel := admin.NewProjectPanel(m, nil)
		if err := panel.Edit(c.Params("id")); err != nil {
			return panelError(c, errs, err)
		}
		res, err := panel.Save(c.UserContext(), patch)
		if err != nil {
			return panelError(c, errs, err)
		}
		return result(c, fiber.StatusOK, res)
	}
}

// DeleteProject removes project :id; requires ?confirm=true.
func DeleteProject(m admin.Mutator, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := admin.NewProjectPanel(m, confirmation(c)).Delete(c.UserContext(), c.Params("id"))
		if err != nil {
			return panelError(c, errs, err)
		}
		return result(c, fiber.StatusOK, res)
	}
}

func CreateSkill(m admin.Mutator, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.Skill
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		res, err := admin.NewSkillPanel(m, nil).Create(c.UserContext(), in)
		if err != nil {
			return panelError(c, errs, err)
		}
		return result(c, fiber.StatusCreated, res)
	}
}

func UpdateSkill(m admin.Mutator, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch model.SkillPatch
		if err := c.BodyParser(&patch); err != nil {
			return badBody(c)
		}
		panel := admin.NewSkillPanel(m, nil)
		if err := panel.Edit(c.Params("id")); err != nil {
			return panelError(c, errs, err)
		}
		res, err := panel.Save(c.UserContext(), patch)
		if err != nil {
			return panelError(c, errs, err)
		}
		return result(c, fiber.StatusOK, res)
	}
}

func DeleteSkill(m admin.Mutator, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := admin.NewSkillPanel(m, confirmation(c)).Delete(c.UserContext(), c.Params("id"))
		if err != nil {
			return panelError(c, errs, err)
		}
		return result(c, fiber.StatusOK, res)
	}
}

// ListMessages returns the inbox with the number of unhandled messages.
func ListMessages(m admin.Mutator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		panel := admin.NewMessagePanel(m, nil)
		list := panel.List()
		n := len(list)
		return c.JSON(fiber.Map{
			"success": true,
			"data":    list,
			"count":   n,
			"unread":  panel.Unread(),
		})
	}
}

// SetMessageStatus accepts any of the five message statuses.
func SetMessageStatus(m admin.Mutator, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req statusRequest
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
		res, err := admin.NewMessagePanel(m, nil).SetStatus(c.UserContext(), c.Params("id"), model.MessageStatus(req.Status))
		if err != nil {
			return panelError(c, errs, err)
		}
		return c.JSON(response.Envelope{Success: true, ID: res.ID, Status: req.Status})
	}
}

func DeleteMessage(m admin.Mutator, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := admin.NewMessagePanel(m, confirmation(c)).Delete(c.UserContext(), c.Params("id"))
		if err != nil {
			return panelError(c, errs, err)
		}
		return result(c, fiber.StatusOK, res)
	}
}

func GetProfile(m admin.Mutator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return response.Data(c, fiber.StatusOK, admin.NewProfilePanel(m).Current())
	}
}

// UpdateProfile merges the body into the current profile.
func UpdateProfile(m admin.Mutator, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch model.ProfilePatch
		if err := c.BodyParser(&patch); err != nil {
			return badBody(c)
		}
		panel := admin.NewProfilePanel(m)
		panel.Edit()
		if _, err := panel.Save(c.UserContext(), patch); err != nil {
			return panelError(c, errs, err)
		}
		return response.Data(c, fiber.StatusOK, panel.Current())
	}
}
