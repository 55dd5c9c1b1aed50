package handler

import (
	"github.com/gofiber/fiber/v2"

	"portfolio/internal/http/response"
	"portfolio/internal/service"
)

// ListProjects godoc
// @Summary List projects, newest first
// @Tags projects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/projects [get]
func ListProjects(svc service.ProjectService, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.List(c.UserContext())
		if err != nil {
			return errs.internal(c, "Failed to fetch projects", err)
		}
		return response.List(c, list)
	}
}

// ListProjectsByCategory godoc
// @Summary List projects of one category, newest first
// @Tags projects
// @Produce json
// @Param category path string true "web, mobile, fullstack or frontend"
// @Success 200 {object} response.Envelope
// @Router /api/projects/category/{category} [get]
func ListProjectsByCategory(svc service.ProjectService, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := c.Params("category")
		list, err := svc.ByCategory(c.UserContext(), category)
		if err != nil {
			return errs.internal(c, "Failed to fetch projects by category", err)
		}
		n := len(list)
		return c.JSON(response.Envelope{Success: true, Data: list, Count: &n, Category: category})
	}
}
