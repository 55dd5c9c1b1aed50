package handler

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RegisterStatic serves the built front end from dir. /admin and every
// other unmatched GET outside /api answer the entry document.
func RegisterStatic(app *fiber.App, dir string) {
	index := filepath.Join(dir, "index.html")

	app.Static("/", dir, fiber.Static{
		Compress:      true,
		Index:         "index.html",
		CacheDuration: 0,
	})

	sendIndex := func(c *fiber.Ctx) error {
		return c.SendFile(index)
	}
	app.Get("/admin", sendIndex)
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return NotFoundAPI(c)
		}
		return sendIndex(c)
	})
}
