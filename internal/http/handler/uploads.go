package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/http/response"
	"portfolio/internal/service"
	"portfolio/internal/storage"
)

func uploadsDisabled(c *fiber.Ctx) error {
	return response.Error(c, fiber.StatusServiceUnavailable, "UPLOADS_DISABLED", "Uploads are not configured", "")
}

// UploadImage godoc
// @Summary Upload a project image or the avatar
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "image"
// @Param kind formData string false "projects (default) or avatars"
// @Success 201 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /api/admin/uploads [post]
func UploadImage(svc service.UploadService, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if svc == nil {
			return uploadsDisabled(c)
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return response.Error(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required", "")
		}

		f, err := fh.Open()
		if err != nil {
			return response.Error(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file", "")
		}
		defer f.Close()

		ct := fh.Header.Get(fiber.HeaderContentType)
		if ct == "" {
			ct = "application/octet-stream"
		}
		kind := c.FormValue("kind", service.KindProject)

		up, err := svc.Upload(c.UserContext(), kind, f, fh.Filename, ct, fh.Size)
		switch {
		case errors.Is(err, service.ErrInvalidKind), errors.Is(err, service.ErrUnsupported):
			return response.Error(c, fiber.StatusBadRequest, "INVALID_UPLOAD", err.Error(), "")
		case err != nil:
			return errs.internal(c, "Failed to upload file", err)
		}
		return response.Data(c, fiber.StatusCreated, up)
	}
}

// ServeMedia streams an uploaded object.
func ServeMedia(svc service.UploadService, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if svc == nil {
			return uploadsDisabled(c)
		}
		rc, info, err := svc.Open(c.UserContext(), c.Params("*"))
		switch {
		case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrIDRequired), errors.Is(err, storage.ErrObjectNotFound):
			return response.Error(c, fiber.StatusNotFound, "NOT_FOUND", "File not found", "")
		case err != nil:
			return errs.internal(c, "Failed to read file", err)
		}

		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		if info.ETag != "" {
			c.Set(fiber.HeaderETag, strconv.Quote(info.ETag))
		}
		c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
		return c.SendStream(rc, int(info.Size))
	}
}

// DeleteUpload removes an uploaded object; requires ?confirm=true.
func DeleteUpload(svc service.UploadService, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if svc == nil {
			return uploadsDisabled(c)
		}
		if !c.QueryBool("confirm") {
			return response.Error(c, fiber.StatusPreconditionRequired, "CONFIRMATION_REQUIRED",
				"Confirmation required", "repeat the request with confirm=true")
		}
		key := c.Params("*")
		err := svc.Delete(c.UserContext(), key)
		switch {
		case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrIDRequired):
			return response.Error(c, fiber.StatusNotFound, "NOT_FOUND", "File not found", "")
		case err != nil:
			return errs.internal(c, "Failed to delete file", err)
		}
		return c.JSON(response.Envelope{Success: true, ID: key})
	}
}

// PresignUpload returns a time-limited direct link to ?key=.
func PresignUpload(svc service.UploadService, errs *Errors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if svc == nil {
			return uploadsDisabled(c)
		}
		link, err := svc.Presign(c.UserContext(), c.Query("key"))
		switch {
		case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrIDRequired):
			return response.Error(c, fiber.StatusNotFound, "NOT_FOUND", "File not found", "")
		case err != nil:
			return errs.internal(c, "Failed to sign link", err)
		}
		return c.JSON(fiber.Map{
			"success":   true,
			"url":       link,
			"expiresIn": int(service.PresignExpiry.Seconds()),
		})
	}
}
