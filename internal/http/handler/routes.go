package handler

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfolio/internal/auth"
	"portfolio/internal/content"
	"portfolio/internal/http/middleware"
	"portfolio/internal/ratelimit"
	"portfolio/internal/repository"
	"portfolio/internal/service"
)

// DefaultHeartbeat is the comment interval keeping idle site streams open.
const DefaultHeartbeat = 25 * time.Second

// Deps are the collaborators of the HTTP surface.
type Deps struct {
	Log    *slog.Logger
	Errors *Errors

	Store    repository.Store
	Content  *content.Sync
	Projects service.ProjectService
	Contacts service.ContactService
	// Uploads is nil when object storage is not configured.
	Uploads service.UploadService
	Auth    *auth.Authenticator
	// Limiter is nil to disable the /api request ceiling.
	Limiter *ratelimit.Limiter
	// Metrics is nil to skip /metrics.
	Metrics prometheus.Gatherer

	StaticDir string
	Started   time.Time
	// Done ends open site streams on shutdown.
	Done      <-chan struct{}
	Heartbeat time.Duration
}

// RegisterRoutes attaches every route to app. API routes come first so the
// front end catch-all never shadows them.
func RegisterRoutes(app *fiber.App, d Deps) {
	errs := d.Errors
	if errs == nil {
		errs = NewErrors(d.Log, false)
	}
	heartbeat := d.Heartbeat
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}

	app.Get("/health", HealthCheck(d.Store, d.Started))
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	var limit []fiber.Handler
	if d.Limiter != nil {
		limit = append(limit, middleware.RateLimit(d.Limiter, d.Log))
	}
	api := app.Group("/api", limit...)
	requireAdmin := middleware.RequireAdmin(d.Auth)

	// HTTP API facade.
	api.Get("/projects", ListProjects(d.Projects, errs))
	api.Get("/projects/category/:category", ListProjectsByCategory(d.Projects, errs))
	api.Post("/contact", SubmitContact(d.Contacts, errs))
	api.Get("/contacts", requireAdmin, ListContacts(d.Contacts, errs))
	api.Patch("/contacts/:id/status", requireAdmin, UpdateContactStatus(d.Contacts, errs))

	api.Post("/auth/login", Login(d.Auth, errs))

	// Public site, fed from the live view.
	site := api.Group("/site")
	site.Get("/profile", SiteProfile(d.Content))
	site.Get("/skills", SiteSkills(d.Content))
	site.Get("/projects", SiteProjects(d.Content))
	site.Get("/stream", SiteStream(d.Content, d.Done, heartbeat))

	api.Get("/media/*", ServeMedia(d.Uploads, errs))

	// Admin panels.
	adm := api.Group("/admin", requireAdmin)
	adm.Get("/state", AdminState(d.Content))
	adm.Post("/projects", CreateProject(d.Content, errs))
	adm.Put("/projects/:id", UpdateProject(d.Content, errs))
	adm.Delete("/projects/:id", DeleteProject(d.Content, errs))
	adm.Post("/skills", CreateSkill(d.Content, errs))
	adm.Put("/skills/:id", UpdateSkill(d.Content, errs))
	adm.Delete("/skills/:id", DeleteSkill(d.Content, errs))
	adm.Get("/messages", ListMessages(d.Content))
	adm.Patch("/messages/:id/status", SetMessageStatus(d.Content, errs))
	adm.Delete("/messages/:id", DeleteMessage(d.Content, errs))
	adm.Get("/profile", GetProfile(d.Content))
	adm.Put("/profile", UpdateProfile(d.Content, errs))
	adm.Get("/uploads/presign", PresignUpload(d.Uploads, errs))
	adm.Post("/uploads", UploadImage(d.Uploads, errs))
	adm.Delete("/uploads/*", DeleteUpload(d.Uploads, errs))

	api.All("/*", NotFoundAPI)

	if d.StaticDir != "" {
		RegisterStatic(app, d.StaticDir)
	}
}
