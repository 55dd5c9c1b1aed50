package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"portfolio/docs"
	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/content"
	handlers "portfolio/internal/http/handler"
	"portfolio/internal/http/middleware"
	"portfolio/internal/logger"
	"portfolio/internal/model"
	"portfolio/internal/otel"
	"portfolio/internal/ratelimit"
	"portfolio/internal/repository/backend"
	"portfolio/internal/service"
	"portfolio/internal/storage"
)

const (
	bodyLimit       = 10 * 1024 * 1024
	shutdownTimeout = 10 * time.Second
	streamPath      = "/api/site/stream"
)

// @title Portfolio API
// @version 1.0
// @description Public portfolio content, contact inbox and admin panels.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", logger.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	g, gctx := errgroup.WithContext(ctx)

	store, err := backend.Open(gctx, cfg, log, g)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Shutdown(context.Background()); err != nil {
			log.Warn("store close failed", logger.Err(err))
		}
	}()

	if !store.Demo {
		if err := store.Profile.Ensure(ctx, model.DefaultProfile()); err != nil {
			return fmt.Errorf("provision profile: %w", err)
		}
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if !store.Demo {
			return errors.New("JWT_SECRET is required")
		}
		secret = randomSecret()
		log.Warn("JWT_SECRET not set, using an ephemeral secret for demo mode")
	}
	if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPasswordHash == "" {
		log.Warn("admin credentials not configured, logins will be rejected")
	}
	loginLimiter := auth.NewLimiterStore(cfg.Auth.LoginRPM, cfg.Auth.LoginBurst, 5*time.Minute)
	defer loginLimiter.Stop()
	authn := auth.NewAuthenticator(cfg.Auth.AdminEmail, cfg.Auth.AdminPasswordHash,
		auth.NewJWTManager(secret, cfg.Auth.TTL()), loginLimiter)

	counter, closeCounter, err := openCounter(cfg.RateLimit, log)
	if err != nil {
		return err
	}
	defer closeCounter()

	var uploads service.UploadService
	if cfg.MinIO.Configured() {
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
		uploads = service.NewUploadService(objStore)
	} else {
		log.Info("object storage not configured, uploads disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	contentSync := content.New(store, log)
	if err := contentSync.Start(gctx); err != nil {
		return fmt.Errorf("start content sync: %w", err)
	}
	defer contentSync.Close()

	errs := handlers.NewErrors(log, cfg.Development())
	app := fiber.New(fiber.Config{
		AppName:               "portfolio",
		ErrorHandler:          errs.Handler(),
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(metrics.Handler())
	// Structured request logs
	app.Use(middleware.Logger(log))
	app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none",
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool { return c.Path() == streamPath },
	}))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	done := make(chan struct{})
	handlers.RegisterRoutes(app, handlers.Deps{
		Log:       log,
		Errors:    errs,
		Store:     store,
		Content:   contentSync,
		Projects:  service.NewProjectService(store.Projects),
		Contacts:  service.NewContactService(store.Messages),
		Uploads:   uploads,
		Auth:      authn,
		Limiter:   ratelimit.New(counter, cfg.RateLimit.Max),
		Metrics:   reg,
		StaticDir: staticDir(cfg.StaticDir, log),
		Started:   time.Now(),
		Done:      done,
	})

	addr := ":" + cfg.Port
	g.Go(func() error {
		log.Info("server listening",
			slog.String("addr", addr),
			slog.String("env", cfg.Env),
			slog.String("store", cfg.StoreDriver),
			slog.Bool("demo", store.Demo),
		)
		if err := app.Listen(addr); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		close(done)
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return app.ShutdownWithContext(shCtx)
	})

	return g.Wait()
}

// openCounter selects the rate limit backend: Redis when REDIS_URL is set,
// process memory otherwise.
func openCounter(cfg config.RateLimitConfig, log *slog.Logger) (ratelimit.Counter, func(), error) {
	if cfg.RedisURL == "" {
		return ratelimit.NewMemory(cfg.Window()), func() {}, nil
	}
	r, err := ratelimit.NewRedis(cfg.RedisURL, cfg.Window())
	if err != nil {
		return nil, nil, fmt.Errorf("connect rate limit redis: %w", err)
	}
	log.Info("rate limit counters in redis", slog.Duration("window", cfg.Window()))
	return r, func() { _ = r.Close() }, nil
}

// staticDir returns dir when it holds a built front end.
func staticDir(dir string, log *slog.Logger) string {
	if dir == "" {
		return ""
	}
	if _, err := os.Stat(dir); err != nil {
		log.Warn("static directory not found, front end not served", slog.String("dir", dir))
		return ""
	}
	return dir
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
