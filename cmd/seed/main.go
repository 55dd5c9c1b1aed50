// Command seed loads initial projects into the configured store.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"portfolio/internal/config"
	"portfolio/internal/logger"
	"portfolio/internal/repository/backend"
)

func main() {
	file := flag.String("file", "data/projects.json", "JSON array of projects to seed")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.Env)

	if cfg.Demo() {
		log.Error("store credentials missing, refusing to seed the demo store",
			slog.String("driver", cfg.StoreDriver))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := backend.Open(ctx, cfg, log, nil)
	if err != nil {
		log.Error("open store", logger.Err(err))
		os.Exit(1)
	}
	defer func() { _ = store.Shutdown(context.Background()) }()

	list, err := loadProjects(*file)
	if err != nil {
		log.Error("load projects", logger.Err(err))
		os.Exit(1)
	}

	res, err := seed(ctx, store, list, log)
	if err != nil {
		log.Error("seed failed", logger.Err(err))
		os.Exit(1)
	}
	log.Info("seed finished", slog.Int("created", res.Created), slog.Int("skipped", res.Skipped))
}
