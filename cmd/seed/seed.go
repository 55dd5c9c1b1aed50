package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"portfolio/internal/logger"
	"portfolio/internal/model"
	"portfolio/internal/normalize"
	"portfolio/internal/repository"
)

// seedProject is one entry of the seed file.
type seedProject struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	TechStack   []string `json:"techStack"`
	Category    string   `json:"category"`
	GithubURL   string   `json:"githubUrl"`
	DemoURL     string   `json:"demoUrl"`
	IsPrivate   bool     `json:"isPrivate"`
	Featured    bool     `json:"featured"`
}

func (p seedProject) project() model.Project {
	category := model.Category(p.Category)
	if category == "" {
		category = model.CategoryWeb
	}
	return model.Project{
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		TechStack:   p.TechStack,
		Category:    category,
		GithubURL:   p.GithubURL,
		DemoURL:     p.DemoURL,
		IsPrivate:   p.IsPrivate,
		Featured:    p.Featured,
		Status:      model.StatusPublished,
	}
}

var exampleProjects = []seedProject{
	{
		Title:       "Internal Dashboard",
		Description: "Admin dashboard for analytics and operations.",
		Image:       "https://via.placeholder.com/400x250/3B82F6/FFFFFF?text=Internal+Dashboard",
		TechStack:   []string{"React", "Firebase", "Tailwind"},
		Category:    "web",
		DemoURL:     "https://yourdomain.com",
	},
	{
		Title:       "Portfolio Website",
		Description: "This portfolio website showcasing projects and contact form.",
		Image:       "https://via.placeholder.com/400x250/8B5CF6/FFFFFF?text=Portfolio",
		TechStack:   []string{"React", "Framer Motion", "Tailwind"},
		Category:    "frontend",
		GithubURL:   "https://github.com/youruser/portfolio",
		DemoURL:     "https://yourdomain.com",
		Featured:    true,
	},
	{
		Title:       "Task Manager",
		Description: "Collaborative task management app with real-time updates.",
		Image:       "https://via.placeholder.com/400x250/10B981/FFFFFF?text=Task+Manager",
		TechStack:   []string{"React", "Firebase"},
		Category:    "web",
		GithubURL:   "https://github.com/youruser/task-manager",
		DemoURL:     "https://yourdomain.com",
	},
}

// loadProjects reads path, falling back to the built-in examples when the
// file does not exist.
func loadProjects(path string) ([]seedProject, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return exampleProjects, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var list []seedProject
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s holds no projects", path)
	}
	return list, nil
}

// seedResult counts the outcome of a seed run.
type seedResult struct {
	Created int
	Skipped int
}

// seed creates every project whose title slug is not stored yet and
// provisions the profile when absent.
func seed(ctx context.Context, store repository.Store, list []seedProject, log *slog.Logger) (seedResult, error) {
	var res seedResult

	existing, err := store.Projects.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list projects: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[normalize.Slug(p.Title)] = true
	}

	for _, sp := range list {
		slug := normalize.Slug(sp.Title)
		if slug == "" || seen[slug] {
			res.Skipped++
			continue
		}

		p := sp.project()
		p.Normalize()
		if err := p.Validate(); err != nil {
			log.Warn("skipping invalid project", slog.String("title", sp.Title), logger.Err(err))
			res.Skipped++
			continue
		}

		if _, err := store.Projects.Create(ctx, &p); err != nil {
			return res, fmt.Errorf("create project %q: %w", p.Title, err)
		}
		seen[slug] = true
		res.Created++
	}

	if err := store.Profile.Ensure(ctx, model.DefaultProfile()); err != nil {
		return res, fmt.Errorf("provision profile: %w", err)
	}
	return res, nil
}
