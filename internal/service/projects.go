package service

import (
	"context"
	"fmt"

	"portfolio/internal/model"
	"portfolio/internal/repository"
)

// ProjectService lists projects for the public API.
type ProjectService interface {
	// List returns every project, newest first.
	List(ctx context.Context) ([]model.Project, error)
	// ByCategory returns the projects whose category equals category, newest first.
	// An unknown category yields an empty list.
	ByCategory(ctx context.Context, category string) ([]model.Project, error)
}

type projectService struct {
	repo repository.ProjectRepository
}

// NewProjectService constructs a ProjectService.
func NewProjectService(repo repository.ProjectRepository) ProjectService {
	return &projectService{repo: repo}
}

func (s *projectService) List(ctx context.Context) ([]model.Project, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return nonNil(list), nil
}

func (s *projectService) ByCategory(ctx context.Context, category string) ([]model.Project, error) {
	c, err := model.ParseCategory(category)
	if err != nil {
		return []model.Project{}, nil
	}
	list, err := s.repo.ListByCategory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("list projects by category %s: %w", c, err)
	}
	return nonNil(list), nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
