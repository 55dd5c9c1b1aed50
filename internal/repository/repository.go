package repository

import (
	"context"
	"errors"

	"portfolio/internal/model"
)

// Package repository contains data access abstractions over the document store.
// Implementations live in subpackages (mongo, postgres, memory, demo).

// ErrNotFound is returned when a document addressed by id does not exist.
var ErrNotFound = errors.New("document not found")

// Collection names a top-level collection (or the singleton profile document).
type Collection string

const (
	Projects Collection = "projects"
	Skills   Collection = "skills"
	Messages Collection = "messages"
	Profile  Collection = "profile"
)

// Collections lists every watched collection in subscription order.
var Collections = []Collection{Profile, Projects, Skills, Messages}

// ProjectRepository persists projects. Lists are ordered by createdAt descending.
type ProjectRepository interface {
	List(ctx context.Context) ([]model.Project, error)
	ListByCategory(ctx context.Context, category model.Category) ([]model.Project, error)
	// Create stores p under a freshly generated id and returns the stored record.
	Create(ctx context.Context, p *model.Project) (*model.Project, error)
	// Update applies patch to an existing project; ErrNotFound when id is unknown.
	Update(ctx context.Context, id string, patch model.ProjectPatch) error
	Delete(ctx context.Context, id string) error
}

// SkillRepository persists skills. Lists carry no ordering guarantee.
type SkillRepository interface {
	List(ctx context.Context) ([]model.Skill, error)
	Create(ctx context.Context, s *model.Skill) (*model.Skill, error)
	Update(ctx context.Context, id string, patch model.SkillPatch) error
	Delete(ctx context.Context, id string) error
}

// MessageRepository persists contact messages. Lists are ordered by createdAt descending.
type MessageRepository interface {
	List(ctx context.Context) ([]model.Message, error)
	Get(ctx context.Context, id string) (*model.Message, error)
	Create(ctx context.Context, m *model.Message) (*model.Message, error)
	UpdateStatus(ctx context.Context, id string, status model.MessageStatus) error
	Delete(ctx context.Context, id string) error
}

// ProfileRepository persists the singleton profile document.
type ProfileRepository interface {
	// Get returns ErrNotFound until the profile has been provisioned.
	Get(ctx context.Context) (*model.Profile, error)
	// Update applies patch to the existing document; ErrNotFound when not provisioned.
	Update(ctx context.Context, patch model.ProfilePatch) error
	// Ensure provisions the document with p when it does not exist yet.
	Ensure(ctx context.Context, p model.Profile) error
}

// ChangeFeed delivers a signal on every remote change to a collection.
//
// The returned channel is closed once ctx is done or the underlying listener
// fails; closing it releases the provider subscription.
type ChangeFeed interface {
	Watch(ctx context.Context, c Collection) (<-chan struct{}, error)
}

// Store bundles one backend's repositories.
type Store struct {
	Projects ProjectRepository
	Skills   SkillRepository
	Messages MessageRepository
	Profile  ProfileRepository
	Changes  ChangeFeed

	// Ping checks backend connectivity for the health endpoint.
	Ping func(ctx context.Context) error
	// Close releases the backend connection.
	Close func(ctx context.Context) error
	// Demo is set when the backend is the no-op demo store.
	Demo bool
}

// Healthy runs Ping when the backend provides one.
func (s Store) Healthy(ctx context.Context) error {
	if s.Ping == nil {
		return nil
	}
	return s.Ping(ctx)
}

// Shutdown runs Close when the backend provides one.
func (s Store) Shutdown(ctx context.Context) error {
	if s.Close == nil {
		return nil
	}
	return s.Close(ctx)
}
