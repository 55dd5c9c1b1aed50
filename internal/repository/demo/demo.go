// Package demo provides the no-op store used when no database credentials are configured.
//
// Lists are empty, creates report the fixed id "demo-id", updates and deletes
// succeed without effect and the change feed never fires.
package demo

import (
	"context"

	"portfolio/internal/model"
	"portfolio/internal/repository"
)

// ID is returned by every create.
const ID = "demo-id"

// New returns the demo store.
func New() repository.Store {
	return repository.Store{
		Projects: projects{},
		Skills:   skills{},
		Messages: messages{},
		Profile:  profile{},
		Changes:  feed{},
		Demo:     true,
	}
}

type projects struct{}

func (projects) List(context.Context) ([]model.Project, error) { return []model.Project{}, nil }
func (projects) ListByCategory(context.Context, model.Category) ([]model.Project, error) {
	return []model.Project{}, nil
}
func (projects) Create(_ context.Context, p *model.Project) (*model.Project, error) {
	out := *p
	out.ID = ID
	return &out, nil
}
func (projects) Update(context.Context, string, model.ProjectPatch) error { return nil }
func (projects) Delete(context.Context, string) error                     { return nil }

type skills struct{}

func (skills) List(context.Context) ([]model.Skill, error) { return []model.Skill{}, nil }
func (skills) Create(_ context.Context, s *model.Skill) (*model.Skill, error) {
	out := *s
	out.ID = ID
	return &out, nil
}
func (skills) Update(context.Context, string, model.SkillPatch) error { return nil }
func (skills) Delete(context.Context, string) error                   { return nil }

type messages struct{}

func (messages) List(context.Context) ([]model.Message, error) { return []model.Message{}, nil }
func (messages) Get(context.Context, string) (*model.Message, error) {
	return nil, repository.ErrNotFound
}
func (messages) Create(_ context.Context, m *model.Message) (*model.Message, error) {
	out := *m
	out.ID = ID
	return &out, nil
}
func (messages) UpdateStatus(context.Context, string, model.MessageStatus) error { return nil }
func (messages) Delete(context.Context, string) error                            { return nil }

type profile struct{}

func (profile) Get(context.Context) (*model.Profile, error)       { return nil, repository.ErrNotFound }
func (profile) Update(context.Context, model.ProfilePatch) error { return nil }
func (profile) Ensure(context.Context, model.Profile) error      { return nil }

type feed struct{}

// Watch returns a channel that only closes when ctx is done.
func (feed) Watch(ctx context.Context, _ repository.Collection) (<-chan struct{}, error) {
	ch := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}
