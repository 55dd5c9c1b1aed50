package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"portfolio/internal/model"
	"portfolio/internal/repository"
)

type MockProjectRepository struct {
	mock.Mock
}

var _ repository.ProjectRepository = (*MockProjectRepository)(nil)

func (m *MockProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByCategory(ctx context.Context, category model.Category) ([]model.Project, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, id string, patch model.ProjectPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSkillRepository struct {
	mock.Mock
}

var _ repository.SkillRepository = (*MockSkillRepository)(nil)

func (m *MockSkillRepository) List(ctx context.Context) ([]model.Skill, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Skill), args.Error(1)
}

func (m *MockSkillRepository) Create(ctx context.Context, s *model.Skill) (*model.Skill, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Skill), args.Error(1)
}

func (m *MockSkillRepository) Update(ctx context.Context, id string, patch model.SkillPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockSkillRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMessageRepository struct {
	mock.Mock
}

var _ repository.MessageRepository = (*MockMessageRepository)(nil)

func (m *MockMessageRepository) List(ctx context.Context) ([]model.Message, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockMessageRepository) Get(ctx context.Context, id string) (*model.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageRepository) UpdateStatus(ctx context.Context, id string, status model.MessageStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockMessageRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

var _ repository.ProfileRepository = (*MockProfileRepository)(nil)

func (m *MockProfileRepository) Get(ctx context.Context) (*model.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, patch model.ProfilePatch) error {
	args := m.Called(ctx, patch)
	return args.Error(0)
}

func (m *MockProfileRepository) Ensure(ctx context.Context, p model.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
