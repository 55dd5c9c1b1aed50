package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"portfolio/internal/content"
	"portfolio/internal/model"
)

type MockMutator struct {
	mock.Mock
}

func (m *MockMutator) State() content.State {
	args := m.Called()
	return args.Get(0).(content.State)
}

func (m *MockMutator) AddProject(ctx context.Context, p model.Project) content.Result {
	return m.Called(ctx, p).Get(0).(content.Result)
}

func (m *MockMutator) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) content.Result {
	return m.Called(ctx, id, patch).Get(0).(content.Result)
}

func (m *MockMutator) DeleteProject(ctx context.Context, id string) content.Result {
	return m.Called(ctx, id).Get(0).(content.Result)
}

func (m *MockMutator) AddSkill(ctx context.Context, s model.Skill) content.Result {
	return m.Called(ctx, s).Get(0).(content.Result)
}

func (m *MockMutator) UpdateSkill(ctx context.Context, id string, patch model.SkillPatch) content.Result {
	return m.Called(ctx, id, patch).Get(0).(content.Result)
}

func (m *MockMutator) DeleteSkill(ctx context.Context, id string) content.Result {
	return m.Called(ctx, id).Get(0).(content.Result)
}

func (m *MockMutator) UpdateMessageStatus(ctx context.Context, id string, status model.MessageStatus) content.Result {
	return m.Called(ctx, id, status).Get(0).(content.Result)
}

func (m *MockMutator) DeleteMessage(ctx context.Context, id string) content.Result {
	return m.Called(ctx, id).Get(0).(content.Result)
}

func (m *MockMutator) UpdateProfile(ctx context.Context, patch model.ProfilePatch) content.Result {
	return m.Called(ctx, patch).Get(0).(content.Result)
}
