package memory

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/model"
	"portfolio/internal/repository"
)

func newProject(title string, created time.Time) *model.Project {
	return &model.Project{
		Title:       title,
		Description: gofakeit.Sentence(8),
		Category:    model.CategoryWeb,
		Status:      model.StatusPublished,
		TechStack:   []string{"Go", "React"},
		CreatedAt:   created,
	}
}

func TestProjects_CreateAssignsUniqueIDs(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()

	a, err := repos.Projects.Create(ctx, newProject("A", time.Time{}))
	require.NoError(t, err)
	b, err := repos.Projects.Create(ctx, newProject("B", time.Time{}))
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestProjects_ListNewestFirst(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _ = repos.Projects.Create(ctx, newProject("old", base))
	_, _ = repos.Projects.Create(ctx, newProject("new", base.Add(2*time.Hour)))
	_, _ = repos.Projects.Create(ctx, newProject("mid", base.Add(time.Hour)))

	list, err := repos.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].Title)
	assert.Equal(t, "mid", list[1].Title)
	assert.Equal(t, "old", list[2].Title)
}

func TestProjects_ListByCategory(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()

	web := newProject("web", time.Time{})
	mobile := newProject("mobile", time.Time{})
	mobile.Category = model.CategoryMobile
	_, _ = repos.Projects.Create(ctx, web)
	_, _ = repos.Projects.Create(ctx, mobile)

	list, err := repos.Projects.ListByCategory(ctx, model.CategoryMobile)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mobile", list[0].Title)

	list, err = repos.Projects.ListByCategory(ctx, model.CategoryFullstack)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProjects_UpdateAndDelete(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()

	p, _ := repos.Projects.Create(ctx, newProject("before", time.Time{}))
	title := "after"
	require.NoError(t, repos.Projects.Update(ctx, p.ID, model.ProjectPatch{Title: &title}))

	list, _ := repos.Projects.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "after", list[0].Title)
	assert.Equal(t, p.Description, list[0].Description)

	err := repos.Projects.Update(ctx, "missing", model.ProjectPatch{Title: &title})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repos.Projects.Delete(ctx, p.ID))
	list, _ = repos.Projects.List(ctx)
	assert.Empty(t, list)
}

func TestMessages_UpdateStatus(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()

	m, err := repos.Messages.Create(ctx, &model.Message{
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		Subject: "Hi",
		Body:    "Hello",
		Status:  model.MessageNew,
	})
	require.NoError(t, err)

	require.NoError(t, repos.Messages.UpdateStatus(ctx, m.ID, model.MessageRead))
	got, err := repos.Messages.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MessageRead, got.Status)
	assert.NotNil(t, got.UpdatedAt)

	assert.ErrorIs(t, repos.Messages.UpdateStatus(ctx, "nope", model.MessageRead), repository.ErrNotFound)
	_, err = repos.Messages.Get(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProfile_EnsureThenUpdate(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()

	_, err := repos.Profile.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	name := "Jane"
	assert.ErrorIs(t, repos.Profile.Update(ctx, model.ProfilePatch{Name: &name}), repository.ErrNotFound)

	require.NoError(t, repos.Profile.Ensure(ctx, model.DefaultProfile()))
	require.NoError(t, repos.Profile.Update(ctx, model.ProfilePatch{Name: &name}))

	// A second Ensure must not overwrite the edited document.
	require.NoError(t, repos.Profile.Ensure(ctx, model.DefaultProfile()))

	p, err := repos.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane", p.Name)
	assert.Equal(t, model.DefaultProfile().Bio, p.Bio)
}

func TestChanges_SignalOnWrite(t *testing.T) {
	repos := New().Repositories()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := repos.Changes.Watch(ctx, repository.Skills)
	require.NoError(t, err)

	_, err = repos.Skills.Create(context.Background(), &model.Skill{Name: "Go", Proficiency: model.ProficiencyExpert, Category: model.SkillBackend})
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected change signal")
	}
}

func TestListsAreCopies(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()

	_, _ = repos.Projects.Create(ctx, newProject("x", time.Time{}))
	list, _ := repos.Projects.List(ctx)
	list[0].TechStack[0] = "mutated"
	list[0].Title = "mutated"

	again, _ := repos.Projects.List(ctx)
	assert.Equal(t, "x", again[0].Title)
	assert.Equal(t, "Go", again[0].TechStack[0])
}
