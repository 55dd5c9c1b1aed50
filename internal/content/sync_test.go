package content

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio/internal/logger"
	"portfolio/internal/model"
	"portfolio/internal/repository"
	"portfolio/internal/repository/memory"
	"portfolio/internal/repository/mocks"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Send(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) count(c repository.Collection) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Collection == c {
			n++
		}
	}
	return n
}

func startSync(t *testing.T, store repository.Store) *Sync {
	t.Helper()
	s := New(store, logger.Discard())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Close)
	return s
}

func validProject() model.Project {
	return model.Project{
		Title:       gofakeit.Word(),
		Description: gofakeit.Sentence(6),
		Category:    model.CategoryWeb,
		TechStack:   []string{"Go"},
	}
}

func TestStart_LoadsSnapshots(t *testing.T) {
	mem := memory.New()
	repos := mem.Repositories()
	ctx := context.Background()
	_, _ = repos.Projects.Create(ctx, &model.Project{Title: "seeded", Category: model.CategoryWeb, Status: model.StatusPublished})
	require.NoError(t, repos.Profile.Ensure(ctx, model.Profile{Name: "Stored Owner", Email: "owner@site.dev"}))

	s := New(repos, logger.Discard())
	assert.True(t, s.State().Loading)
	assert.Equal(t, model.DefaultProfile(), s.State().Profile)

	require.NoError(t, s.Start(ctx))
	defer s.Close()

	st := s.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	require.Len(t, st.Projects, 1)
	assert.Equal(t, "seeded", st.Projects[0].Title)
	assert.Equal(t, "Stored Owner", st.Profile.Name)
	assert.NotNil(t, st.Skills)
	assert.NotNil(t, st.Messages)

	assert.ErrorIs(t, s.Start(ctx), ErrAlreadyStarted)
}

func TestStart_MissingProfileKeepsDefault(t *testing.T) {
	s := startSync(t, memory.New().Repositories())
	assert.Equal(t, model.DefaultProfile(), s.State().Profile)
	assert.Empty(t, s.State().Error)
}

func TestStart_LoadFailureSetsError(t *testing.T) {
	repos := memory.New().Repositories()
	projects := new(mocks.MockProjectRepository)
	projects.On("List", mock.Anything).Return(nil, errors.New("permission denied"))
	repos.Projects = projects

	s := startSync(t, repos)

	st := s.State()
	assert.Equal(t, "failed to load projects", st.Error)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Projects)
}

func TestAddProject(t *testing.T) {
	mem := memory.New()
	repos := mem.Repositories()
	s := startSync(t, repos)
	rec := &recorder{}
	s.Listen(rec)

	res := s.AddProject(context.Background(), validProject())

	require.True(t, res.Success, res.Error)
	assert.NotEmpty(t, res.ID)

	st := s.State()
	require.Len(t, st.Projects, 1)
	assert.Equal(t, res.ID, st.Projects[0].ID)
	assert.Equal(t, model.StatusDraft, st.Projects[0].Status)
	assert.False(t, st.Projects[0].CreatedAt.IsZero())

	stored, _ := repos.Projects.List(context.Background())
	require.Len(t, stored, 1)
	assert.GreaterOrEqual(t, rec.count(repository.Projects), 1)
}

func TestAddProject_ValidationSkipsStore(t *testing.T) {
	repos := memory.New().Repositories()
	projects := new(mocks.MockProjectRepository)
	projects.On("List", mock.Anything).Return([]model.Project{}, nil)
	repos.Projects = projects
	s := startSync(t, repos)

	p := validProject()
	p.Title = "  "
	res := s.AddProject(context.Background(), p)

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "title")
	projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	p = validProject()
	p.Category = "desktop"
	res = s.AddProject(context.Background(), p)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "category")
}

func TestUpdateProject_Idempotent(t *testing.T) {
	repos := memory.New().Repositories()
	s := startSync(t, repos)
	ctx := context.Background()

	added := s.AddProject(ctx, validProject())
	require.True(t, added.Success)

	featured := true
	for range 2 {
		res := s.UpdateProject(ctx, added.ID, model.ProjectPatch{Featured: &featured})
		require.True(t, res.Success, res.Error)
	}

	stored, err := repos.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Featured)

	st := s.State()
	require.Len(t, st.Projects, 1)
	assert.True(t, st.Projects[0].Featured)
}

func TestUpdateProject_RollbackOnFailure(t *testing.T) {
	repos := memory.New().Repositories()
	existing := model.Project{ID: "p1", Title: "Original", Category: model.CategoryWeb, Status: model.StatusPublished}
	projects := new(mocks.MockProjectRepository)
	projects.On("List", mock.Anything).Return([]model.Project{existing}, nil)
	projects.On("Update", mock.Anything, "p1", mock.Anything).Return(errors.New("write rejected"))
	repos.Projects = projects
	s := startSync(t, repos)

	title := "Changed"
	res := s.UpdateProject(context.Background(), "p1", model.ProjectPatch{Title: &title})

	assert.False(t, res.Success)
	assert.Equal(t, "write rejected", res.Error)
	require.Len(t, s.State().Projects, 1)
	assert.Equal(t, "Original", s.State().Projects[0].Title)
}

func TestUpdateProject_SnapshotWinsOverRollback(t *testing.T) {
	repos := memory.New().Repositories()
	projects := new(mocks.MockProjectRepository)
	projects.On("List", mock.Anything).Return([]model.Project{{ID: "p1", Title: "Original"}}, nil).Once()
	projects.On("List", mock.Anything).Return([]model.Project{{ID: "p1", Title: "From snapshot"}}, nil)
	repos.Projects = projects
	s := startSync(t, repos)

	projects.On("Update", mock.Anything, "p1", mock.Anything).
		Run(func(mock.Arguments) { s.reload(context.Background(), repository.Projects) }).
		Return(errors.New("timeout"))

	title := "Changed"
	res := s.UpdateProject(context.Background(), "p1", model.ProjectPatch{Title: &title})

	assert.False(t, res.Success)
	assert.Equal(t, "From snapshot", s.State().Projects[0].Title)
}

func TestDeleteProject_RollbackOnFailure(t *testing.T) {
	repos := memory.New().Repositories()
	projects := new(mocks.MockProjectRepository)
	projects.On("List", mock.Anything).Return([]model.Project{{ID: "a"}, {ID: "b"}}, nil)
	projects.On("Delete", mock.Anything, "a").Return(errors.New("offline"))
	repos.Projects = projects
	s := startSync(t, repos)

	res := s.DeleteProject(context.Background(), "a")

	assert.False(t, res.Success)
	st := s.State()
	require.Len(t, st.Projects, 2)
	assert.Equal(t, "a", st.Projects[0].ID)
}

func TestUpdateProject_RollbackKeepsConcurrentDelete(t *testing.T) {
	repos := memory.New().Repositories()
	projects := new(mocks.MockProjectRepository)
	projects.On("List", mock.Anything).Return([]model.Project{
		{ID: "a", Title: "Alpha"}, {ID: "b", Title: "Beta"}, {ID: "c", Title: "Gamma"},
	}, nil)
	projects.On("Delete", mock.Anything, "b").Return(nil)
	repos.Projects = projects
	s := startSync(t, repos)

	projects.On("Update", mock.Anything, "a", mock.Anything).
		Run(func(mock.Arguments) {
			require.True(t, s.DeleteProject(context.Background(), "b").Success)
		}).
		Return(errors.New("write rejected"))

	title := "Changed"
	res := s.UpdateProject(context.Background(), "a", model.ProjectPatch{Title: &title})

	assert.False(t, res.Success)
	st := s.State()
	require.Len(t, st.Projects, 2)
	assert.Equal(t, "Alpha", st.Projects[0].Title)
	assert.Equal(t, "c", st.Projects[1].ID)
}

func TestUpdateProject_RollbackDoesNotResurrect(t *testing.T) {
	repos := memory.New().Repositories()
	projects := new(mocks.MockProjectRepository)
	projects.On("List", mock.Anything).Return([]model.Project{{ID: "a", Title: "Alpha"}, {ID: "b"}}, nil)
	projects.On("Delete", mock.Anything, "a").Return(nil)
	repos.Projects = projects
	s := startSync(t, repos)

	projects.On("Update", mock.Anything, "a", mock.Anything).
		Run(func(mock.Arguments) {
			require.True(t, s.DeleteProject(context.Background(), "a").Success)
		}).
		Return(errors.New("not found"))

	title := "Changed"
	s.UpdateProject(context.Background(), "a", model.ProjectPatch{Title: &title})

	st := s.State()
	require.Len(t, st.Projects, 1)
	assert.Equal(t, "b", st.Projects[0].ID)
}

func TestDeleteMessage_RollbackKeepsConcurrentStatusChange(t *testing.T) {
	repos := memory.New().Repositories()
	messages := new(mocks.MockMessageRepository)
	messages.On("List", mock.Anything).Return([]model.Message{
		{ID: "m1", Status: model.MessageNew}, {ID: "m2", Status: model.MessageNew},
	}, nil)
	messages.On("UpdateStatus", mock.Anything, "m2", model.MessageRead).Return(nil)
	repos.Messages = messages
	s := startSync(t, repos)

	messages.On("Delete", mock.Anything, "m1").
		Run(func(mock.Arguments) {
			require.True(t, s.UpdateMessageStatus(context.Background(), "m2", model.MessageRead).Success)
		}).
		Return(errors.New("offline"))

	res := s.DeleteMessage(context.Background(), "m1")

	assert.False(t, res.Success)
	st := s.State()
	require.Len(t, st.Messages, 2)
	assert.Equal(t, "m1", st.Messages[0].ID)
	assert.Equal(t, model.MessageRead, st.Messages[1].Status)
}

func TestSkills(t *testing.T) {
	repos := memory.New().Repositories()
	s := startSync(t, repos)
	ctx := context.Background()

	res := s.AddSkill(ctx, model.Skill{Name: "Go"})
	require.True(t, res.Success, res.Error)
	st := s.State()
	require.Len(t, st.Skills, 1)
	assert.Equal(t, model.ProficiencyBeginner, st.Skills[0].Proficiency)
	assert.Equal(t, model.SkillFrontend, st.Skills[0].Category)

	level := model.ProficiencyExpert
	require.True(t, s.UpdateSkill(ctx, res.ID, model.SkillPatch{Proficiency: &level}).Success)
	assert.Equal(t, model.ProficiencyExpert, s.State().Skills[0].Proficiency)

	bad := model.Proficiency("Guru")
	assert.False(t, s.UpdateSkill(ctx, res.ID, model.SkillPatch{Proficiency: &bad}).Success)

	assert.False(t, s.AddSkill(ctx, model.Skill{Name: ""}).Success)

	require.True(t, s.DeleteSkill(ctx, res.ID).Success)
	assert.Empty(t, s.State().Skills)
}

func TestMessages(t *testing.T) {
	repos := memory.New().Repositories()
	s := startSync(t, repos)
	ctx := context.Background()

	res := s.AddMessage(ctx, model.Message{Name: "A", Email: " A@B.com ", Subject: "Hi", Body: "Hello"})
	require.True(t, res.Success, res.Error)

	st := s.State()
	require.Len(t, st.Messages, 1)
	assert.Equal(t, model.MessageNew, st.Messages[0].Status)
	assert.Equal(t, "a@b.com", st.Messages[0].Email)

	require.True(t, s.UpdateMessageStatus(ctx, res.ID, model.MessageUnread).Success)
	stored, err := repos.Messages.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MessageUnread, stored.Status)

	assert.False(t, s.UpdateMessageStatus(ctx, res.ID, "spam").Success)

	missing := s.UpdateMessageStatus(ctx, "missing", model.MessageRead)
	assert.False(t, missing.Success)
	assert.Equal(t, repository.ErrNotFound.Error(), missing.Error)

	require.True(t, s.DeleteMessage(ctx, res.ID).Success)
	assert.Empty(t, s.State().Messages)
}

func TestUpdateProfile(t *testing.T) {
	repos := memory.New().Repositories()
	require.NoError(t, repos.Profile.Ensure(context.Background(), model.DefaultProfile()))
	s := startSync(t, repos)

	bio := "Writes Go."
	res := s.UpdateProfile(context.Background(), model.ProfilePatch{Bio: &bio})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Writes Go.", s.State().Profile.Bio)

	bad := "not-an-email"
	res = s.UpdateProfile(context.Background(), model.ProfilePatch{Email: &bad})
	assert.False(t, res.Success)
	assert.Equal(t, "Writes Go.", s.State().Profile.Bio)
}

func TestUpdateProfile_RollbackWhenNotProvisioned(t *testing.T) {
	s := startSync(t, memory.New().Repositories())

	name := "Someone"
	res := s.UpdateProfile(context.Background(), model.ProfilePatch{Name: &name})

	assert.False(t, res.Success)
	assert.Equal(t, model.DefaultProfile().Name, s.State().Profile.Name)
}

func TestRemoteChangesReplaceState(t *testing.T) {
	repos := memory.New().Repositories()
	s := startSync(t, repos)
	rec := &recorder{}
	s.Listen(rec)

	_, err := repos.Projects.Create(context.Background(), &model.Project{Title: "external", Category: model.CategoryMobile})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		st := s.State()
		return len(st.Projects) == 1 && st.Projects[0].Title == "external"
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return rec.count(repository.Projects) > 0 }, time.Second, 10*time.Millisecond)
}

func TestClose_ReleasesSubscriptions(t *testing.T) {
	repos := memory.New().Repositories()
	feed := repos.Changes.(*repository.Fanout)

	s := New(repos, logger.Discard())
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 1, feed.Watchers(repository.Projects))

	s.Close()

	assert.Eventually(t, func() bool {
		for _, c := range repository.Collections {
			if feed.Watchers(c) != 0 {
				return false
			}
		}
		return true
	}, time.Second, 10*time.Millisecond)
}

func TestClosedFeedSetsError(t *testing.T) {
	repos := memory.New().Repositories()
	feed := repos.Changes.(*repository.Fanout)
	s := startSync(t, repos)

	feed.CloseAll()

	assert.Eventually(t, func() bool {
		return s.State().Error != ""
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, s.State().Error, "failed to load")
}

func TestFeedFailedBeforeStartSetsError(t *testing.T) {
	repos := memory.New().Repositories()
	_, err := repos.Projects.Create(context.Background(), &model.Project{
		Title: "Kept", Description: "d", Category: model.CategoryWeb,
	})
	require.NoError(t, err)
	repos.Changes.(*repository.Fanout).Fail(errors.New("listen refused"))

	s := startSync(t, repos)

	st := s.State()
	assert.Contains(t, st.Error, "failed to load")
	assert.False(t, st.Loading)
	require.Len(t, st.Projects, 1)
	assert.Equal(t, "Kept", st.Projects[0].Title)
}

func TestListener_DroppedOnFailure(t *testing.T) {
	s := startSync(t, memory.New().Repositories())

	good := &recorder{}
	s.Listen(good)
	s.Listen(ListenerFunc(func(Event) error { return errors.New("client gone") }))
	require.Equal(t, 2, s.Listeners())

	require.True(t, s.AddSkill(context.Background(), model.Skill{Name: "Go"}).Success)

	assert.Equal(t, 1, s.Listeners())
	assert.GreaterOrEqual(t, good.count(repository.Skills), 1)

	id := s.Listen(good)
	s.Unlisten(id)
	assert.Equal(t, 1, s.Listeners())
}

func TestStateIsACopy(t *testing.T) {
	s := startSync(t, memory.New().Repositories())
	require.True(t, s.AddProject(context.Background(), validProject()).Success)

	st := s.State()
	st.Projects[0].Title = "mutated"
	st.Projects[0].TechStack[0] = "mutated"

	assert.NotEqual(t, "mutated", s.State().Projects[0].Title)
	assert.Equal(t, "Go", s.State().Projects[0].TechStack[0])
}

func TestDerivedHelpers(t *testing.T) {
	s := startSync(t, memory.New().Repositories())
	ctx := context.Background()

	pub := validProject()
	pub.Status = model.StatusPublished
	pub.Featured = true
	require.True(t, s.AddProject(ctx, pub).Success)

	draft := validProject()
	draft.Category = model.CategoryMobile
	require.True(t, s.AddProject(ctx, draft).Success)

	assert.Len(t, s.PublishedProjects(), 1)
	assert.Len(t, s.FeaturedProjects(), 1)
	assert.Len(t, s.ProjectsByCategory("all"), 1)
	assert.Len(t, s.ProjectsByCategory("web"), 1)
	assert.Empty(t, s.ProjectsByCategory("mobile"))
}
