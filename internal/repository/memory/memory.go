// Package memory is an in-process document store used for local development and tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/model"
	"portfolio/internal/repository"
)

// Store keeps every collection in maps guarded by a single lock.
// It is safe for concurrent use by multiple goroutines.
type Store struct {
	mu       sync.RWMutex
	seq      int64
	projects map[string]row[model.Project]
	skills   map[string]row[model.Skill]
	messages map[string]row[model.Message]
	profile  *model.Profile

	feed *repository.Fanout
	now  func() time.Time
}

type row[T any] struct {
	seq int64
	doc T
}

// New returns an empty store.
func New() *Store {
	return &Store{
		projects: make(map[string]row[model.Project]),
		skills:   make(map[string]row[model.Skill]),
		messages: make(map[string]row[model.Message]),
		feed:     repository.NewFanout(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Projects: projectRepo{s},
		Skills:   skillRepo{s},
		Messages: messageRepo{s},
		Profile:  profileRepo{s},
		Changes:  s.feed,
		Close: func(context.Context) error {
			s.feed.CloseAll()
			return nil
		},
	}
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// newestFirst sorts rows by createdAt descending, newest insert first on ties.
func newestFirst[T any](rows map[string]row[T], created func(T) time.Time) []T {
	list := make([]row[T], 0, len(rows))
	for _, r := range rows {
		list = append(list, r)
	}
	slices.SortFunc(list, func(a, b row[T]) int {
		if c := created(b.doc).Compare(created(a.doc)); c != 0 {
			return c
		}
		switch {
		case a.seq > b.seq:
			return -1
		case a.seq < b.seq:
			return 1
		}
		return 0
	})
	out := make([]T, 0, len(list))
	for _, r := range list {
		out = append(out, r.doc)
	}
	return out
}

type projectRepo struct{ s *Store }

func (r projectRepo) List(_ context.Context) ([]model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneProjects(newestFirst(r.s.projects, projectCreated)), nil
}

func (r projectRepo) ListByCategory(ctx context.Context, category model.Category) ([]model.Project, error) {
	all, _ := r.List(ctx)
	out := make([]model.Project, 0, len(all))
	for _, p := range all {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r projectRepo) Create(_ context.Context, p *model.Project) (*model.Project, error) {
	r.s.mu.Lock()
	stored := *p
	stored.ID = uuid.NewString()
	stored.TechStack = slices.Clone(p.TechStack)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.s.now()
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	r.s.projects[stored.ID] = row[model.Project]{seq: r.s.nextSeq(), doc: stored}
	r.s.mu.Unlock()

	r.s.feed.Publish(repository.Projects)
	out := stored
	return &out, nil
}

func (r projectRepo) Update(_ context.Context, id string, patch model.ProjectPatch) error {
	r.s.mu.Lock()
	cur, ok := r.s.projects[id]
	if !ok {
		r.s.mu.Unlock()
		return repository.ErrNotFound
	}
	patch.Apply(&cur.doc)
	r.s.projects[id] = cur
	r.s.mu.Unlock()

	r.s.feed.Publish(repository.Projects)
	return nil
}

func (r projectRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	delete(r.s.projects, id)
	r.s.mu.Unlock()

	r.s.feed.Publish(repository.Projects)
	return nil
}

type skillRepo struct{ s *Store }

func (r skillRepo) List(_ context.Context) ([]model.Skill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Skill, 0, len(r.s.skills))
	for _, sk := range r.s.skills {
		out = append(out, sk.doc)
	}
	return out, nil
}

func (r skillRepo) Create(_ context.Context, sk *model.Skill) (*model.Skill, error) {
	r.s.mu.Lock()
	stored := *sk
	stored.ID = uuid.NewString()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.s.now()
	}
	r.s.skills[stored.ID] = row[model.Skill]{seq: r.s.nextSeq(), doc: stored}
	r.s.mu.Unlock()

	r.s.feed.Publish(repository.Skills)
	out := stored
	return &out, nil
}

func (r skillRepo) Update(_ context.Context, id string, patch model.SkillPatch) error {
	r.s.mu.Lock()
	cur, ok := r.s.skills[id]
	if !ok {
		r.s.mu.Unlock()
		return repository.ErrNotFound
	}
	patch.Apply(&cur.doc)
	r.s.skills[id] = cur
	r.s.mu.Unlock()

	r.s.feed.Publish(repository.Skills)
	return nil
}

func (r skillRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	delete(r.s.skills, id)
	r.s.mu.Unlock()

	r.s.feed.Publish(repository.Skills)
	return nil
}

type messageRepo struct{ s *Store }

func (r messageRepo) List(_ context.Context) ([]model.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return newestFirst(r.s.messages, func(m model.Message) time.Time { return m.CreatedAt }), nil
}

func (r messageRepo) Get(_ context.Context, id string) (*model.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	cur, ok := r.s.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cur.doc
	return &out, nil
}

func (r messageRepo) Create(_ context.Context, m *model.Message) (*model.Message, error) {
	r.s.mu.Lock()
	stored := *m
	stored.ID = uuid.NewString()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.s.now()
	}
	r.s.messages[stored.ID] = row[model.Message]{seq: r.s.nextSeq(), doc: stored}
	r.s.mu.Unlock()

	r.s.feed.Publish(repository.Messages)
	out := stored
	return &out, nil
}

func (r messageRepo) UpdateStatus(_ context.Context, id string, status model.MessageStatus) error {
	r.s.mu.Lock()
	cur, ok := r.s.messages[id]
	if !ok {
		r.s.mu.Unlock()
		return repository.ErrNotFound
	}
	at := r.s.now()
	cur.doc.Status = status
	cur.doc.UpdatedAt = &at
	r.s.messages[id] = cur
	r.s.mu.Unlock()

	r.s.feed.Publish(repository.Messages)
	return nil
}

func (r messageRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	delete(r.s.messages, id)
	r.s.mu.Unlock()

	r.s.feed.Publish(repository.Messages)
	return nil
}

type profileRepo struct{ s *Store }

func (r profileRepo) Get(_ context.Context) (*model.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.profile == nil {
		return nil, repository.ErrNotFound
	}
	out := *r.s.profile
	return &out, nil
}

func (r profileRepo) Update(_ context.Context, patch model.ProfilePatch) error {
	r.s.mu.Lock()
	if r.s.profile == nil {
		r.s.mu.Unlock()
		return repository.ErrNotFound
	}
	patch.Apply(r.s.profile)
	r.s.mu.Unlock()

	r.s.feed.Publish(repository.Profile)
	return nil
}

func (r profileRepo) Ensure(_ context.Context, p model.Profile) error {
	r.s.mu.Lock()
	if r.s.profile != nil {
		r.s.mu.Unlock()
		return nil
	}
	r.s.profile = &p
	r.s.mu.Unlock()

	r.s.feed.Publish(repository.Profile)
	return nil
}

func projectCreated(p model.Project) time.Time { return p.CreatedAt }

func cloneProjects(in []model.Project) []model.Project {
	for i := range in {
		in[i].TechStack = slices.Clone(in[i].TechStack)
	}
	return in
}
