// Package content keeps a live, in-memory view of the portfolio collections
// and is the only write path used by the admin panels.
//
// A Sync subscribes to the store change feed for every collection; each
// change signal reloads the whole collection and replaces the local slice.
// Mutations write through to the store and report their outcome as a Result
// instead of an error.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/model"
	"portfolio/internal/repository"
)

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("content sync already started")

// State is a copy of the current view.
type State struct {
	Profile  model.Profile   `json:"profile"`
	Projects []model.Project `json:"projects"`
	Skills   []model.Skill   `json:"skills"`
	Messages []model.Message `json:"messages"`
	Loading  bool            `json:"loading"`
	Error    string          `json:"error,omitempty"`
}

// Result is the outcome of a mutation.
type Result struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(id string) Result { return Result{Success: true, ID: id} }

func failed(err error) Result { return Result{Error: err.Error()} }

// Option configures a Sync.
type Option func(*Sync)

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Sync) { s.now = now }
}

// Sync is the content synchronization service. It is safe for concurrent use.
type Sync struct {
	store repository.Store
	log   *slog.Logger
	now   func() time.Time
	hub   *hub

	mu        sync.RWMutex
	state     State
	snapshots map[repository.Collection]uint64
	version   uint64

	runMu   sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New builds a Sync over store. The view holds the default profile and
// empty lists until Start loads the collections.
func New(store repository.Store, log *slog.Logger, opts ...Option) *Sync {
	s := &Sync{
		store: store,
		log:   log.With(slog.String("component", "content")),
		now:   func() time.Time { return time.Now().UTC() },
		hub:   newHub(),
		state: State{
			Profile:  model.DefaultProfile(),
			Projects: []model.Project{},
			Skills:   []model.Skill{},
			Messages: []model.Message{},
			Loading:  true,
		},
		snapshots: make(map[repository.Collection]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens one subscription per collection and loads the initial
// snapshots. Subscription failures are recorded in the state, not returned.
func (s *Sync) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	// Watch before loading so no change between the two is missed.
	feeds := make(map[repository.Collection]<-chan struct{}, len(repository.Collections))
	for _, c := range repository.Collections {
		ch, err := s.store.Changes.Watch(runCtx, c)
		if err != nil {
			s.fail(c, err)
			continue
		}
		feeds[c] = ch
	}

	for _, c := range repository.Collections {
		s.reload(runCtx, c)
	}

	s.mu.Lock()
	s.state.Loading = false
	s.mu.Unlock()

	for c, ch := range feeds {
		s.wg.Add(1)
		go s.subscribe(runCtx, c, ch)
	}

	s.log.Info("content sync started", slog.Int("subscriptions", len(feeds)), slog.Bool("demo", s.store.Demo))
	return nil
}

// Close cancels every subscription and waits for them to finish.
func (s *Sync) Close() {
	s.runMu.Lock()
	cancel := s.cancel
	s.runMu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
}

func (s *Sync) subscribe(ctx context.Context, c repository.Collection, ch <-chan struct{}) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case _, open := <-ch:
			if !open {
				if ctx.Err() == nil {
					s.fail(c, errors.New("change feed closed"))
				}
				return
			}
			s.reload(ctx, c)
		}
	}
}

// reload replaces the local slice of c with a fresh snapshot from the store.
func (s *Sync) reload(ctx context.Context, c repository.Collection) {
	var apply func(*State)

	switch c {
	case repository.Projects:
		list, err := s.store.Projects.List(ctx)
		if err != nil {
			s.fail(c, err)
			return
		}
		apply = func(st *State) { st.Projects = list }
	case repository.Skills:
		list, err := s.store.Skills.List(ctx)
		if err != nil {
			s.fail(c, err)
			return
		}
		apply = func(st *State) { st.Skills = list }
	case repository.Messages:
		list, err := s.store.Messages.List(ctx)
		if err != nil {
			s.fail(c, err)
			return
		}
		apply = func(st *State) { st.Messages = list }
	case repository.Profile:
		p, err := s.store.Profile.Get(ctx)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			apply = func(*State) {}
		case err != nil:
			s.fail(c, err)
			return
		default:
			apply = func(st *State) { st.Profile = *p }
		}
	default:
		return
	}

	s.mu.Lock()
	apply(&s.state)
	s.snapshots[c]++
	ev := s.bump(c)
	s.mu.Unlock()

	s.hub.broadcast(ev)
}

func (s *Sync) fail(c repository.Collection, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.log.Error("subscription failed", slog.String("collection", string(c)), logger.Err(err))
	s.mu.Lock()
	s.state.Error = fmt.Sprintf("failed to load %s", c)
	s.mu.Unlock()
}

// bump returns the next event for c. Callers hold s.mu.
func (s *Sync) bump(c repository.Collection) Event {
	s.version++
	return Event{Collection: c, Version: s.version}
}

// State returns a copy of the current view.
func (s *Sync) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Profile:  s.state.Profile,
		Projects: cloneProjects(s.state.Projects),
		Skills:   slices.Clone(s.state.Skills),
		Messages: slices.Clone(s.state.Messages),
		Loading:  s.state.Loading,
		Error:    s.state.Error,
	}
}

// Demo reports whether the backing store is the no-op demo store.
func (s *Sync) Demo() bool { return s.store.Demo }

// Listen registers l for every subsequent event and returns its id.
func (s *Sync) Listen(l Listener) int64 { return s.hub.register(l) }

// Unlisten removes a listener registered with Listen.
func (s *Sync) Unlisten(id int64) { s.hub.unregister(id) }

// Listeners returns the number of registered listeners.
func (s *Sync) Listeners() int { return s.hub.len() }

// PublishedProjects returns the published projects of the current view.
func (s *Sync) PublishedProjects() []model.Project {
	return Published(s.State().Projects)
}

// FeaturedProjects returns the featured published projects of the current view.
func (s *Sync) FeaturedProjects() []model.Project {
	return Featured(s.State().Projects)
}

// ProjectsByCategory returns the published projects of category; "all" returns every published project.
func (s *Sync) ProjectsByCategory(category string) []model.Project {
	return ByCategory(s.State().Projects, category)
}

// optimistic applies change to the local view immediately and returns a
// function that puts record id of c back the way it was. Other records of c
// are left alone, so concurrent writes to them survive the rollback. A record
// is only reinserted when change itself removed it. The restore is skipped
// when an authoritative snapshot of c arrived after the change.
func (s *Sync) optimistic(c repository.Collection, id string, change func(*State)) (rollback func()) {
	s.mu.Lock()
	restore := capture(&s.state, c, id)
	seen := s.snapshots[c]
	had := has(&s.state, c, id)
	change(&s.state)
	removed := had && !has(&s.state, c, id)
	ev := s.bump(c)
	s.mu.Unlock()
	s.hub.broadcast(ev)

	return func() {
		s.mu.Lock()
		if s.snapshots[c] != seen {
			s.mu.Unlock()
			return
		}
		restore(&s.state, removed)
		ev := s.bump(c)
		s.mu.Unlock()
		s.hub.broadcast(ev)
	}
}

// mirror applies change to the local view after a successful write.
func (s *Sync) mirror(c repository.Collection, change func(*State)) {
	s.mu.Lock()
	change(&s.state)
	ev := s.bump(c)
	s.mu.Unlock()
	s.hub.broadcast(ev)
}

// capture returns a function restoring record id of c to its current value.
func capture(st *State, c repository.Collection, id string) func(d *State, reinsert bool) {
	switch c {
	case repository.Projects:
		r := keep(st.Projects, id, projectID, cloneProject)
		return func(d *State, reinsert bool) { d.Projects = r(d.Projects, reinsert) }
	case repository.Skills:
		r := keep(st.Skills, id, skillID, nil)
		return func(d *State, reinsert bool) { d.Skills = r(d.Skills, reinsert) }
	case repository.Messages:
		r := keep(st.Messages, id, messageID, nil)
		return func(d *State, reinsert bool) { d.Messages = r(d.Messages, reinsert) }
	default:
		saved := st.Profile
		return func(d *State, _ bool) { d.Profile = saved }
	}
}

// has reports whether record id of c is in st. The profile always exists.
func has(st *State, c repository.Collection, id string) bool {
	switch c {
	case repository.Projects:
		return slices.ContainsFunc(st.Projects, func(p model.Project) bool { return p.ID == id })
	case repository.Skills:
		return slices.ContainsFunc(st.Skills, func(x model.Skill) bool { return x.ID == id })
	case repository.Messages:
		return slices.ContainsFunc(st.Messages, func(x model.Message) bool { return x.ID == id })
	default:
		return true
	}
}

func projectID(p model.Project) string { return p.ID }
func skillID(x model.Skill) string     { return x.ID }
func messageID(x model.Message) string { return x.ID }

// keep saves the record id of list. The returned restore overwrites the
// record when it is still present; when it is gone and reinsert is set it
// goes back at its old index. A record absent at capture time is never touched.
func keep[T any](list []T, id string, key func(T) string, clone func(T) T) func(cur []T, reinsert bool) []T {
	if clone == nil {
		clone = func(x T) T { return x }
	}
	match := func(x T) bool { return key(x) == id }
	at := slices.IndexFunc(list, match)
	if at < 0 {
		return func(cur []T, _ bool) []T { return cur }
	}
	saved := clone(list[at])

	return func(cur []T, reinsert bool) []T {
		if i := slices.IndexFunc(cur, match); i >= 0 {
			cur[i] = clone(saved)
			return cur
		}
		if !reinsert {
			return cur
		}
		return slices.Insert(slices.Clip(cur), min(at, len(cur)), clone(saved))
	}
}

func cloneProject(p model.Project) model.Project {
	p.TechStack = slices.Clone(p.TechStack)
	return p
}

func cloneProjects(in []model.Project) []model.Project {
	out := slices.Clone(in)
	for i := range out {
		out[i].TechStack = slices.Clone(out[i].TechStack)
	}
	return out
}
