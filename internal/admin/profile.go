package admin

import (
	"context"
	"strings"
	"sync"

	"portfolio/internal/content"
	"portfolio/internal/model"
)

// ProfilePanel edits the singleton profile. It never creates or deletes it.
type ProfilePanel struct {
	m Mutator

	mu    sync.Mutex
	draft *model.Profile
}

func NewProfilePanel(m Mutator) *ProfilePanel {
	return &ProfilePanel{m: m}
}

// Current returns the profile of the current view.
func (p *ProfilePanel) Current() model.Profile {
	return p.m.State().Profile
}

// Edit loads the current profile as the draft.
func (p *ProfilePanel) Edit() {
	cur := p.Current()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draft = &cur
}

func (p *ProfilePanel) Draft() (model.Profile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.draft == nil {
		return model.Profile{}, false
	}
	return *p.draft, true
}

func (p *ProfilePanel) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draft = nil
}

// Save merges patch into the draft, requires a name and a well-formed email
// on the result, and writes the patch.
func (p *ProfilePanel) Save(ctx context.Context, patch model.ProfilePatch) (content.Result, error) {
	p.mu.Lock()
	if p.draft == nil {
		p.mu.Unlock()
		return content.Result{}, ErrNoDraft
	}
	next := *p.draft
	p.mu.Unlock()

	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		patch.Email = &email
	}
	patch.Apply(&next)

	var v model.Validator
	v.Check(model.NotBlank(next.Name), "name", "name is required")
	v.Check(model.Matches(next.Email, model.EmailRX), "email", "invalid email format")
	if err := v.Err(); err != nil {
		return content.Result{}, err
	}

	res, err := outcome(p.m.UpdateProfile(ctx, patch))
	if err != nil {
		return res, err
	}
	p.Cancel()
	return res, nil
}
