package admin

import (
	"context"
	"slices"
	"sync"

	"portfolio/internal/content"
	"portfolio/internal/model"
)

const requiredProjectFields = "Please fill in all required fields (Title, Description, Category)."

// ProjectPanel manages projects.
type ProjectPanel struct {
	m       Mutator
	confirm ConfirmFunc

	mu    sync.Mutex
	draft *model.Project
}

func NewProjectPanel(m Mutator, confirm ConfirmFunc) *ProjectPanel {
	return &ProjectPanel{m: m, confirm: confirm}
}

// List returns every project of the current view, drafts included.
func (p *ProjectPanel) List() []model.Project {
	return p.m.State().Projects
}

// Create adds a new project. Status defaults to draft.
func (p *ProjectPanel) Create(ctx context.Context, in model.Project) (content.Result, error) {
	in.Normalize()
	if err := checkProject(in); err != nil {
		return content.Result{}, err
	}
	return outcome(p.m.AddProject(ctx, in))
}

// Edit loads project id as the current draft, replacing any previous one.
func (p *ProjectPanel) Edit(id string) error {
	projects := p.m.State().Projects
	i := slices.IndexFunc(projects, func(x model.Project) bool { return x.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	draft := projects[i]
	p.draft = &draft
	return nil
}

// Draft returns the project being edited.
func (p *ProjectPanel) Draft() (model.Project, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.draft == nil {
		return model.Project{}, false
	}
	return *p.draft, true
}

// Cancel discards the draft.
func (p *ProjectPanel) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draft = nil
}

// Save applies patch to the draft and writes it. The draft is kept when the
// write fails so it can be retried or cancelled.
func (p *ProjectPanel) Save(ctx context.Context, patch model.ProjectPatch) (content.Result, error) {
	p.mu.Lock()
	if p.draft == nil {
		p.mu.Unlock()
		return content.Result{}, ErrNoDraft
	}
	next := *p.draft
	p.mu.Unlock()

	patch.Apply(&next)
	if err := checkProject(next); err != nil {
		return content.Result{}, err
	}
	if err := patch.Validate(); err != nil {
		return content.Result{}, err
	}

	res, err := outcome(p.m.UpdateProject(ctx, next.ID, patch))
	if err != nil {
		return res, err
	}
	p.Cancel()
	return res, nil
}

// Delete removes project id after confirmation.
func (p *ProjectPanel) Delete(ctx context.Context, id string) (content.Result, error) {
	if !slices.ContainsFunc(p.m.State().Projects, func(x model.Project) bool { return x.ID == id }) {
		return content.Result{}, ErrNotFound
	}
	if err := confirmDelete(p.confirm, "project"); err != nil {
		return content.Result{}, err
	}
	return outcome(p.m.DeleteProject(ctx, id))
}

func checkProject(in model.Project) error {
	var v model.Validator
	v.Check(model.NotBlank(in.Title), "title", requiredProjectFields)
	v.Check(model.NotBlank(in.Description), "description", requiredProjectFields)
	v.Check(in.Category != "", "category", requiredProjectFields)
	if err := v.Err(); err != nil {
		return err
	}
	return in.Validate()
}
