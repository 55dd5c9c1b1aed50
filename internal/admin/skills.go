package admin

import (
	"context"
	"slices"
	"sync"

	"portfolio/internal/content"
	"portfolio/internal/model"
)

const emptySkillName = "Skill name cannot be empty."

// SkillPanel manages skills.
type SkillPanel struct {
	m       Mutator
	confirm ConfirmFunc

	mu    sync.Mutex
	draft *model.Skill
}

func NewSkillPanel(m Mutator, confirm ConfirmFunc) *SkillPanel {
	return &SkillPanel{m: m, confirm: confirm}
}

func (p *SkillPanel) List() []model.Skill {
	return p.m.State().Skills
}

// Create adds a skill; proficiency defaults to Beginner and category to Frontend.
func (p *SkillPanel) Create(ctx context.Context, in model.Skill) (content.Result, error) {
	in.Normalize()
	if err := checkSkill(in); err != nil {
		return content.Result{}, err
	}
	return outcome(p.m.AddSkill(ctx, in))
}

func (p *SkillPanel) Edit(id string) error {
	skills := p.m.State().Skills
	i := slices.IndexFunc(skills, func(x model.Skill) bool { return x.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	draft := skills[i]
	p.draft = &draft
	return nil
}

func (p *SkillPanel) Draft() (model.Skill, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.draft == nil {
		return model.Skill{}, false
	}
	return *p.draft, true
}

func (p *SkillPanel) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draft = nil
}

func (p *SkillPanel) Save(ctx context.Context, patch model.SkillPatch) (content.Result, error) {
	p.mu.Lock()
	if p.draft == nil {
		p.mu.Unlock()
		return content.Result{}, ErrNoDraft
	}
	next := *p.draft
	p.mu.Unlock()

	patch.Apply(&next)
	if err := checkSkill(next); err != nil {
		return content.Result{}, err
	}

	res, err := outcome(p.m.UpdateSkill(ctx, next.ID, patch))
	if err != nil {
		return res, err
	}
	p.Cancel()
	return res, nil
}

func (p *SkillPanel) Delete(ctx context.Context, id string) (content.Result, error) {
	if !slices.ContainsFunc(p.m.State().Skills, func(x model.Skill) bool { return x.ID == id }) {
		return content.Result{}, ErrNotFound
	}
	if err := confirmDelete(p.confirm, "skill"); err != nil {
		return content.Result{}, err
	}
	return outcome(p.m.DeleteSkill(ctx, id))
}

func checkSkill(in model.Skill) error {
	var v model.Validator
	v.Check(model.NotBlank(in.Name), "name", emptySkillName)
	if err := v.Err(); err != nil {
		return err
	}
	return in.Validate()
}
