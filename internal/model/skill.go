package model

import (
	"strings"
	"time"
)

// Skill is an entry of the skills grid. Skills carry no ordering guarantee.
type Skill struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	Name        string        `json:"name" bson:"name"`
	Proficiency Proficiency   `json:"proficiency" bson:"proficiency"`
	Category    SkillCategory `json:"category" bson:"category"`
	Icon        string        `json:"icon" bson:"icon"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
}

func (s *Skill) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Icon = strings.TrimSpace(s.Icon)
	if s.Proficiency == "" {
		s.Proficiency = ProficiencyBeginner
	}
	if s.Category == "" {
		s.Category = SkillFrontend
	}
}

func (s Skill) Validate() error {
	var v Validator
	v.Check(NotBlank(s.Name), "name", "skill name cannot be empty")
	v.Check(s.Proficiency.Valid(), "proficiency", "proficiency must be one of Beginner, Intermediate, Advanced, Expert")
	v.Check(s.Category.Valid(), "category", "category must be one of Frontend, Backend, Database, DevOps, Other")
	return v.Err()
}

// SkillPatch is a partial update; nil fields are left untouched.
type SkillPatch struct {
	Name        *string        `json:"name,omitempty"`
	Proficiency *Proficiency   `json:"proficiency,omitempty"`
	Category    *SkillCategory `json:"category,omitempty"`
	Icon        *string        `json:"icon,omitempty"`
}

func (p SkillPatch) Validate() error {
	var v Validator
	if p.Name != nil {
		v.Check(NotBlank(*p.Name), "name", "skill name cannot be empty")
	}
	if p.Proficiency != nil {
		v.Check(p.Proficiency.Valid(), "proficiency", "proficiency must be one of Beginner, Intermediate, Advanced, Expert")
	}
	if p.Category != nil {
		v.Check(p.Category.Valid(), "category", "category must be one of Frontend, Backend, Database, DevOps, Other")
	}
	return v.Err()
}

func (p SkillPatch) Empty() bool {
	return p.Name == nil && p.Proficiency == nil && p.Category == nil && p.Icon == nil
}

func (p SkillPatch) normalized() SkillPatch {
	if p.Name != nil {
		v := strings.TrimSpace(*p.Name)
		p.Name = &v
	}
	if p.Icon != nil {
		v := strings.TrimSpace(*p.Icon)
		p.Icon = &v
	}
	return p
}

func (p SkillPatch) Apply(dst *Skill) {
	p = p.normalized()
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Proficiency != nil {
		dst.Proficiency = *p.Proficiency
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.Icon != nil {
		dst.Icon = *p.Icon
	}
}

func (p SkillPatch) Fields() map[string]any {
	p = p.normalized()
	f := map[string]any{}
	if p.Name != nil {
		f["name"] = *p.Name
	}
	if p.Proficiency != nil {
		f["proficiency"] = string(*p.Proficiency)
	}
	if p.Category != nil {
		f["category"] = string(*p.Category)
	}
	if p.Icon != nil {
		f["icon"] = *p.Icon
	}
	return f
}
