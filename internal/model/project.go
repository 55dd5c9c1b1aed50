package model

import (
	"strings"
	"time"
)

// Project is a showcased piece of work. Display order is CreatedAt descending.
type Project struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	Title       string        `json:"title" bson:"title"`
	Description string        `json:"description" bson:"description"`
	Image       string        `json:"image" bson:"image"`
	TechStack   []string      `json:"techStack" bson:"techStack"`
	Category    Category      `json:"category" bson:"category"`
	GithubURL   string        `json:"githubUrl,omitempty" bson:"githubUrl,omitempty"`
	DemoURL     string        `json:"demoUrl,omitempty" bson:"demoUrl,omitempty"`
	IsPrivate   bool          `json:"isPrivate" bson:"isPrivate"`
	Featured    bool          `json:"featured" bson:"featured"`
	Status      ProjectStatus `json:"status" bson:"status"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Normalize trims text fields and fills the defaults used by the admin form.
func (p *Project) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Image = strings.TrimSpace(p.Image)
	p.GithubURL = strings.TrimSpace(p.GithubURL)
	p.DemoURL = strings.TrimSpace(p.DemoURL)
	p.TechStack = cleanList(p.TechStack)
	if p.Status == "" {
		p.Status = StatusDraft
	}
}

// Validate checks required fields and enumerations.
func (p Project) Validate() error {
	var v Validator
	v.Check(NotBlank(p.Title), "title", "title is required")
	v.Check(NotBlank(p.Description), "description", "description is required")
	v.Check(p.Category != "", "category", "category is required")
	v.Check(p.Category == "" || p.Category.Valid(), "category", "category must be one of web, mobile, fullstack, frontend")
	v.Check(p.Status.Valid(), "status", "status must be draft or published")
	return v.Err()
}

// ProjectPatch is a partial update; nil fields are left untouched.
type ProjectPatch struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Image       *string        `json:"image,omitempty"`
	TechStack   *[]string      `json:"techStack,omitempty"`
	Category    *Category      `json:"category,omitempty"`
	GithubURL   *string        `json:"githubUrl,omitempty"`
	DemoURL     *string        `json:"demoUrl,omitempty"`
	IsPrivate   *bool          `json:"isPrivate,omitempty"`
	Featured    *bool          `json:"featured,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty"`
	UpdatedAt   *time.Time     `json:"-"`
}

// Validate rejects blank required fields and out-of-range enumerations.
func (p ProjectPatch) Validate() error {
	var v Validator
	if p.Title != nil {
		v.Check(NotBlank(*p.Title), "title", "title cannot be empty")
	}
	if p.Description != nil {
		v.Check(NotBlank(*p.Description), "description", "description cannot be empty")
	}
	if p.Category != nil {
		v.Check(p.Category.Valid(), "category", "category must be one of web, mobile, fullstack, frontend")
	}
	if p.Status != nil {
		v.Check(p.Status.Valid(), "status", "status must be draft or published")
	}
	return v.Err()
}

// Empty reports whether the patch changes nothing besides the timestamp.
func (p ProjectPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Image == nil && p.TechStack == nil &&
		p.Category == nil && p.GithubURL == nil && p.DemoURL == nil && p.IsPrivate == nil &&
		p.Featured == nil && p.Status == nil
}

// normalized trims the set text fields and cleans the tech stack, the same
// way Project.Normalize does for a whole record.
func (p ProjectPatch) normalized() ProjectPatch {
	for _, f := range []**string{&p.Title, &p.Description, &p.Image, &p.GithubURL, &p.DemoURL} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
	if p.TechStack != nil {
		list := cleanList(*p.TechStack)
		p.TechStack = &list
	}
	return p
}

// Apply copies the set fields onto dst.
func (p ProjectPatch) Apply(dst *Project) {
	p = p.normalized()
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Image != nil {
		dst.Image = *p.Image
	}
	if p.TechStack != nil {
		dst.TechStack = *p.TechStack
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.GithubURL != nil {
		dst.GithubURL = *p.GithubURL
	}
	if p.DemoURL != nil {
		dst.DemoURL = *p.DemoURL
	}
	if p.IsPrivate != nil {
		dst.IsPrivate = *p.IsPrivate
	}
	if p.Featured != nil {
		dst.Featured = *p.Featured
	}
	if p.Status != nil {
		dst.Status = *p.Status
	}
	if p.UpdatedAt != nil {
		dst.UpdatedAt = *p.UpdatedAt
	}
}

// Fields returns the set fields keyed by their stored document names.
func (p ProjectPatch) Fields() map[string]any {
	p = p.normalized()
	f := map[string]any{}
	if p.Title != nil {
		f["title"] = *p.Title
	}
	if p.Description != nil {
		f["description"] = *p.Description
	}
	if p.Image != nil {
		f["image"] = *p.Image
	}
	if p.TechStack != nil {
		f["techStack"] = *p.TechStack
	}
	if p.Category != nil {
		f["category"] = string(*p.Category)
	}
	if p.GithubURL != nil {
		f["githubUrl"] = *p.GithubURL
	}
	if p.DemoURL != nil {
		f["demoUrl"] = *p.DemoURL
	}
	if p.IsPrivate != nil {
		f["isPrivate"] = *p.IsPrivate
	}
	if p.Featured != nil {
		f["featured"] = *p.Featured
	}
	if p.Status != nil {
		f["status"] = string(*p.Status)
	}
	if p.UpdatedAt != nil {
		f["updatedAt"] = *p.UpdatedAt
	}
	return f
}

// cleanList trims entries and drops empty ones; the result is never nil.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
