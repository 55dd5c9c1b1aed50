package model

import "strings"

// Profile is the singleton owner document. It is provisioned once and only updated afterwards.
type Profile struct {
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone" bson:"phone"`
	Location string `json:"location" bson:"location"`
	Website  string `json:"website" bson:"website"`
	Bio      string `json:"bio" bson:"bio"`
	Title    string `json:"title" bson:"title"`
	Avatar   string `json:"avatar" bson:"avatar"`
}

// DefaultProfile is shown until the stored profile has been loaded.
func DefaultProfile() Profile {
	return Profile{
		Name:     "Portfolio Owner",
		Email:    "owner@example.com",
		Location: "Remote",
		Bio:      "Full stack developer building for the web.",
		Title:    "Full Stack Developer",
		Avatar:   "/Profile.jpg",
	}
}

// ProfilePatch is a partial update of the profile document.
type ProfilePatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	Website  *string `json:"website,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Title    *string `json:"title,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

func (p ProfilePatch) Validate() error {
	var v Validator
	if p.Name != nil {
		v.Check(NotBlank(*p.Name), "name", "name cannot be empty")
	}
	if p.Email != nil {
		v.Check(Matches(strings.TrimSpace(*p.Email), EmailRX), "email", "invalid email format")
	}
	return v.Err()
}

func (p ProfilePatch) Empty() bool {
	return len(p.Fields()) == 0
}

func (p ProfilePatch) Apply(dst *Profile) {
	for _, f := range p.set() {
		*f.dst(dst) = *f.val
	}
}

func (p ProfilePatch) Fields() map[string]any {
	out := map[string]any{}
	for _, f := range p.set() {
		out[f.name] = *f.val
	}
	return out
}

type profileField struct {
	name string
	val  *string
	dst  func(*Profile) *string
}

func (p ProfilePatch) set() []profileField {
	all := []profileField{
		{"name", p.Name, func(d *Profile) *string { return &d.Name }},
		{"email", p.Email, func(d *Profile) *string { return &d.Email }},
		{"phone", p.Phone, func(d *Profile) *string { return &d.Phone }},
		{"location", p.Location, func(d *Profile) *string { return &d.Location }},
		{"website", p.Website, func(d *Profile) *string { return &d.Website }},
		{"bio", p.Bio, func(d *Profile) *string { return &d.Bio }},
		{"title", p.Title, func(d *Profile) *string { return &d.Title }},
		{"avatar", p.Avatar, func(d *Profile) *string { return &d.Avatar }},
	}
	out := all[:0]
	for _, f := range all {
		if f.val != nil {
			out = append(out, f)
		}
	}
	return out
}
