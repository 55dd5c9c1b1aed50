package model

import (
	"fmt"
	"slices"
)

// Category groups projects on the public site.
type Category string

const (
	CategoryWeb       Category = "web"
	CategoryMobile    Category = "mobile"
	CategoryFullstack Category = "fullstack"
	CategoryFrontend  Category = "frontend"
)

// Categories lists every accepted project category.
var Categories = []Category{CategoryWeb, CategoryMobile, CategoryFullstack, CategoryFrontend}

func (c Category) Valid() bool { return slices.Contains(Categories, c) }

// ProjectStatus controls whether a project is visible on the public site.
type ProjectStatus string

const (
	StatusDraft     ProjectStatus = "draft"
	StatusPublished ProjectStatus = "published"
)

var ProjectStatuses = []ProjectStatus{StatusDraft, StatusPublished}

func (s ProjectStatus) Valid() bool { return slices.Contains(ProjectStatuses, s) }

// Proficiency is the self-assessed level of a skill.
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "Beginner"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyAdvanced     Proficiency = "Advanced"
	ProficiencyExpert       Proficiency = "Expert"
)

var Proficiencies = []Proficiency{ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert}

func (p Proficiency) Valid() bool { return slices.Contains(Proficiencies, p) }

// SkillCategory groups skills on the about section.
type SkillCategory string

const (
	SkillFrontend SkillCategory = "Frontend"
	SkillBackend  SkillCategory = "Backend"
	SkillDatabase SkillCategory = "Database"
	SkillDevOps   SkillCategory = "DevOps"
	SkillOther    SkillCategory = "Other"
)

var SkillCategories = []SkillCategory{SkillFrontend, SkillBackend, SkillDatabase, SkillDevOps, SkillOther}

func (c SkillCategory) Valid() bool { return slices.Contains(SkillCategories, c) }

// MessageStatus tracks admin handling of a contact message.
type MessageStatus string

const (
	MessageNew      MessageStatus = "new"
	MessageUnread   MessageStatus = "unread"
	MessageRead     MessageStatus = "read"
	MessageReplied  MessageStatus = "replied"
	MessageArchived MessageStatus = "archived"
)

var MessageStatuses = []MessageStatus{MessageNew, MessageUnread, MessageRead, MessageReplied, MessageArchived}

// ContactStatuses is the subset accepted by the public status endpoint.
var ContactStatuses = []MessageStatus{MessageNew, MessageRead, MessageReplied, MessageArchived}

func (s MessageStatus) Valid() bool { return slices.Contains(MessageStatuses, s) }

// ContactStatus reports whether s may be set through PATCH /api/contacts/:id/status.
func (s MessageStatus) ContactStatus() bool { return slices.Contains(ContactStatuses, s) }

// ParseCategory converts a path or query value into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid category %q, must be one of %v", s, Categories)
	}
	return c, nil
}

// ParseMessageStatus converts a request value into a MessageStatus.
func ParseMessageStatus(s string) (MessageStatus, error) {
	st := MessageStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q, must be one of %v", s, MessageStatuses)
	}
	return st, nil
}
