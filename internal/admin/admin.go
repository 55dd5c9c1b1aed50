// Package admin implements the content management panels used by the admin endpoints.
//
// Each panel edits at most one record at a time, validates required fields
// before calling a mutation and asks for confirmation before deleting.
package admin

import (
	"context"
	"errors"
	"fmt"

	"portfolio/internal/content"
	"portfolio/internal/model"
)

var (
	// ErrNotConfirmed is returned when a delete was declined.
	ErrNotConfirmed = errors.New("delete not confirmed")
	// ErrNoDraft is returned by Save when nothing is being edited.
	ErrNoDraft = errors.New("no record is being edited")
	// ErrNotFound is returned when the addressed record is not in the current view.
	ErrNotFound = errors.New("record not found")
	// ErrMutationFailed wraps the message of a failed mutation.
	ErrMutationFailed = errors.New("mutation failed")
)

// Mutator is the write API of the content sync service.
type Mutator interface {
	State() content.State

	AddProject(ctx context.Context, p model.Project) content.Result
	UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) content.Result
	DeleteProject(ctx context.Context, id string) content.Result

	AddSkill(ctx context.Context, s model.Skill) content.Result
	UpdateSkill(ctx context.Context, id string, patch model.SkillPatch) content.Result
	DeleteSkill(ctx context.Context, id string) content.Result

	UpdateMessageStatus(ctx context.Context, id string, status model.MessageStatus) content.Result
	DeleteMessage(ctx context.Context, id string) content.Result

	UpdateProfile(ctx context.Context, patch model.ProfilePatch) content.Result
}

var _ Mutator = (*content.Sync)(nil)

// ConfirmFunc asks the operator to approve prompt.
type ConfirmFunc func(prompt string) bool

// Confirmed returns a ConfirmFunc that always answers v.
func Confirmed(v bool) ConfirmFunc {
	return func(string) bool { return v }
}

// outcome converts a mutation result into the panel's error convention.
func outcome(res content.Result) (content.Result, error) {
	if !res.Success {
		return res, fmt.Errorf("%w: %s", ErrMutationFailed, res.Error)
	}
	return res, nil
}

func confirmDelete(confirm ConfirmFunc, kind string) error {
	if confirm == nil || !confirm(fmt.Sprintf("Are you sure you want to delete this %s?", kind)) {
		return ErrNotConfirmed
	}
	return nil
}
