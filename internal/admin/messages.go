package admin

import (
	"context"
	"slices"

	"portfolio/internal/content"
	"portfolio/internal/model"
)

// MessagePanel is the admin inbox. Messages are never edited, only re-flagged or deleted.
type MessagePanel struct {
	m       Mutator
	confirm ConfirmFunc
}

func NewMessagePanel(m Mutator, confirm ConfirmFunc) *MessagePanel {
	return &MessagePanel{m: m, confirm: confirm}
}

// List returns the inbox, newest first.
func (p *MessagePanel) List() []model.Message {
	return p.m.State().Messages
}

// Unread counts messages still marked new or unread.
func (p *MessagePanel) Unread() int {
	n := 0
	for _, msg := range p.List() {
		if msg.Status == model.MessageNew || msg.Status == model.MessageUnread {
			n++
		}
	}
	return n
}

// SetStatus changes the status of message id to any of the five statuses.
func (p *MessagePanel) SetStatus(ctx context.Context, id string, status model.MessageStatus) (content.Result, error) {
	var v model.Validator
	v.Check(status.Valid(), "status", "status must be one of new, unread, read, replied, archived")
	if err := v.Err(); err != nil {
		return content.Result{}, err
	}
	if !p.exists(id) {
		return content.Result{}, ErrNotFound
	}
	return outcome(p.m.UpdateMessageStatus(ctx, id, status))
}

func (p *MessagePanel) Delete(ctx context.Context, id string) (content.Result, error) {
	if !p.exists(id) {
		return content.Result{}, ErrNotFound
	}
	if err := confirmDelete(p.confirm, "message"); err != nil {
		return content.Result{}, err
	}
	return outcome(p.m.DeleteMessage(ctx, id))
}

func (p *MessagePanel) exists(id string) bool {
	return slices.ContainsFunc(p.List(), func(x model.Message) bool { return x.ID == id })
}
