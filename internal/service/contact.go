package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio/internal/model"
	"portfolio/internal/repository"
)

// ContactInput is a public contact form submission.
type ContactInput struct {
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	IP        string
	UserAgent string
}

// ContactService handles contact messages for the public API.
type ContactService interface {
	// Submit validates in and stores it as a new message.
	// Validation failures wrap ErrMissingFields or ErrInvalidEmail together
	// with a *model.ValidationError.
	Submit(ctx context.Context, in ContactInput) (*model.Message, error)
	// List returns every message, newest first.
	List(ctx context.Context) ([]model.Message, error)
	// UpdateStatus sets the status of message id. Only new, read, replied and
	// archived are accepted.
	UpdateStatus(ctx context.Context, id, status string) (model.MessageStatus, error)
}

type contactService struct {
	repo repository.MessageRepository
	now  func() time.Time
}

// NewContactService constructs a ContactService.
func NewContactService(repo repository.MessageRepository) ContactService {
	return &contactService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *contactService) Submit(ctx context.Context, in ContactInput) (*model.Message, error) {
	m := model.Message{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Body:      in.Message,
		Status:    model.MessageNew,
		IP:        in.IP,
		UserAgent: in.UserAgent,
	}
	m.Normalize()

	var v model.Validator
	v.Check(model.NotBlank(m.Name), "name", "name is required")
	v.Check(model.NotBlank(m.Email), "email", "email is required")
	v.Check(model.NotBlank(m.Subject), "subject", "subject is required")
	v.Check(model.NotBlank(m.Body), "message", "message is required")
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingFields, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEmail, err)
	}

	m.CreatedAt = s.now()
	stored, err := s.repo.Create(ctx, &m)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return stored, nil
}

func (s *contactService) List(ctx context.Context) ([]model.Message, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return nonNil(list), nil
}

func (s *contactService) UpdateStatus(ctx context.Context, id, status string) (model.MessageStatus, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	st := model.MessageStatus(status)
	if !st.ContactStatus() {
		return "", fmt.Errorf("%w %q, must be one of %v", ErrInvalidStatus, status, model.ContactStatuses)
	}
	if err := s.repo.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("update message %s: %w", id, err)
	}
	return st, nil
}
