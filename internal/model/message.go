package model

import (
	"strings"
	"time"

	"portfolio/internal/normalize"
)

// Message is a contact form submission.
type Message struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	Name      string        `json:"name" bson:"name"`
	Email     string        `json:"email" bson:"email"`
	Phone     string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Subject   string        `json:"subject" bson:"subject"`
	Body      string        `json:"message" bson:"message"`
	Status    MessageStatus `json:"status" bson:"status"`
	IP        string        `json:"ip,omitempty" bson:"ip,omitempty"`
	UserAgent string        `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Normalize trims every field, lower-cases the email and defaults the status to new.
func (m *Message) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = normalize.Email(m.Email)
	m.Phone = strings.TrimSpace(m.Phone)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Body = strings.TrimSpace(m.Body)
	if m.Status == "" {
		m.Status = MessageNew
	}
}

func (m Message) Validate() error {
	var v Validator
	v.Check(NotBlank(m.Name), "name", "name is required")
	v.Check(NotBlank(m.Email), "email", "email is required")
	v.Check(NotBlank(m.Subject), "subject", "subject is required")
	v.Check(NotBlank(m.Body), "message", "message is required")
	v.Check(!NotBlank(m.Email) || Matches(m.Email, EmailRX), "email", "invalid email format")
	v.Check(m.Status.Valid(), "status", "status must be one of new, unread, read, replied, archived")
	return v.Err()
}
