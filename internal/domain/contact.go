package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrStoreUnavailable = errors.New("message store unavailable")

// ContactMessage represents a contact form submission
type ContactMessage struct {
	Name    string `json:"name" validate:"notblank,min=2" example:"Jo Doe"`
	Email   string `json:"email" validate:"notblank,email_shape" example:"jo@example.com"`
	Subject string `json:"subject,omitempty" example:"Project Inquiry"`
	Message string `json:"message" validate:"notblank,min=10" example:"I'd like to talk about a project."`
}

// Normalize trims surrounding whitespace from every field.
func (m ContactMessage) Normalize() ContactMessage {
	return ContactMessage{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Subject: strings.TrimSpace(m.Subject),
		Message: strings.TrimSpace(m.Message),
	}
}

// ContactRecord is a persisted, validated ContactMessage. Records are never
// updated or deleted.
type ContactRecord struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ContactMessage
}

// ContactSubmission is the outcome of a successful submission.
type ContactSubmission struct {
	Record    *ContactRecord
	EmailSent bool
	Message   string
}

// ContactRepository is an append-only store of contact messages
type ContactRepository interface {
	Create(ctx context.Context, msg *ContactMessage) (*ContactRecord, error)
}

// ContactMailer delivers the owner notification for a stored message
type ContactMailer interface {
	SendNotification(ctx context.Context, msg *ContactMessage) error
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Submit validates, stores and (in production) emails a contact message
	Submit(ctx context.Context, msg *ContactMessage) (*ContactSubmission, error)
}
