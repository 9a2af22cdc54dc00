package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"
)

const (
	MsgInvalidForm    = "Invalid form data"
	MsgSendFailed     = "Failed to send message. Please try again later."
	MsgSent           = "Message sent successfully!"
	MsgReceivedNoMail = "Message received! (Email sending skipped in development)"
)

// ContactOptions carries the environment-derived switches for the pipeline
type ContactOptions struct {
	// Production allows live email delivery
	Production bool
	// EmailConfigured is false when SMTP credentials are missing
	EmailConfigured bool
}

func (o ContactOptions) sendEmail() bool {
	return o.Production && o.EmailConfigured
}

type contactUsecase struct {
	repo   domain.ContactRepository
	mailer domain.ContactMailer
	schema *validation.Schema
	opts   ContactOptions
	log    *slog.Logger
	audit  *security.SecurityLogger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(
	repo domain.ContactRepository,
	mailer domain.ContactMailer,
	schema *validation.Schema,
	opts ContactOptions,
	log *slog.Logger,
	audit *security.SecurityLogger,
) domain.ContactUsecase {
	return &contactUsecase{
		repo:   repo,
		mailer: mailer,
		schema: schema,
		opts:   opts,
		log:    log,
		audit:  audit,
	}
}

// Submit validates the message, stores it and then tries to email it.
// A stored message is never rolled back when the email fails.
func (uc *contactUsecase) Submit(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactSubmission, error) {
	normalized := msg.Normalize()
	if fields := uc.schema.Validate(&normalized); fields != nil {
		return nil, apperror.Validation(MsgInvalidForm, fields)
	}

	record, err := uc.repo.Create(ctx, &normalized)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, MsgSendFailed, fmt.Errorf("store contact message: %w", err))
	}

	if !uc.opts.sendEmail() {
		uc.log.InfoContext(ctx, "Contact form submitted, email skipped",
			"record_id", record.ID.String(),
			"request_id", domain.RequestIDFrom(ctx),
			"client_ip", domain.ClientIPFrom(ctx),
			"production", uc.opts.Production,
			"email_configured", uc.opts.EmailConfigured,
		)
		uc.audit.LogContactReceived(ctx, record.Email, record.ID.String(), false)
		return &domain.ContactSubmission{Record: record, Message: MsgReceivedNoMail}, nil
	}

	if err := uc.mailer.SendNotification(ctx, &normalized); err != nil {
		uc.log.ErrorContext(ctx, "Error sending contact form email",
			"record_id", record.ID.String(),
			"request_id", domain.RequestIDFrom(ctx),
			"client_ip", domain.ClientIPFrom(ctx),
			"error", err,
		)
		uc.audit.LogMailDispatchFailed(ctx, record.Email, record.ID.String(), err)
		return nil, apperror.New(http.StatusInternalServerError, MsgSendFailed, fmt.Errorf("send contact email: %w", err))
	}

	uc.audit.LogContactReceived(ctx, record.Email, record.ID.String(), true)
	return &domain.ContactSubmission{Record: record, EmailSent: true, Message: MsgSent}, nil
}
