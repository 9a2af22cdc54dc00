package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"

	"portfolio-backend/config"
	"portfolio-backend/internal/domain"
)

const (
	subjectPlaceholder     = "New Message"
	bodySubjectPlaceholder = "N/A"
)

// SendMailFunc matches smtp.SendMail
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService sends contact notifications via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string
	sendMail  SendMailFunc
}

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
}

// NewEmailService creates a new email service from the SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	from := cfg.EmailFrom
	if from == "" {
		from = cfg.EmailUser
	}
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.EmailUser,
		password:  cfg.EmailPass,
		fromEmail: from,
		toEmail:   cfg.ContactEmailTo,
		sendMail:  smtp.SendMail,
	}
}

// WithSendMail replaces the SMTP transport (tests, alternative relays)
func (s *EmailService) WithSendMail(fn SendMailFunc) *EmailService {
	s.sendMail = fn
	return s
}

var contactEmailTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h1>New Contact Form Submission</h1>
    <p><strong>Name:</strong> {{.SenderName}}</p>
    <p><strong>Email:</strong> {{.SenderEmail}}</p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
    <p><strong>Message:</strong></p>
    <p style="white-space: pre-wrap;">{{.Message}}</p>
</body>
</html>`))

// BuildNotification renders the MIME message sent to the site owner
func (s *EmailService) BuildNotification(msg *domain.ContactMessage) ([]byte, error) {
	data := ContactEmailData{
		SenderName:  msg.Name,
		SenderEmail: msg.Email,
		Subject:     msg.Subject,
		Message:     msg.Message,
	}
	if data.Subject == "" {
		data.Subject = bodySubjectPlaceholder
	}

	var body bytes.Buffer
	if err := contactEmailTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := msg.Subject
	if subject == "" {
		subject = subjectPlaceholder
	}

	return []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Reply-To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		s.toEmail,
		headerValue(msg.Email),
		mime.QEncoding.Encode("utf-8", headerValue("Contact Form: "+subject)),
		body.String(),
	)), nil
}

// SendNotification emails a stored contact message to the configured recipient
func (s *EmailService) SendNotification(ctx context.Context, msg *domain.ContactMessage) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email service is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := s.BuildNotification(msg)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.sendMail(addr, auth, s.fromEmail, []string{s.toEmail}, raw); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

// headerValue strips line breaks so user input cannot add headers.
// Non-ASCII subjects are additionally RFC 2047 encoded by the caller.
func headerValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
