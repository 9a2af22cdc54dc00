package email

import (
	"context"
	"errors"
	"mime"
	"net/smtp"
	"strings"
	"testing"

	"portfolio-backend/config"
	"portfolio-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		SMTPHost:       "smtp.example.com",
		SMTPPort:       "587",
		EmailUser:      "site@example.com",
		EmailPass:      "app-password",
		ContactEmailTo: "owner@example.com",
	}
}

func TestBuildNotification(t *testing.T) {
	svc := NewEmailService(testConfig())

	raw, err := svc.BuildNotification(&domain.ContactMessage{
		Name:    "Jo <script>",
		Email:   "jo@example.com",
		Subject: "Hello\r\nBcc: victim@example.com",
		Message: "1234567890",
	})
	require.NoError(t, err)
	msg := string(raw)

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found)
	assert.Contains(t, headers, "From: site@example.com\r\n")
	assert.Contains(t, headers, "To: owner@example.com\r\n")
	assert.Contains(t, headers, "Reply-To: jo@example.com\r\n")
	assert.Contains(t, headers, "Subject: Contact Form: Hello  Bcc: victim@example.com\r\n")
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.Contains(t, body, "Jo &lt;script&gt;")
	assert.Contains(t, body, "1234567890")
}

func TestBuildNotificationSubjectPlaceholders(t *testing.T) {
	raw, err := NewEmailService(testConfig()).BuildNotification(&domain.ContactMessage{
		Name: "Jo", Email: "jo@example.com", Message: "1234567890",
	})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Subject: Contact Form: New Message\r\n")
	assert.Contains(t, string(raw), "<strong>Subject:</strong> N/A")
}

func TestBuildNotificationEncodesNonASCIISubject(t *testing.T) {
	raw, err := NewEmailService(testConfig()).BuildNotification(&domain.ContactMessage{
		Name: "Jo", Email: "jo@example.com", Subject: "Café ☕ collaboration", Message: "1234567890",
	})
	require.NoError(t, err)

	headers, _, found := strings.Cut(string(raw), "\r\n\r\n")
	require.True(t, found)

	var subject string
	for _, line := range strings.Split(headers, "\r\n") {
		if v, ok := strings.CutPrefix(line, "Subject: "); ok {
			subject = v
		}
	}
	require.NotEmpty(t, subject)
	assert.True(t, strings.HasPrefix(subject, "=?utf-8?q?"), subject)
	assert.NotContains(t, subject, "é")

	decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
	require.NoError(t, err)
	assert.Equal(t, "Contact Form: Café ☕ collaboration", decoded)
}

func TestSendNotification(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	svc := NewEmailService(testConfig()).WithSendMail(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo = addr, from, to
		return nil
	})

	err := svc.SendNotification(context.Background(), &domain.ContactMessage{Name: "Jo", Email: "jo@example.com", Message: "1234567890"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "site@example.com", gotFrom)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)
}

func TestSendNotificationErrors(t *testing.T) {
	t.Run("transport failure is wrapped", func(t *testing.T) {
		boom := errors.New("535 auth failed")
		svc := NewEmailService(testConfig()).WithSendMail(func(string, smtp.Auth, string, []string, []byte) error {
			return boom
		})
		err := svc.SendNotification(context.Background(), &domain.ContactMessage{Name: "Jo"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("unconfigured", func(t *testing.T) {
		cfg := testConfig()
		cfg.EmailPass = ""
		svc := NewEmailService(cfg)
		assert.False(t, svc.IsConfigured())
		assert.Error(t, svc.SendNotification(context.Background(), &domain.ContactMessage{}))
	})

	t.Run("canceled context", func(t *testing.T) {
		called := false
		svc := NewEmailService(testConfig()).WithSendMail(func(string, smtp.Auth, string, []string, []byte) error {
			called = true
			return nil
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, svc.SendNotification(ctx, &domain.ContactMessage{}), context.Canceled)
		assert.False(t, called)
	})
}
