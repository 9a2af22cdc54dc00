package security

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jo@example.com"))
	assert.Equal(t, "***@b.co", MaskEmail("a@b.co"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, HashValue("not-an-email"), MaskEmail("not-an-email"))
	assert.Len(t, HashValue("x"), 16)
}

func TestLogLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLoggerWithZap(zap.New(core), "portfolio-backend", "test")
	ctx := context.Background()

	sl.LogContactReceived(ctx, "jo@example.com", "rec-1", false)
	sl.LogRateLimitTriggered(ctx, "10.0.0.1", "curl", "req-1", "/api/contact")
	sl.LogMailDispatchFailed(ctx, "jo@example.com", "rec-1", errors.New("smtp down"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "contact_received", entries[0].Message)
	assert.Equal(t, "j***@example.com", entries[0].ContextMap()["subject_value"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "req-1", entries[1].ContextMap()["request_id"])

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Contains(t, entries[2].ContextMap()["details"], "smtp down")
	assert.Equal(t, "HIGH", entries[2].ContextMap()["severity"])
}

func TestGetSeverity(t *testing.T) {
	assert.Equal(t, SeverityINFO, GetSeverity(EventContactReceived))
	assert.Equal(t, SeverityWARN, GetSeverity(EventRateLimitTriggered))
	assert.Equal(t, SeverityMEDIUM, GetSeverity(EventType("unknown")))
}
