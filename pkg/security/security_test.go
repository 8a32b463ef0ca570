package security

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "***@example.com", MaskEmail("a@example.com"))
}

func TestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLogger(zap.New(core))

	l.LogLoginFailed(context.Background(), "jane@example.com", "10.0.0.1", "curl", "req-1", "invalid_credentials")
	l.LogBlockCreated(context.Background(), "email", "jane@example.com", "10.0.0.1", "req-1", 15)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "security", entries[0].LoggerName)
	assert.Equal(t, "j***@example.com", entries[0].ContextMap()["subject_value"])
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, string(EventBlockCreated), entries[1].Message)
}

func TestLoginTrackerWithoutRedisFailsOpen(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lt := NewLoginTracker(nil, LoginTrackerConfig{}, NewLogger(zap.New(core)))
	ctx := context.Background()

	blocked, err := lt.IsBlocked(ctx, "jane@example.com", "10.0.0.1", "curl", "req-1")
	require.NoError(t, err)
	assert.False(t, blocked)

	blocked, attempts, err := lt.RecordFailedAttempt(ctx, "jane@example.com", "10.0.0.1", "ua", "req")
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Zero(t, attempts)
	assert.Equal(t, 1, logs.FilterMessage(string(EventLoginFailed)).Len())

	assert.NoError(t, lt.ClearAttempts(ctx, "jane@example.com", "10.0.0.1"))
	assert.Equal(t, DefaultLoginTrackerConfig().MaxAttempts, lt.config.MaxAttempts)
}

func TestUploadLimiterWithoutRedisAllows(t *testing.T) {
	allowed, retry, err := NewUploadLimiter(nil, 0, 0).AllowUpload(context.Background(), "10.0.0.1", 7)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, retry)
}

func TestValidateImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	pngData := buf.Bytes()

	tests := []struct {
		name     string
		filename string
		data     []byte
		valid    bool
	}{
		{"png", "avatar.PNG", pngData, true},
		{"no extension", "avatar", pngData, false},
		{"disallowed extension", "avatar.webp", pngData, false},
		{"spoofed jpeg", "avatar.jpg", pngData, false},
		{"text as gif", "avatar.gif", []byte("plain text content"), false},
		{"too small", "avatar.png", []byte{0x89}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateImage(tt.filename, tt.data)
			assert.Equal(t, tt.valid, result.Valid, result.Error)
		})
	}
}

func TestAllowedExtensions(t *testing.T) {
	assert.Equal(t, []string{".gif", ".jpeg", ".jpg", ".png"}, AllowedExtensions())
	assert.NoError(t, ValidateFileExtension("a.jpeg"))
	assert.Error(t, ValidateFileExtension("a.pdf"))
}
