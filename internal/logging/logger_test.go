package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf})

	logger.WithComponent("locale").With("locale", "ko").Info(context.Background(), "redirect", "path", "/guides")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "redirect", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "locale", entry["component"])
	assert.Equal(t, "ko", entry["locale"])
	assert.Equal(t, "/guides", entry["path"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelWarn, Format: "text", Output: &buf})
	ctx := context.Background()

	logger.Debug(ctx, "hidden debug")
	logger.Info(ctx, "hidden info")
	logger.Warn(ctx, errors.New("disk slow"), "visible warn")
	logger.Error(ctx, errors.New("boom"), "visible error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible warn")
	assert.Contains(t, out, "disk slow")
	assert.Contains(t, out, "visible error")
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Format: "pretty", Output: &buf})

	logger.Info(context.Background(), "server started", "addr", "localhost:3000")

	out := buf.String()
	assert.Contains(t, out, "server started")
	assert.Contains(t, out, "localhost:3000")
}

func TestWithDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&LoggerConfig{Level: LevelInfo, Format: "text", Output: &buf})

	_ = base.With("request_id", "abc")
	base.Info(context.Background(), "plain")

	assert.NotContains(t, buf.String(), "request_id")
}

func TestOddFieldsIgnored(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Format: "text", Output: &buf})

	logger.Info(context.Background(), "odd", "key", "value", "dangling", 42, "x")

	out := buf.String()
	assert.Contains(t, out, "key=value")
	assert.NotContains(t, out, "dangling")
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	assert.NotPanics(t, func() {
		logger.Error(context.Background(), errors.New("x"), "discarded")
	})
	assert.NotNil(t, logger.Slog())
}

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "password parameter",
			input:    "next=/en&password=secret123",
			expected: "[REDACTED]",
		},
		{
			name:     "token parameter",
			input:    "token=abc123",
			expected: "[REDACTED]",
		},
		{
			name:     "path mentioning auth is kept",
			input:    "/en/guides/auth-flow",
			expected: "/en/guides/auth-flow",
		},
		{
			name:     "newlines flattened",
			input:    "ko\nINFO forged entry",
			expected: "ko INFO forged entry",
		},
		{
			name:     "control characters dropped",
			input:    "en\x1b[31m",
			expected: "en[31m",
		},
		{
			name:     "long text truncation",
			input:    strings.Repeat("a", 1500),
			expected: strings.Repeat("a", 1000) + "...[TRUNCATED]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeForLog(tt.input))
		})
	}
}

func TestPerfLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Format: "json", Output: &buf})

	op := StartOperation(logger, "content.load")
	op.End(context.Background(), "pages", 12)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "content.load", entry["operation"])
	assert.Equal(t, float64(12), entry["pages"])
	assert.Contains(t, entry, "duration_ms")

	buf.Reset()
	StartOperation(logger, "content.load").EndWithError(context.Background(), errors.New("bad front matter"))
	assert.Contains(t, buf.String(), "bad front matter")
}
