package log

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		env   string
		level string
		want  zerolog.Level
	}{
		{"development", "", zerolog.DebugLevel},
		{"production", "", zerolog.InfoLevel},
		{"production", "warn", zerolog.WarnLevel},
		{"development", "ERROR", zerolog.ErrorLevel},
		{"production", "debug", zerolog.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.env, tt.level), "%s/%s", tt.env, tt.level)
	}
}

func TestNewWithWriterIncludesEnvironment(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "production", "info")

	logger.Info().Str("path", "/products").Msg("request")

	out := buf.String()
	assert.Contains(t, out, "request")
	assert.Contains(t, out, "env=production")
	assert.Contains(t, out, "path=/products")
}
