package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewFiltersAndSkipsColorOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, false)

	logger.Info("hidden")
	logger.Warn("advice unavailable", "generator", "Offline")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "advice unavailable")
	assert.Contains(t, out, "generator=Offline")
	assert.NotContains(t, out, "\x1b[")
}

func TestSetupRejectsBadLevel(t *testing.T) {
	assert.Error(t, Setup("loud", true))
}
