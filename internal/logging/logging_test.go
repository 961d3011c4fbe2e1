package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud", "key", "value")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "key=value")
}

func TestOpen(t *testing.T) {
	t.Run("discard", func(t *testing.T) {
		logger, closeFn, err := Open("", "info")
		require.NoError(t, err)
		logger.Info("dropped")
		assert.NoError(t, closeFn())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reader.log")
		logger, closeFn, err := Open(path, "debug")
		require.NoError(t, err)
		logger.Debug("written")
		require.NoError(t, closeFn())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "written")
	})
}
