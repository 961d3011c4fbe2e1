package main

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/metcalfc/nightreader/internal/client"
	"github.com/metcalfc/nightreader/internal/config"
	"github.com/metcalfc/nightreader/internal/document"
	"github.com/metcalfc/nightreader/internal/export"
	"github.com/metcalfc/nightreader/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVersionAndBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "version", args: []string{"--version"}, want: 0},
		{name: "short version", args: []string{"-v"}, want: 0},
		{name: "help", args: []string{"--help"}, want: 0},
		{name: "unknown flag", args: []string{"--nope"}, want: 1},
		{name: "bad mode", args: []string{"--mode=editor"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(tt.args))
		})
	}
}

func TestReaderOptions(t *testing.T) {
	logger, _ := logging.New(io.Discard, "info")

	t.Run("in-process parsing", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.ExportDir = filepath.Join(t.TempDir(), "out")

		opts, err := readerOptions(cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &document.Parser{}, opts.Parser)
		assert.IsType(t, &export.FileExporter{}, opts.Exporter)
		assert.DirExists(t, cfg.ExportDir)
		assert.Equal(t, cfg.SyncGuard, opts.SyncGuard)
	})

	t.Run("remote parsing", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.ExportDir = t.TempDir()
		cfg.ServerURL = "http://127.0.0.1:5000"

		opts, err := readerOptions(cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &client.Client{}, opts.Parser)
	})

	t.Run("no export dir", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.ExportDir = ""
		_, err := readerOptions(cfg, logger)
		assert.Error(t, err)
	})
}
