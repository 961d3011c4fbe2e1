package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ModeReader, cfg.Mode)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, int64(100*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, 100*time.Millisecond, cfg.SyncGuard)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.ServerURL)

	currentDir, _ := os.Getwd()
	assert.Equal(t, currentDir, cfg.ExportDir)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.ExportDir = t.TempDir()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid reader", func(c *Config) {}, false},
		{"valid server", func(c *Config) { c.Mode = ModeServer }, false},
		{"invalid mode", func(c *Config) { c.Mode = "daemon" }, true},
		{"server port too low", func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, true},
		{"server port too high", func(c *Config) { c.Mode = ModeServer; c.Port = 70000 }, true},
		{"reader ignores port", func(c *Config) { c.Port = 0 }, false},
		{"zero max file size", func(c *Config) { c.MaxFileSize = 0 }, true},
		{"server url", func(c *Config) { c.ServerURL = "http://localhost:5000" }, false},
		{"server url without scheme", func(c *Config) { c.ServerURL = "localhost:5000" }, true},
		{"zero sync guard", func(c *Config) { c.SyncGuard = 0 }, true},
		{"huge sync guard", func(c *Config) { c.SyncGuard = 5 * time.Second }, true},
		{"zero upload timeout", func(c *Config) { c.UploadTimeout = 0 }, true},
		{"empty export dir", func(c *Config) { c.ExportDir = "" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCreatesExportDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExportDir = filepath.Join(t.TempDir(), "exports", "nested")

	require.NoError(t, cfg.Validate())

	info, err := os.Stat(cfg.ExportDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoad(t *testing.T) {
	t.Run("flags", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Load([]string{"--exportdir", dir, "--syncguard=150ms", "--loglevel=debug", "book.epub"})
		require.NoError(t, err)

		assert.Equal(t, ModeReader, cfg.Mode)
		assert.Equal(t, dir, cfg.ExportDir)
		assert.Equal(t, 150*time.Millisecond, cfg.SyncGuard)
		assert.True(t, cfg.IsDebug())
		assert.Equal(t, "book.epub", cfg.File)
	})

	t.Run("server mode", func(t *testing.T) {
		cfg, err := Load([]string{"--mode=server", "--host=0.0.0.0", "--port=8081"})
		require.NoError(t, err)

		assert.True(t, cfg.IsServerMode())
		assert.Equal(t, "0.0.0.0:8081", cfg.Address())
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("NIGHTREADER_MODE", "server")
		t.Setenv("NIGHTREADER_PORT", "9000")

		cfg, err := Load(nil)
		require.NoError(t, err)

		assert.Equal(t, ModeServer, cfg.Mode)
		assert.Equal(t, 9000, cfg.Port)
	})

	t.Run("flags beat environment", func(t *testing.T) {
		t.Setenv("NIGHTREADER_PORT", "9000")

		cfg, err := Load([]string{"--mode=server", "--port=9100"})
		require.NoError(t, err)

		assert.Equal(t, 9100, cfg.Port)
	})

	t.Run("version", func(t *testing.T) {
		_, err := Load([]string{"--version"})
		assert.ErrorIs(t, err, ErrVersionRequested)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := Load([]string{"--bogus"})
		assert.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := Load([]string{"--mode=daemon"})
		assert.ErrorContains(t, err, "invalid configuration")
	})
}

func TestString(t *testing.T) {
	cfg := DefaultConfig()
	assert.Contains(t, cfg.String(), "Mode: reader")
	assert.Contains(t, cfg.String(), "SyncGuard: 100ms")
}
