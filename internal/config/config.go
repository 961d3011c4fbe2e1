// Package config loads nightreader settings from flags, environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeReader = "reader"
	ModeServer = "server"

	// Default values
	DefaultPort          = 5000
	DefaultHost          = "127.0.0.1"
	DefaultLogLevel      = "info"
	DefaultMaxFileSize   = 100 * 1024 * 1024 // 100MB
	DefaultSyncGuard     = 100 * time.Millisecond
	DefaultUploadTimeout = 2 * time.Minute

	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "NIGHTREADER"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// ErrVersionRequested is returned by Load when --version is on the command line.
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the reader and the parsing server.
type Config struct {
	Mode string // "reader" or "server"

	// Server configuration
	Host        string
	Port        int
	MaxFileSize int64 // Maximum upload size in bytes

	// Reader configuration
	ServerURL     string // parse through this server; empty parses in-process
	ExportDir     string
	File          string // document to open at startup
	SyncGuard     time.Duration
	UploadTimeout time.Duration

	LogLevel string
	LogFile  string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:          ModeReader,
		Host:          DefaultHost,
		Port:          DefaultPort,
		MaxFileSize:   DefaultMaxFileSize,
		ExportDir:     currentDir,
		SyncGuard:     DefaultSyncGuard,
		UploadTimeout: DefaultUploadTimeout,
		LogLevel:      DefaultLogLevel,
	}
}

// Load parses args (without the program name) on top of environment
// variables and a .env file in the working directory, then validates.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	v := viper.New()
	fs := pflag.NewFlagSet("nightreader", pflag.ContinueOnError)

	setupViperEnvironment(v, cfg)
	defineFlags(fs, cfg)
	setupUsageMessage(fs, os.Stderr)

	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return nil, ErrVersionRequested
		}
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	populateConfigFromViper(v, cfg)
	if fs.NArg() > 0 {
		cfg.File = fs.Arg(0)
	}

	if cfg.ExportDir != "" {
		if expanded, err := filepath.Abs(cfg.ExportDir); err == nil {
			cfg.ExportDir = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("server", cfg.ServerURL)
	v.SetDefault("exportdir", cfg.ExportDir)
	v.SetDefault("syncguard", cfg.SyncGuard)
	v.SetDefault("uploadtimeout", cfg.UploadTimeout)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logfile", cfg.LogFile)
}

// defineFlags sets up all command line flags
func defineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("mode", cfg.Mode, "Run mode: 'reader' for the interactive reader, 'server' for the parsing server")
	fs.String("host", cfg.Host, "Server host address (server mode only)")
	fs.Int("port", cfg.Port, "Server port (server mode only)")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum upload size in bytes")
	fs.String("server", cfg.ServerURL, "Parsing server URL; empty parses documents in-process (reader mode only)")
	fs.String("exportdir", cfg.ExportDir, "Directory exported chapters are written to")
	fs.Duration("syncguard", cfg.SyncGuard, "Fallback delay before a slider-driven scroll stops being ignored")
	fs.Duration("uploadtimeout", cfg.UploadTimeout, "Maximum time to wait for a document to be parsed")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("logfile", cfg.LogFile, "Log file (reader mode discards logs when empty)")
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage(fs *pflag.FlagSet, w io.Writer) {
	fs.Usage = func() {
		fmt.Fprintf(w, "Nightreader - chapter viewer for PDF, TXT, EPUB, MOBI, DOC and DOCX files\n\n")
		fmt.Fprintf(w, "Usage:\n")
		fmt.Fprintf(w, "  nightreader [options] [file]\n\n")
		fmt.Fprintf(w, "Options:\n")
		fs.SetOutput(w)
		fs.PrintDefaults()
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  nightreader book.epub                            Read a book, parsing locally\n")
		fmt.Fprintf(w, "  nightreader --mode=server --port=5000            Run the parsing server\n")
		fmt.Fprintf(w, "  nightreader --server=http://127.0.0.1:5000 a.pdf Read through a parsing server\n")
		fmt.Fprintf(w, "\nEnvironment Variables:\n")
		fmt.Fprintf(w, "  %s_MODE, %s_PORT, %s_SERVER, %s_EXPORTDIR, ...\n", EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix)
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.ServerURL = v.GetString("server")
	cfg.ExportDir = v.GetString("exportdir")
	cfg.SyncGuard = v.GetDuration("syncguard")
	cfg.UploadTimeout = v.GetDuration("uploadtimeout")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.LogFile = v.GetString("logfile")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeReader && c.Mode != ModeServer {
		return errors.New("mode must be either 'reader' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.ServerURL != "" {
		u, err := url.Parse(c.ServerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("server must be an http(s) URL, got %q", c.ServerURL)
		}
	}

	if c.SyncGuard <= 0 || c.SyncGuard > time.Second {
		return errors.New("sync guard delay must be between 0 and 1s")
	}

	if c.UploadTimeout <= 0 {
		return errors.New("upload timeout must be positive")
	}

	if c.Mode == ModeReader {
		if c.ExportDir == "" {
			return errors.New("export directory cannot be empty")
		}
		if _, err := os.Stat(c.ExportDir); os.IsNotExist(err) {
			if err := os.MkdirAll(c.ExportDir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create export directory %s: %w", c.ExportDir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access export directory %s: %w", c.ExportDir, err)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsServerMode returns true if running the HTTP parsing server
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, ServerURL: %q, ExportDir: %s, SyncGuard: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.ServerURL, c.ExportDir, c.SyncGuard, c.LogLevel, c.MaxFileSize)
}
