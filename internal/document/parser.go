package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config configures a Parser.
type Config struct {
	// TempDir receives spooled uploads (default: os.TempDir()).
	TempDir string

	// Logger for debug/error messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Parser turns files into chapters using the registered formats.
type Parser struct {
	cfg    Config
	logger *slog.Logger
}

// NewParser creates a Parser with the given configuration.
func NewParser(cfg Config) *Parser {
	cfg.defaults()
	return &Parser{cfg: cfg, logger: cfg.Logger}
}

// ParseFile extracts the chapters of the file at filename. Every returned
// chapter has non-empty content; a document without any is a *ParseError.
func (p *Parser) ParseFile(ctx context.Context, filename string) ([]Chapter, error) {
	f, ok := Lookup(filename)
	if !ok {
		return nil, unsupported(filename)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Debug("parsing document", "path", filename, "format", f.Name())

	chapters, err := f.Chapters(filename)
	if err != nil {
		p.logger.Warn("parse failed", "path", filename, "format", f.Name(), "error", err)
		return nil, err
	}
	chapters = dropEmpty(chapters)
	if len(chapters) == 0 {
		return nil, parseError("No text found in the document", ErrNoText)
	}

	p.logger.Debug("parsed document", "path", filename, "chapters", len(chapters))
	return chapters, ctx.Err()
}

// Parse spools r into a temporary file carrying the extension of name and
// parses it. The temporary file is always removed.
func (p *Parser) Parse(ctx context.Context, name string, r io.Reader) ([]Chapter, error) {
	if !Supported(name) {
		return nil, unsupported(name)
	}

	tmp, err := os.CreateTemp(p.cfg.TempDir, "upload-*"+strings.ToLower(filepath.Ext(name)))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("spool upload: %w", err)
	}

	return p.ParseFile(ctx, tmp.Name())
}

func unsupported(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return parseError("Unsupported file type", ErrUnsupportedFormat)
	}
	return parseError("Unsupported file type: "+ext, ErrUnsupportedFormat)
}
