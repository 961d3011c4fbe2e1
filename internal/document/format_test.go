package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		filename string
		format   string
		ok       bool
	}{
		{"book.txt", "Text", true},
		{"BOOK.PDF", "PDF", true},
		{"novel.epub", "EPUB", true},
		{"novel.mobi", "MOBI", true},
		{"report.docx", "Word", true},
		{"report.doc", "Word 97-2003", true},
		{"notes.md", "Markdown", true},
		{"image.png", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			f, ok := Lookup(tt.filename)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.format, f.Name())
			}
		})
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	assert.Contains(t, formats, "EPUB (.epub)")
	assert.Contains(t, formats, "Markdown (.md, .markdown)")

	exts := SupportedExtensions()
	for _, ext := range []string{".pdf", ".txt", ".epub", ".mobi", ".doc", ".docx"} {
		assert.Contains(t, exts, ext)
	}
}

func TestMarkdownChapters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("intro\n# One\nalpha\n## Two\nbeta\n# Empty\n"), 0644))

	got, err := (&MarkdownFormat{}).Chapters(path)
	require.NoError(t, err)

	assert.Equal(t, []Chapter{
		{Title: "Markdown Chapter", Content: "intro"},
		{Title: "One", Content: "alpha"},
		{Title: "Two", Content: "beta"},
	}, got)
}

func TestParserParse(t *testing.T) {
	ctx := context.Background()

	t.Run("plain text", func(t *testing.T) {
		dir := t.TempDir()
		p := NewParser(Config{TempDir: dir})

		got, err := p.Parse(ctx, "story.txt", stringsReader("Chapter 1\nHello\nChapter 2\nWorld"))
		require.NoError(t, err)
		assert.Len(t, got, 2)

		left, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, left, "spooled upload should be removed")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		p := NewParser(Config{TempDir: t.TempDir()})

		_, err := p.Parse(ctx, "photo.png", stringsReader("x"))

		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "Unsupported file type: .png", pe.Message)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("empty document", func(t *testing.T) {
		p := NewParser(Config{TempDir: t.TempDir()})

		_, err := p.Parse(ctx, "blank.txt", stringsReader("\n\n  \n"))

		assert.ErrorIs(t, err, ErrNoText)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		p := NewParser(Config{TempDir: t.TempDir()})

		_, err := p.Parse(cctx, "story.txt", stringsReader("hello"))

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing file", func(t *testing.T) {
		p := NewParser(Config{})

		_, err := p.ParseFile(ctx, filepath.Join(t.TempDir(), "gone.txt"))

		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "Failed to read the text file", pe.Message)
	})
}
