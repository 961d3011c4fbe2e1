package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportWritesContent(t *testing.T) {
	dir := t.TempDir()
	e := &FileExporter{Dir: dir}

	path, err := e.Export("Chapter 2.txt", []byte("World"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Chapter 2.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "World", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())
}

func TestExportKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	e := &FileExporter{Dir: dir}

	first, err := e.Export("Intro.txt", []byte("one"))
	require.NoError(t, err)
	second, err := e.Export("Intro.txt", []byte("two"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Intro (1).txt"), second)
	data, _ := os.ReadFile(first)
	assert.Equal(t, "one", string(data))
	data, _ = os.ReadFile(second)
	assert.Equal(t, "two", string(data))
}

func TestExportLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	e := &FileExporter{Dir: dir}

	_, err := e.Export("a.txt", []byte("x"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name())
}

func TestExportMissingDir(t *testing.T) {
	e := &FileExporter{Dir: filepath.Join(t.TempDir(), "missing")}
	_, err := e.Export("a.txt", []byte("x"))
	assert.Error(t, err)
}

func TestNewFileExporterCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	e, err := NewFileExporter(dir)
	require.NoError(t, err)
	assert.DirExists(t, e.Dir)

	_, err = NewFileExporter("")
	assert.Error(t, err)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Chapter 2.txt", "Chapter 2.txt"},
		{"Part 1/2.txt", "Part 1_2.txt"},
		{`a\b:c.txt`, "a_b_c.txt"},
		{"../secret.txt", "_secret.txt"},
		{"第一章 开始.txt", "第一章 开始.txt"},
		{"tab\there.txt", "tab_here.txt"},
		{".txt", "chapter.txt"},
		{"   ", "chapter.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.in), "SanitizeName(%q)", tt.in)
	}
}
