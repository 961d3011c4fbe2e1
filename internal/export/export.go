// Package export saves chapters as plain text files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	filePerm     = 0o644
	maxDuplicate = 999
)

// FileExporter writes exported files into Dir. An existing file is never
// replaced; a numbered suffix is added instead, "name (1).txt".
type FileExporter struct {
	Dir string
}

// NewFileExporter returns an exporter for dir, creating it if needed.
func NewFileExporter(dir string) (*FileExporter, error) {
	if dir == "" {
		return nil, errors.New("export directory is empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &FileExporter{Dir: dir}, nil
}

// Export writes content to a file derived from name and returns its path.
func (e *FileExporter) Export(name string, content []byte) (string, error) {
	tmp, err := os.CreateTemp(e.Dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return "", fmt.Errorf("chmod %s: %w", name, err)
	}

	dest, err := e.freePath(SanitizeName(name))
	if err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	committed = true
	return dest, nil
}

func (e *FileExporter) freePath(name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i <= maxDuplicate; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(e.Dir, candidate)
		if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
			return path, nil
		} else if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("too many files named %s in %s", name, e.Dir)
}

// SanitizeName makes name safe to use as a single file name. Path
// separators and control characters become '_'. An empty result is
// replaced by "chapter.txt".
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/', r == '\\', r == ':', r == '*', r == '?', r == '"', r == '<', r == '>', r == '|':
			return '_'
		case unicode.IsControl(r):
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if strings.Trim(strings.TrimSuffix(name, ".txt"), ". ") == "" {
		return "chapter.txt"
	}
	return strings.TrimLeft(name, ".")
}
