package document

import (
	"path/filepath"
	"strings"
)

// Format extracts chapters from one family of file types.
type Format interface {
	Name() string
	Extensions() []string
	Chapters(filename string) ([]Chapter, error)
}

var registry []Format

// Register adds a format to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Lookup returns the format registered for the extension of filename.
func Lookup(filename string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return nil, false
	}
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f, true
			}
		}
	}
	return nil, false
}

// Supported reports whether filename has an extension a format handles.
func Supported(filename string) bool {
	_, ok := Lookup(filename)
	return ok
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

// SupportedExtensions returns every registered extension.
func SupportedExtensions() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Extensions()...)
	}
	return out
}
