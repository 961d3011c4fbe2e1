package document

import (
	"os"
	"strings"

	"code.sajari.com/docconv"
)

// WordFormat implements Format for .docx files.
type WordFormat struct{}

// LegacyWordFormat implements Format for binary .doc files. docconv shells
// out to wvText for these, so it fails cleanly when that tool is missing.
type LegacyWordFormat struct{}

func init() {
	Register(&WordFormat{})
	Register(&LegacyWordFormat{})
}

func (f *WordFormat) Name() string         { return "Word" }
func (f *WordFormat) Extensions() []string { return []string{".docx"} }

func (f *WordFormat) Chapters(filename string) ([]Chapter, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, parseError("Failed to parse the Word file", err)
	}
	defer file.Close()

	text, _, err := docconv.ConvertDocx(file)
	if err != nil {
		return nil, parseError("Failed to parse the Word file", err)
	}
	return SplitChapters(text, "Word Chapter"), nil
}

func (f *LegacyWordFormat) Name() string         { return "Word 97-2003" }
func (f *LegacyWordFormat) Extensions() []string { return []string{".doc"} }

func (f *LegacyWordFormat) Chapters(filename string) ([]Chapter, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, parseError("Failed to parse the DOC file", err)
	}
	defer file.Close()

	text, _, err := docconv.ConvertDoc(file)
	if err != nil {
		return nil, parseError("Failed to parse the DOC file", err)
	}
	return SplitChapters(strings.ToValidUTF8(text, ""), "Word Chapter"), nil
}
