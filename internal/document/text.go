package document

import (
	"os"
	"strings"
)

// TextFormat implements Format for plain text files.
type TextFormat struct{}

func init() {
	Register(&TextFormat{})
}

func (f *TextFormat) Name() string         { return "Text" }
func (f *TextFormat) Extensions() []string { return []string{".txt"} }

func (f *TextFormat) Chapters(filename string) ([]Chapter, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, parseError("Failed to read the text file", err)
	}
	return SplitChapters(strings.ToValidUTF8(string(data), ""), "Text Chapter"), nil
}
