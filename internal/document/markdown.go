package document

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// MarkdownFormat implements Format for Markdown files.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Chapters cuts a Markdown file at its headers. Files without headers fall
// back to heading detection on the plain text.
func (f *MarkdownFormat) Chapters(filename string) ([]Chapter, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, parseError("Failed to read the Markdown file", err)
	}
	defer file.Close()

	var chapters []Chapter
	var all strings.Builder
	title := "Markdown Chapter"
	var current []string
	headers := 0

	flush := func() {
		if len(current) > 0 {
			chapters = append(chapters, Chapter{Title: title, Content: strings.Join(current, "\n")})
		}
		current = nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := CleanText(scanner.Text())
		all.WriteString(line)
		all.WriteByte('\n')

		if match := headerRegex.FindStringSubmatch(line); match != nil {
			flush()
			title = strings.TrimSpace(match[2])
			headers++
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, parseError("Failed to read the Markdown file", err)
	}
	flush()

	if headers == 0 {
		return SplitChapters(all.String(), "Markdown Chapter"), nil
	}
	return dropEmpty(chapters), nil
}
