package document

import (
	"fmt"
	"regexp"
	"strings"
)

// chunkSize is the rune length of the fixed-size chapters produced when a
// text has no usable headings.
const chunkSize = 1200

var headingPattern = regexp.MustCompile(
	`(?i)^\s*(?:(第[\d一二三四五六七八九十百千万零两]+[章节回部卷])|((?:chapter|section|part)\s+\d+))`,
)

var cleaner = strings.NewReplacer("\u3000", " ", "\r", "")

// CleanText replaces ideographic spaces and drops carriage returns.
func CleanText(text string) string {
	return cleaner.Replace(text)
}

// IsHeading reports whether line opens a new chapter.
func IsHeading(line string) bool {
	return headingPattern.MatchString(strings.TrimSpace(line))
}

// SplitChapters cuts text at chapter headings such as "Chapter 3" or
// "第三章". Text before the first heading becomes its own chapter. When at
// most one chapter is found the text is cut into fixed-size chunks instead.
func SplitChapters(text, defaultTitle string) []Chapter {
	cleaned := CleanText(text)

	var chapters []Chapter
	var title string
	var content []string

	for _, line := range strings.Split(cleaned, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			if len(content) > 0 {
				content = append(content, "")
			}
			continue
		}
		if headingPattern.MatchString(stripped) {
			if len(content) > 0 {
				chapters = append(chapters, Chapter{
					Title:   orNumbered(title, defaultTitle, len(chapters)+1),
					Content: strings.TrimSpace(strings.Join(content, "\n")),
				})
				content = nil
			}
			title = stripped
		}
		content = append(content, stripped)
	}

	if len(content) > 0 {
		last := title
		if last == "" {
			last = defaultTitle
			if len(chapters) > 0 {
				last = numbered(defaultTitle, len(chapters)+1)
			}
		}
		chapters = append(chapters, Chapter{
			Title:   last,
			Content: strings.TrimSpace(strings.Join(content, "\n")),
		})
	}

	if len(chapters) <= 1 {
		return chunk(cleaned, defaultTitle)
	}
	return dropEmpty(chapters)
}

func chunk(text, defaultTitle string) []Chapter {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return dropEmpty([]Chapter{{Title: defaultTitle, Content: text}})
	}

	var chapters []Chapter
	for start := 0; start < len(runes); start += chunkSize {
		end := min(start+chunkSize, len(runes))
		part := strings.TrimSpace(string(runes[start:end]))
		if part == "" {
			continue
		}
		chapters = append(chapters, Chapter{
			Title:   numbered(defaultTitle, len(chapters)+1),
			Content: part,
		})
	}
	return chapters
}

func numbered(title string, n int) string {
	return fmt.Sprintf("%s %d", title, n)
}

func orNumbered(title, defaultTitle string, n int) string {
	if title != "" {
		return title
	}
	return numbered(defaultTitle, n)
}
