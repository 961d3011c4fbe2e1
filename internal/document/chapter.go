// Package document turns uploaded files into an ordered list of chapters.
package document

import "strings"

// Chapter is a titled span of document text.
type Chapter struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Preview returns the first n words of content followed by an ellipsis when
// the content is longer than that.
func Preview(content string, n int) string {
	words := strings.Fields(content)
	if len(words) == 0 || n <= 0 {
		return ""
	}
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}

// WordCount returns the number of whitespace separated words in content.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

func dropEmpty(chapters []Chapter) []Chapter {
	out := chapters[:0]
	for _, c := range chapters {
		c.Content = strings.TrimSpace(c.Content)
		if c.Content == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
