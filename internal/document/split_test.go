package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitChapters(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Chapter
	}{
		{
			name:  "english headings",
			input: "Chapter 1\nHello\nChapter 2\nWorld",
			expected: []Chapter{
				{Title: "Chapter 1", Content: "Chapter 1\nHello"},
				{Title: "Chapter 2", Content: "Chapter 2\nWorld"},
			},
		},
		{
			name:  "text before first heading",
			input: "Preface line\nChapter 1\nA\nPart 2\nB",
			expected: []Chapter{
				{Title: "Text Chapter 1", Content: "Preface line"},
				{Title: "Chapter 1", Content: "Chapter 1\nA"},
				{Title: "Part 2", Content: "Part 2\nB"},
			},
		},
		{
			name:  "chinese headings",
			input: "第一章 开始\n内容\n第二章 继续\n更多",
			expected: []Chapter{
				{Title: "第一章 开始", Content: "第一章 开始\n内容"},
				{Title: "第二章 继续", Content: "第二章 继续\n更多"},
			},
		},
		{
			name:  "carriage returns and ideographic spaces",
			input: "Chapter 1\r\nA　B\r\n\r\nchapter 2\r\nC",
			expected: []Chapter{
				{Title: "Chapter 1", Content: "Chapter 1\nA B"},
				{Title: "chapter 2", Content: "chapter 2\nC"},
			},
		},
		{
			name:     "no headings",
			input:    "just a short note",
			expected: []Chapter{{Title: "Text Chapter", Content: "just a short note"}},
		},
		{
			name:     "single heading falls back to one chunk",
			input:    "Chapter 1\nHello",
			expected: []Chapter{{Title: "Text Chapter", Content: "Chapter 1\nHello"}},
		},
		{
			name:     "empty",
			input:    "  \n\n ",
			expected: []Chapter{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitChapters(tt.input, "Text Chapter")
			if len(tt.expected) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSplitChaptersChunksLongText(t *testing.T) {
	text := strings.Repeat("字", 2500)

	got := SplitChapters(text, "PDF Chapter")

	if assert.Len(t, got, 3) {
		assert.Equal(t, "PDF Chapter 1", got[0].Title)
		assert.Equal(t, "PDF Chapter 2", got[1].Title)
		assert.Equal(t, "PDF Chapter 3", got[2].Title)
		assert.Len(t, []rune(got[0].Content), 1200)
		assert.Len(t, []rune(got[2].Content), 100)
	}
}

func TestIsHeading(t *testing.T) {
	tests := []struct {
		line     string
		expected bool
	}{
		{"Chapter 12: The End", true},
		{"  SECTION 3", true},
		{"part 1", true},
		{"第十二回", true},
		{"第3卷 风起", true},
		{"chapters 1", false},
		{"Chapter one", false},
		{"The chapter 1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsHeading(tt.line))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "", Preview("   ", 10))
	assert.Equal(t, "one two", Preview("one  two", 10))
	assert.Equal(t, "one two...", Preview("one two three", 2))
	assert.Equal(t, 3, WordCount("one two\nthree"))
}
