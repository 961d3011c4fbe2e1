package controller

import (
	"fmt"
	"strings"

	"github.com/metcalfc/nightreader/internal/document"
)

// Text shown by the reader. Kept together so front-ends and tests agree.
const (
	PlaceholderTitle    = "No chapter selected"
	PlaceholderBody     = "Import a file, then choose a chapter from the list to preview it."
	EmptyListLabel      = "No chapters found"
	ParsingMessage      = "Parsing, please wait..."
	FallbackUploadError = "Failed to parse the file. Please try again."
	CopiedMessage       = "Chapter copied to the clipboard."
	CopyFailedMessage   = "Could not access the clipboard. Please select the text and copy it manually."
	ExportUnavailable   = "Exporting is not available."
	ExportFailedPrefix  = "Could not export the chapter: "
	ExportedPrefix      = "Saved "
)

// Tone distinguishes informational status messages from errors.
type Tone int

const (
	ToneNone Tone = iota
	ToneInfo
	ToneError
)

func (t Tone) String() string {
	switch t {
	case ToneInfo:
		return "info"
	case ToneError:
		return "error"
	}
	return "none"
}

// Status is the transient message area.
type Status struct {
	Text string
	Tone Tone
}

// ReaderState is everything the controller owns for one loaded document.
type ReaderState struct {
	// Chapters is empty or holds only chapters with non-empty content.
	Chapters []document.Chapter

	// ActiveIndex is -1 or a valid index into Chapters.
	ActiveIndex int

	// SelectedFile mirrors the file-selection input. It is cleared once the
	// upload it triggered completes.
	SelectedFile string

	Title           string
	Body            string
	ControlsEnabled bool
	SliderValue     int
	Status          Status

	guard     syncGuard
	uploadSeq int
}

// syncGuard suppresses the scroll events echoed by slider-driven scrolls.
// pending counts echoes still expected. gen identifies the latest slider
// input so a late fallback timer cannot clear a newer one.
type syncGuard struct {
	pending int
	gen     int
}

// Entry is one row of the rendered chapter list.
type Entry struct {
	Index       int
	Label       string
	Preview     string
	Active      bool
	Placeholder bool
}

// Label returns the display label of the chapter at position i: its title,
// or "Chapter i+1" when the title is blank.
func Label(ch document.Chapter, i int) string {
	if t := strings.TrimSpace(ch.Title); t != "" {
		return t
	}
	return fmt.Sprintf("Chapter %d", i+1)
}

// ExportName is the file name an exported chapter is saved under.
func ExportName(ch document.Chapter, i int) string {
	return Label(ch, i) + ".txt"
}

func keepNonEmpty(chapters []document.Chapter) []document.Chapter {
	out := make([]document.Chapter, 0, len(chapters))
	for _, ch := range chapters {
		if strings.TrimSpace(ch.Content) == "" {
			continue
		}
		out = append(out, ch)
	}
	return out
}
