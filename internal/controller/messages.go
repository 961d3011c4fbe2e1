package controller

import "github.com/metcalfc/nightreader/internal/document"

// FileSelectedMsg is sent when the user picks a file to import.
type FileSelectedMsg struct{ Path string }

// SelectChapterMsg activates the chapter at Index.
type SelectChapterMsg struct{ Index int }

// CopyMsg copies the active chapter to the clipboard.
type CopyMsg struct{}

// ExportMsg saves the active chapter as a text file.
type ExportMsg struct{}

// SliderInputMsg reports a user-driven slider value in [0,100].
type SliderInputMsg struct{ Value int }

// ScrollMsg reports that the preview pane's scroll offset changed, whether
// by the user or as the echo of a programmatic scroll.
type ScrollMsg struct{}

type uploadResultMsg struct {
	seq      int
	chapters []document.Chapter
	err      error
}

type copyResultMsg struct{ err error }

type guardExpiredMsg struct{ gen int }
