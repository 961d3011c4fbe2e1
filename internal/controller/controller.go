// Package controller holds the reader's chapter state and keeps the chapter
// list, preview pane and position slider in step. It is driven entirely by
// messages so it can be hosted by any single-threaded event loop.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/metcalfc/nightreader/internal/document"
)

// Parser turns an uploaded file into chapters.
type Parser interface {
	Parse(ctx context.Context, name string, r io.Reader) ([]document.Chapter, error)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// ClipboardFunc adapts a function such as clipboard.WriteAll to Clipboard.
type ClipboardFunc func(text string) error

func (f ClipboardFunc) WriteAll(text string) error { return f(text) }

// Exporter saves a named text file and returns where it went.
type Exporter interface {
	Export(name string, content []byte) (string, error)
}

// Pane is the scrollable preview area.
type Pane interface {
	ScrollHeight() int
	ClientHeight() int
	ScrollTop() int
	SetScrollTop(top int)
}

// Options configures a Controller.
type Options struct {
	Parser    Parser
	Clipboard Clipboard
	Exporter  Exporter
	Pane      Pane

	// SyncGuard is the fallback delay after which a slider-driven scroll
	// stops suppressing scroll events even if no echo arrived.
	SyncGuard time.Duration

	// UploadTimeout bounds a single parse request.
	UploadTimeout time.Duration

	Logger *slog.Logger
}

const (
	defaultSyncGuard     = 100 * time.Millisecond
	defaultUploadTimeout = 2 * time.Minute
)

var errNoClipboard = errors.New("no clipboard available")

// Controller owns a ReaderState and applies user events to it.
type Controller struct {
	state ReaderState

	parser        Parser
	clipboard     Clipboard
	exporter      Exporter
	pane          Pane
	syncGuard     time.Duration
	uploadTimeout time.Duration
	logger        *slog.Logger
}

// New creates a Controller in the reset state.
func New(opts Options) *Controller {
	c := &Controller{
		parser:        opts.Parser,
		clipboard:     opts.Clipboard,
		exporter:      opts.Exporter,
		pane:          opts.Pane,
		syncGuard:     opts.SyncGuard,
		uploadTimeout: opts.UploadTimeout,
		logger:        opts.Logger,
	}
	if c.pane == nil {
		c.pane = &nopPane{}
	}
	if c.syncGuard <= 0 {
		c.syncGuard = defaultSyncGuard
	}
	if c.uploadTimeout <= 0 {
		c.uploadTimeout = defaultUploadTimeout
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.Reset()
	return c
}

// State returns a snapshot of the reader state.
func (c *Controller) State() ReaderState {
	return c.state
}

// Update applies msg and returns any follow-up work for the host loop.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FileSelectedMsg:
		return c.Upload(msg.Path)
	case uploadResultMsg:
		c.finishUpload(msg)
	case SelectChapterMsg:
		c.Select(msg.Index)
	case CopyMsg:
		return c.Copy()
	case copyResultMsg:
		c.finishCopy(msg)
	case ExportMsg:
		c.Export()
	case SliderInputMsg:
		return c.SliderInput(msg.Value)
	case ScrollMsg:
		c.Scrolled()
	case guardExpiredMsg:
		c.expireGuard(msg.gen)
	}
	return nil
}

// Reset empties the chapter collection and returns every display element to
// its placeholder. Calling it twice is the same as calling it once.
func (c *Controller) Reset() {
	s := &c.state
	s.Chapters = nil
	s.ActiveIndex = -1
	s.Title = PlaceholderTitle
	s.Body = PlaceholderBody
	s.ControlsEnabled = false
	s.SliderValue = 0
	s.guard.pending = 0
}

// Upload resets the reader and returns a command that parses the file at
// path. An empty path is ignored.
func (c *Controller) Upload(path string) tea.Cmd {
	if path == "" {
		return nil
	}

	c.Reset()
	c.state.SelectedFile = path
	c.state.uploadSeq++
	seq := c.state.uploadSeq
	c.state.Status = Status{Text: ParsingMessage, Tone: ToneInfo}
	c.logger.Info("uploading document", "file", path, "seq", seq)

	parser, timeout := c.parser, c.uploadTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		chapters, err := parseFile(ctx, parser, path)
		return uploadResultMsg{seq: seq, chapters: chapters, err: err}
	}
}

func parseFile(ctx context.Context, parser Parser, path string) ([]document.Chapter, error) {
	if parser == nil {
		return nil, errors.New("no parser configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parser.Parse(ctx, filepath.Base(path), f)
}

func (c *Controller) finishUpload(msg uploadResultMsg) {
	if msg.seq != c.state.uploadSeq {
		c.logger.Warn("dropping superseded upload result", "seq", msg.seq, "latest", c.state.uploadSeq)
		return
	}

	c.state.SelectedFile = ""
	if msg.err != nil {
		c.state.Chapters = nil
		c.state.Status = Status{Text: UserMessage(msg.err), Tone: ToneError}
		c.logger.Warn("upload failed", "seq", msg.seq, "error", msg.err)
		return
	}

	c.state.Chapters = keepNonEmpty(msg.chapters)
	c.state.ActiveIndex = -1
	c.state.Status = Status{}
	c.logger.Info("document loaded", "seq", msg.seq, "chapters", len(c.state.Chapters))
}

// Entries renders the chapter list. An empty collection renders a single
// placeholder entry.
func (c *Controller) Entries() []Entry {
	if len(c.state.Chapters) == 0 {
		return []Entry{{Index: -1, Label: EmptyListLabel, Placeholder: true}}
	}
	entries := make([]Entry, len(c.state.Chapters))
	for i, ch := range c.state.Chapters {
		entries[i] = Entry{
			Index:   i,
			Label:   Label(ch, i),
			Preview: document.Preview(ch.Content, 8),
			Active:  i == c.state.ActiveIndex,
		}
	}
	return entries
}

// Select makes the chapter at index active. Out of range indexes are ignored.
func (c *Controller) Select(index int) {
	if index < 0 || index >= len(c.state.Chapters) {
		return
	}
	ch := c.state.Chapters[index]

	s := &c.state
	s.ActiveIndex = index
	s.Title = Label(ch, index)
	s.Body = ch.Content
	s.ControlsEnabled = true
	s.SliderValue = 0
	c.pane.SetScrollTop(0)
}

func (c *Controller) active() (document.Chapter, bool) {
	if c.state.ActiveIndex < 0 || c.state.ActiveIndex >= len(c.state.Chapters) {
		return document.Chapter{}, false
	}
	return c.state.Chapters[c.state.ActiveIndex], true
}

// Copy returns a command writing the active chapter to the clipboard, or
// nil when nothing is selected.
func (c *Controller) Copy() tea.Cmd {
	ch, ok := c.active()
	if !ok {
		return nil
	}
	cb := c.clipboard
	return func() tea.Msg {
		if cb == nil {
			return copyResultMsg{err: errNoClipboard}
		}
		return copyResultMsg{err: cb.WriteAll(ch.Content)}
	}
}

func (c *Controller) finishCopy(msg copyResultMsg) {
	if msg.err != nil {
		c.logger.Warn("clipboard write failed", "error", msg.err)
		c.state.Status = Status{Text: CopyFailedMessage, Tone: ToneError}
		return
	}
	c.state.Status = Status{Text: CopiedMessage, Tone: ToneInfo}
}

// Export saves the active chapter as a text file. It does nothing when no
// chapter is selected.
func (c *Controller) Export() {
	ch, ok := c.active()
	if !ok {
		return
	}
	if c.exporter == nil {
		c.state.Status = Status{Text: ExportUnavailable, Tone: ToneError}
		return
	}

	name := ExportName(ch, c.state.ActiveIndex)
	path, err := c.exporter.Export(name, []byte(ch.Content))
	if err != nil {
		c.logger.Warn("export failed", "name", name, "error", err)
		c.state.Status = Status{Text: ExportFailedPrefix + err.Error(), Tone: ToneError}
		return
	}
	c.logger.Info("chapter exported", "path", path)
	c.state.Status = Status{Text: ExportedPrefix + path, Tone: ToneInfo}
}

// userMessager is implemented by errors that carry text meant for the user.
type userMessager interface {
	UserMessage() string
}

// UserMessage returns the user-facing text carried by err, or the generic
// upload failure message when it carries none.
func UserMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) {
		if m := um.UserMessage(); m != "" {
			return m
		}
	}
	return FallbackUploadError
}

type nopPane struct{ top int }

func (p *nopPane) ScrollHeight() int    { return 0 }
func (p *nopPane) ClientHeight() int    { return 0 }
func (p *nopPane) ScrollTop() int       { return p.top }
func (p *nopPane) SetScrollTop(top int) { p.top = top }
