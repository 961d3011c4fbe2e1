// Package tui is the terminal front-end of the reader.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/metcalfc/nightreader/internal/controller"
)

const (
	sliderStep   = 10
	maxListWidth = 36
	minWidth     = 40
	minHeight    = 8
)

// Options configures a Model.
type Options struct {
	// Controller options; the Pane is provided by the model.
	Controller controller.Options

	// File is imported as soon as the program starts.
	File string
}

// Model hosts a controller.Controller in a bubbletea program.
type Model struct {
	ctrl     *controller.Controller
	pane     *viewPane
	input    textinput.Model
	slider   progress.Model
	help     help.Model
	keys     keyMap
	file     string
	cursor   int
	body     string
	width    int
	height   int
	quitting bool
}

// New builds a Model and the controller it hosts.
func New(opts Options) *Model {
	pane := newViewPane()
	copts := opts.Controller
	copts.Pane = pane

	input := textinput.New()
	input.Prompt = "Open: "
	input.Placeholder = "path/to/book.epub"
	input.CharLimit = 4096

	m := &Model{
		ctrl:   controller.New(copts),
		pane:   pane,
		input:  input,
		slider: progress.New(progress.WithSolidFill(string(accent)), progress.WithoutPercentage()),
		help:   help.New(),
		keys:   defaultKeys(),
		file:   opts.File,
		width:  80,
		height: 24,
	}
	m.layout()
	return m
}

// Controller returns the hosted controller.
func (m *Model) Controller() *controller.Controller {
	return m.ctrl
}

func (m *Model) Init() tea.Cmd {
	if m.file == "" {
		return nil
	}
	path := m.file
	return func() tea.Msg { return controller.FileSelectedMsg{Path: path} }
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		before := m.pane.ScrollTop()
		m.layout()
		if m.pane.ScrollTop() != before {
			m.ctrl.Update(controller.ScrollMsg{})
		}
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			cmd = m.updateInput(msg)
		} else {
			cmd = m.handleKey(msg)
		}

	case tea.MouseMsg:
		before := m.pane.ScrollTop()
		m.pane.vp, cmd = m.pane.vp.Update(msg)
		if m.pane.ScrollTop() != before {
			m.ctrl.Update(controller.ScrollMsg{})
		}

	default:
		cmd = m.ctrl.Update(msg)
	}

	m.sync()
	if m.pane.takeMoved() {
		cmd = tea.Batch(echoScroll, cmd)
	}
	return m, cmd
}

func echoScroll() tea.Msg { return controller.ScrollMsg{} }

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		path := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		m.input.Blur()
		return m.ctrl.Update(controller.FileSelectedMsg{Path: path})
	case tea.KeyEsc:
		m.input.Reset()
		m.input.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	state := m.ctrl.State()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Open):
		return m.input.Focus()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(state.Chapters)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		return m.ctrl.Update(controller.SelectChapterMsg{Index: m.cursor})

	case key.Matches(msg, m.keys.Copy):
		return m.ctrl.Update(controller.CopyMsg{})
	case key.Matches(msg, m.keys.Export):
		return m.ctrl.Update(controller.ExportMsg{})

	case key.Matches(msg, m.keys.Back):
		return m.ctrl.Update(controller.SliderInputMsg{Value: state.SliderValue - sliderStep})
	case key.Matches(msg, m.keys.Forward):
		return m.ctrl.Update(controller.SliderInputMsg{Value: state.SliderValue + sliderStep})
	case key.Matches(msg, m.keys.Start):
		return m.ctrl.Update(controller.SliderInputMsg{Value: 0})
	case key.Matches(msg, m.keys.End):
		return m.ctrl.Update(controller.SliderInputMsg{Value: 100})

	case key.Matches(msg, m.keys.PageUp):
		m.userScroll(func() { m.pane.vp.PageUp() })
	case key.Matches(msg, m.keys.PageDown):
		m.userScroll(func() { m.pane.vp.PageDown() })
	}
	return nil
}

// userScroll applies a scroll the user asked for and reports it if the
// offset changed.
func (m *Model) userScroll(scroll func()) {
	before := m.pane.ScrollTop()
	scroll()
	if m.pane.ScrollTop() != before {
		m.ctrl.Update(controller.ScrollMsg{})
	}
}

// sync refreshes the pane content and cursor from the controller state.
func (m *Model) sync() {
	state := m.ctrl.State()
	if state.Body != m.body {
		m.body = state.Body
		top := m.pane.vp.YOffset
		m.pane.vp.SetContent(m.wrap(state.Body))
		m.pane.vp.SetYOffset(top)
	}
	if m.cursor >= len(state.Chapters) {
		m.cursor = max(len(state.Chapters)-1, 0)
	}
}

func (m *Model) listWidth() int {
	return min(maxListWidth, max(m.width, minWidth)/3)
}

func (m *Model) layout() {
	width, height := max(m.width, minWidth), max(m.height, minHeight)

	// header, status and help lines plus the list border
	bodyHeight := height - 3
	readerWidth := width - m.listWidth() - 5

	m.pane.vp.Width = readerWidth
	// chapter title and slider
	m.pane.vp.Height = max(bodyHeight-2, 1)
	m.pane.vp.SetContent(m.wrap(m.body))

	m.slider.Width = readerWidth - 6
	m.input.Width = width - len(m.input.Prompt) - 2
	m.help.Width = width
}

func (m *Model) wrap(body string) string {
	return bodyStyle.Width(max(m.pane.vp.Width, 1)).Render(body)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	state := m.ctrl.State()
	header := headerStyle.Render("nightreader")
	if state.SelectedFile != "" {
		header += disabledStyle.Render(" " + state.SelectedFile)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewList(state), " ", m.viewReader(state))

	bottom := m.viewStatus(state)
	if m.input.Focused() {
		bottom = m.input.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, bottom, m.help.View(m.keys))
}

func (m *Model) viewList(state controller.ReaderState) string {
	inner := m.listWidth() - 4
	height := max(max(m.height, minHeight)-5, 1)

	entries := m.ctrl.Entries()
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}

	var lines []string
	for _, e := range entries[start:min(len(entries), start+height)] {
		if e.Placeholder {
			lines = append(lines, placeholderStyle.Render(e.Label))
			continue
		}
		label := truncate(e.Label, inner)
		switch {
		case e.Index == m.cursor:
			label = cursorStyle.Render(label)
		case e.Active:
			label = activeStyle.Render(label)
		default:
			label = entryStyle.Render(label)
		}
		lines = append(lines, label)
	}
	if len(state.Chapters) > 0 && inner > 0 {
		if prev := entries[m.cursor].Preview; prev != "" {
			lines = append(lines, "", previewStyle.Render(truncate(prev, inner)))
		}
	}

	return listStyle.Width(inner + 2).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) viewReader(state controller.ReaderState) string {
	title := titleStyle.Render(state.Title)
	if state.ActiveIndex < 0 {
		title = placeholderStyle.Render(state.Title)
	}

	slider := disabledStyle.Render(strings.Repeat("─", max(m.slider.Width, 0)) + "   -")
	if state.ControlsEnabled {
		slider = m.slider.ViewAs(float64(state.SliderValue)/100) + fmt.Sprintf(" %3d%%", state.SliderValue)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, m.pane.vp.View(), slider)
}

func (m *Model) viewStatus(state controller.ReaderState) string {
	switch state.Status.Tone {
	case controller.ToneInfo:
		return infoStyle.Render(state.Status.Text)
	case controller.ToneError:
		return errorStyle.Render(state.Status.Text)
	}
	return ""
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
