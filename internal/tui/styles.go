package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#7AA2F7")
	muted  = lipgloss.Color("#565F89")
	text   = lipgloss.Color("#C0CAF5")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Padding(0, 1)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	entryStyle = lipgloss.NewStyle().
			Foreground(text)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1B26")).
			Background(accent)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E0AF68")).
			Bold(true)

	previewStyle = lipgloss.NewStyle().
			Foreground(muted).
			Italic(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(muted).
				Italic(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BB9AF7"))

	bodyStyle = lipgloss.NewStyle().
			Foreground(text)

	disabledStyle = lipgloss.NewStyle().
			Foreground(muted)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ECE6A"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7768E")).
			Bold(true)
)
