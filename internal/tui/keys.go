package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open     key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Copy     key.Binding
	Export   key.Binding
	Back     key.Binding
	Forward  key.Binding
	Start    key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		Copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Back:     key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "position")),
		Forward:  key.NewBinding(key.WithKeys("]")),
		Start:    key.NewBinding(key.WithKeys("home"), key.WithHelp("home/end", "start/end")),
		End:      key.NewBinding(key.WithKeys("end")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup/pgdn", "scroll")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", " ")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Up, k.Down, k.Select, k.Copy, k.Export, k.Back, k.Start, k.PageUp, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
