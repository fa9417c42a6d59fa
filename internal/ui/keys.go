package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the global keybindings. Task keys live in the list view.
type KeyMap struct {
	ListView   key.Binding
	StatsView  key.Binding
	Help       key.Binding
	ThemeCycle key.Binding

	Quit key.Binding
	Back key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ListView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "list"),
		),
		StatsView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "stats"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ListView, k.StatsView},
		{k.ThemeCycle, k.Help, k.Quit},
	}
}
