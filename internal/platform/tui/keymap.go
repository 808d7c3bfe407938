package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snakearena/internal/core"
)

// KeyMap defines the key bindings for the arena client.
// This centralizes key bindings and makes them testable.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Join      key.Binding
	NextColor key.Binding
	PrevColor key.Binding
	Respawn   key.Binding
	Spectate  key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Respawn, k.Spectate, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Join: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "join"),
		),
		NextColor: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next colour"),
		),
		PrevColor: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev colour"),
		),
		Respawn: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "respawn"),
		),
		Spectate: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "spectate"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// Direction translates a key message to a turn request.
func (k KeyMap) Direction(msg tea.KeyMsg) (core.Direction, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return core.Up, true
	case key.Matches(msg, k.Down):
		return core.Down, true
	case key.Matches(msg, k.Left):
		return core.Left, true
	case key.Matches(msg, k.Right):
		return core.Right, true
	}
	return "", false
}
