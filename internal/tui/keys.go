package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	// Spawning
	Info     key.Binding
	Success  key.Binding
	Error    key.Binding
	Warn     key.Binding
	Position key.Binding
	Sticky   key.Binding

	// Selection
	Up       key.Binding
	Down     key.Binding
	Deselect key.Binding

	// Actions
	Close  key.Binding
	Clear  key.Binding
	Detail key.Binding
	Back   key.Binding
	Copy   key.Binding
	Freeze key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Info, k.Success, k.Error, k.Warn, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Info, k.Success, k.Error, k.Warn},
		{k.Position, k.Sticky, k.Freeze},
		{k.Up, k.Down, k.Deselect},
		{k.Close, k.Clear, k.Detail, k.Copy},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Info: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "info toast"),
		),
		Success: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "success toast"),
		),
		Error: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "error toast"),
		),
		Warn: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "warning toast"),
		),
		Position: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "next position"),
		),
		Sticky: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle persistent"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "select previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "select next"),
		),
		Deselect: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "deselect"),
		),
		Close: key.NewBinding(
			key.WithKeys("x", "d"),
			key.WithHelp("x", "close selected"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear all"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "inspect"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy as YAML"),
		),
		Freeze: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "freeze time"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
