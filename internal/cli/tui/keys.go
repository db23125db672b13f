package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextDevice key.Binding
	PrevDevice key.Binding
	Graphics   key.Binding
	Compute    key.Binding
	SortPID    key.Binding
	SortName   key.Binding
	SortMemory key.Binding
	Quit       key.Binding
}

var defaultKeyMap = keyMap{
	NextDevice: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next gpu"),
	),
	PrevDevice: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev gpu"),
	),
	Graphics: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "graphics"),
	),
	Compute: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "compute"),
	),
	SortPID: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "pid"),
	),
	SortName: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "name"),
	),
	SortMemory: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "memory"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{
		k.NextDevice, k.Graphics, k.Compute,
		k.SortPID, k.SortName, k.SortMemory, k.Quit,
	}
}
