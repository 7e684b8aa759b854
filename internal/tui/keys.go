package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the watch view key bindings
type keyMap struct {
	Stop    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Stop:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop timer")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}
