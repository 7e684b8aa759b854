package tui

import "github.com/charmbracelet/lipgloss"

var (
	Primary   = lipgloss.Color("#4ECDC4")
	TextMuted = lipgloss.Color("#888888")
	Stopped   = lipgloss.Color("#6C757D")
	Alert     = lipgloss.Color("#FF6B6B")

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	ElapsedStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 2)

	IdleStyle = lipgloss.NewStyle().
			Foreground(Stopped).
			Padding(1, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Alert).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)
)
