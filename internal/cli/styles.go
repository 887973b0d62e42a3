package cli

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	successColor = lipgloss.Color("#00AA00")
	errorColor   = lipgloss.Color("#A40000")
	warningColor = lipgloss.Color("#FFA500")
	mutedColor   = lipgloss.Color("#888888")
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)
