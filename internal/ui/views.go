package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/forPelevin/hourmix/internal/event"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA500"))
	statusStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00AA00"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A40000"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#888888")).
			Padding(0, 1).
			Width(60)
)

// renderRun renders the live view while the pipeline works.
func renderRun(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Hourmix"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render("press q to cancel"))
	b.WriteString("\n\n")

	var box strings.Builder
	box.WriteString(statusStyle.Render(m.status))
	box.WriteString("\n")
	box.WriteString(renderProgressBar(m.percent/100, 40))
	if m.total > 0 {
		box.WriteString(fmt.Sprintf("\nItem %d of %d", m.current, m.total))
	}
	b.WriteString(boxStyle.Render(box.String()))
	b.WriteString("\n")

	if len(m.logs) > 0 {
		b.WriteString("\n")
		for _, l := range m.logs {
			b.WriteString(renderLogLine(l))
			b.WriteString("\n")
		}
	}

	if m.cancelling {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("Cancelling..."))
		b.WriteString("\n")
	}

	return b.String()
}

func renderLogLine(l event.Log) string {
	switch l.Level {
	case event.LevelWarning:
		return " " + warningStyle.Render("!") + " " + l.Text
	case event.LevelError:
		return " " + errorStyle.Render("✗") + " " + l.Text
	default:
		return " " + mutedStyle.Render("·") + " " + l.Text
	}
}

// renderProgressBar renders a fixed-width bar for a [0,1] fraction.
func renderProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("%s %d%%", bar, int(progress*100))
}

// renderSummary renders the terminal state once the stream ends.
func renderSummary(m Model) string {
	switch {
	case m.errText != "":
		return errorStyle.Render("✗ Run failed") + "\n" + m.errText + "\n"
	case m.outputPath != "":
		return successStyle.Render("✨ Power hour ready!") + "\n" + m.outputPath + "\n"
	default:
		return warningStyle.Render("Run cancelled.") + "\n"
	}
}
