package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accent    = lipgloss.Color("#5FD7AF")
	okColor   = lipgloss.Color("#5FD75F")
	warnColor = lipgloss.Color("#D7AF5F")
	errColor  = lipgloss.Color("#D75F5F")
	dimText   = lipgloss.Color("#8A8A8A")

	headerStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Padding(0, 1)

	phaseStyle = lipgloss.NewStyle().
			Foreground(warnColor).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimText).
			Padding(0, 1)

	statLabelStyle = lipgloss.NewStyle().
			Foreground(dimText)

	statValueStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	okStyle   = lipgloss.NewStyle().Foreground(okColor)
	warnStyle = lipgloss.NewStyle().Foreground(warnColor)
	errStyle  = lipgloss.NewStyle().Foreground(errColor)
	dimStyle  = lipgloss.NewStyle().Foreground(dimText)

	logTimestampStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 2)
)

// outcomeStyle maps an outcome label to its display style
func outcomeStyle(outcome string) lipgloss.Style {
	switch outcome {
	case OutcomeDownloaded:
		return okStyle
	case OutcomePlaceholder:
		return warnStyle
	case OutcomeFailed:
		return errStyle
	default:
		return dimStyle
	}
}

// outcomeMark maps an outcome label to its single-character marker
func outcomeMark(outcome string) string {
	switch outcome {
	case OutcomeDownloaded:
		return "✓"
	case OutcomeCached:
		return "="
	case OutcomePlaceholder:
		return "~"
	case OutcomeFailed:
		return "✗"
	default:
		return "·"
	}
}
