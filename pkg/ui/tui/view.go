package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the batch screen
func (m *Model) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder

	b.WriteString(headerStyle.Render("wikifauna"))
	b.WriteString("  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(phaseStyle.Render(m.phase))
	b.WriteString("\n\n")

	b.WriteString(m.renderProgress())
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")
	b.WriteString(m.renderRecent())
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	if m.showHelp {
		b.WriteString(helpStyle.Render("q quit • ctrl+l clear logs • ? toggle help"))
	} else {
		b.WriteString(helpStyle.Render("? for help"))
	}

	return b.String()
}

// renderProgress draws the overall batch bar
func (m *Model) renderProgress() string {
	if m.total == 0 {
		return dimStyle.Render("  waiting for animals...") + "\n"
	}

	pct := float64(m.done()) / float64(m.total)
	bar := m.progressBar.ViewAs(pct)

	return fmt.Sprintf("  %s %d/%d\n", bar, m.done(), m.total)
}

// renderStats draws the outcome counters
func (m *Model) renderStats() string {
	elapsed := time.Since(m.startTime).Round(time.Second)

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		m.stat("downloaded", m.downloaded),
		m.stat("cached", m.cached),
		m.stat("placeholder", m.placeholder),
		m.stat("failed", m.failed),
		statLabelStyle.Render(" elapsed ")+statValueStyle.Render(elapsed.String()),
	)
	return panelStyle.Render(row) + "\n"
}

func (m *Model) stat(label string, value int) string {
	return statLabelStyle.Render(" "+label+" ") + statValueStyle.Render(fmt.Sprintf("%d", value))
}

// renderRecent draws the last few resolutions
func (m *Model) renderRecent() string {
	if len(m.recent) == 0 {
		return ""
	}

	var lines []string
	for _, r := range m.recent {
		style := outcomeStyle(r.Outcome)
		line := fmt.Sprintf("%s %s", style.Render(outcomeMark(r.Outcome)), r.Name)
		if r.Outcome == OutcomeFailed && r.Err != nil {
			line += dimStyle.Render("  " + r.Err.Error())
		}
		lines = append(lines, line)
	}
	return panelStyle.Render(strings.Join(lines, "\n")) + "\n"
}

// renderLogs draws the tail of the log panel
func (m *Model) renderLogs() string {
	if len(m.logMessages) == 0 {
		return ""
	}

	show := m.logMessages
	if len(show) > 6 {
		show = show[len(show)-6:]
	}

	var lines []string
	for _, msg := range show {
		ts := logTimestampStyle.Render(msg.Time.Format("15:04:05"))
		body := lipgloss.NewStyle().Foreground(msg.Color).Render(msg.Message)
		lines = append(lines, ts+" "+body)
	}
	return panelStyle.Render(strings.Join(lines, "\n")) + "\n"
}
