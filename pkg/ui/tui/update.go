package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// PhaseMsg switches the pipeline phase shown in the header
type PhaseMsg string

// TotalMsg sets the number of unique animals in the batch
type TotalMsg int

// OutcomeMsg records one animal's resolution
type OutcomeMsg struct {
	Name    string
	Outcome string
	Err     error
}

// LogMsg appends a line to the log panel
type LogMsg struct {
	Level   string
	Message string
}

// DoneMsg ends the program once the batch has finished
type DoneMsg struct{}

// TickMsg drives periodic repaints
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 20 {
			m.progressBar.Width = msg.Width - 20
			if m.progressBar.Width > 60 {
				m.progressBar.Width = 60
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		return m, tea.Batch(tickCmd(), m.spinner.Tick)

	case PhaseMsg:
		m.mu.Lock()
		m.phase = string(msg)
		m.mu.Unlock()
		return m, nil

	case TotalMsg:
		m.mu.Lock()
		m.total = int(msg)
		m.mu.Unlock()
		return m, nil

	case OutcomeMsg:
		m.recordOutcome(msg.Name, msg.Outcome, msg.Err)
		if msg.Outcome == OutcomeFailed && msg.Err != nil {
			m.addLogMessage("ERROR", msg.Name+": "+msg.Err.Error())
		}
		return m, nil

	case LogMsg:
		m.addLogMessage(msg.Level, msg.Message)
		return m, nil

	case DoneMsg:
		m.mu.Lock()
		m.finished = true
		m.mu.Unlock()
		return m, tea.Quit
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		m.mu.Lock()
		m.logMessages = nil
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
