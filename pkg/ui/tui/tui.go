package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI wraps the bubbletea program behind the interface the pipeline drives
type TUI struct {
	program *tea.Program
	model   *Model
}

// New creates the full-screen batch interface
func New() *TUI {
	model := NewModel()
	program := tea.NewProgram(&model, tea.WithAltScreen())

	return &TUI{
		program: program,
		model:   &model,
	}
}

// Run blocks until the user quits or Done is called. The pipeline runs in
// another goroutine and talks to the program through Send.
func (t *TUI) Run() error {
	go func() {
		time.Sleep(100 * time.Millisecond)
		t.program.Send(TickMsg(time.Now()))
	}()

	_, err := t.program.Run()
	return err
}

// Send delivers a message to the program
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

// SetPhase updates the phase shown in the header
func (t *TUI) SetPhase(phase string) {
	t.Send(PhaseMsg(phase))
}

// SetTotal sets the batch size once the table has been parsed
func (t *TUI) SetTotal(total int) {
	t.Send(TotalMsg(total))
}

// RecordOutcome records one animal's resolution
func (t *TUI) RecordOutcome(name, outcome string, err error) {
	t.Send(OutcomeMsg{Name: name, Outcome: outcome, Err: err})
}

// LogInfo logs an info message
func (t *TUI) LogInfo(format string, args ...interface{}) {
	t.Send(LogMsg{Level: "INFO", Message: fmt.Sprintf(format, args...)})
}

// LogWarning logs a warning message
func (t *TUI) LogWarning(format string, args ...interface{}) {
	t.Send(LogMsg{Level: "WARN", Message: fmt.Sprintf(format, args...)})
}

// LogError logs an error message
func (t *TUI) LogError(format string, args ...interface{}) {
	t.Send(LogMsg{Level: "ERROR", Message: fmt.Sprintf(format, args...)})
}

// Done ends the program after the batch has finished
func (t *TUI) Done() {
	t.Send(DoneMsg{})
}
