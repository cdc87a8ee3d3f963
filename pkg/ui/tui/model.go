package tui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// outcome labels recorded against animals
const (
	OutcomeDownloaded  = "downloaded"
	OutcomeCached      = "cached"
	OutcomePlaceholder = "placeholder"
	OutcomeFailed      = "failed"
)

// resolution is one animal's recorded outcome
type resolution struct {
	Name    string
	Outcome string
	Err     error
	At      time.Time
}

// Model is the bubbletea model for the resolution batch view
type Model struct {
	spinner     spinner.Model
	progressBar progress.Model

	phase string
	total int

	downloaded  int
	cached      int
	placeholder int
	failed      int

	recent    []resolution
	maxRecent int

	logMessages    []LogMessage
	maxLogMessages int

	startTime time.Time
	width     int
	height    int
	showHelp  bool
	finished  bool

	mu sync.RWMutex
}

// LogMessage is one entry in the scrolling log panel
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates the batch view model
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return Model{
		spinner:        s,
		progressBar:    p,
		phase:          "starting",
		maxRecent:      12,
		maxLogMessages: 50,
		startTime:      time.Now(),
	}
}

// Init starts the spinner
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// done is the number of animals accounted for
func (m *Model) done() int {
	return m.downloaded + m.cached + m.placeholder + m.failed
}

// recordOutcome folds one resolution into the counters and recent list
func (m *Model) recordOutcome(name, outcome string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch outcome {
	case OutcomeDownloaded:
		m.downloaded++
	case OutcomeCached:
		m.cached++
	case OutcomePlaceholder:
		m.placeholder++
	case OutcomeFailed:
		m.failed++
	}

	m.recent = append(m.recent, resolution{
		Name:    name,
		Outcome: outcome,
		Err:     err,
		At:      time.Now(),
	})
	if len(m.recent) > m.maxRecent {
		m.recent = m.recent[len(m.recent)-m.maxRecent:]
	}
}

// addLogMessage appends to the log panel, keeping the last N entries
func (m *Model) addLogMessage(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	color := dimText
	switch level {
	case "ERROR":
		color = errColor
	case "WARN":
		color = warnColor
	case "INFO":
		color = accent
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}
