package ui

// TUI is the surface the pipeline drives when the full-screen terminal
// interface is active
type TUI interface {
	SetPhase(phase string)
	SetTotal(total int)
	RecordOutcome(name, outcome string, err error)
	LogInfo(format string, args ...interface{})
	LogWarning(format string, args ...interface{})
	LogError(format string, args ...interface{})
	Done()
}
