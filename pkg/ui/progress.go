package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	progressFilled = "━"
	progressEmpty  = "─"
)

// ProgressDisplay renders a single updating line as the resolution batch
// advances. It is safe for calls from the result collector goroutine.
type ProgressDisplay struct {
	mu          sync.Mutex
	total       int
	downloaded  int
	cached      int
	placeholder int
	failed      int
	current     string
	startTime   time.Time
	debug       bool
}

// NewProgressDisplay creates a progress display for a batch of total animals
func NewProgressDisplay(total int, debug bool) *ProgressDisplay {
	return &ProgressDisplay{
		total:     total,
		startTime: time.Now(),
		debug:     debug,
	}
}

// Downloaded records a fetched image
func (p *ProgressDisplay) Downloaded(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.downloaded++
	p.current = name
	p.render(Green("✓"), name)
}

// Cached records an animal whose image was already on disk
func (p *ProgressDisplay) Cached(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached++
	p.current = name
	p.render(Dim("="), name)
}

// Placeholder records a fallback substitution
func (p *ProgressDisplay) Placeholder(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placeholder++
	p.current = name
	p.render(Yellow("~"), name)
}

// Failed records an animal that produced no image at all
func (p *ProgressDisplay) Failed(name string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed++
	p.current = name
	if p.debug {
		fmt.Printf("\n%s %s: %v\n", Red("✗"), name, err)
		return
	}
	p.render(Red("✗"), name)
}

// done is the number of animals accounted for so far
func (p *ProgressDisplay) done() int {
	return p.downloaded + p.cached + p.placeholder + p.failed
}

// render repaints the progress line; callers hold the mutex
func (p *ProgressDisplay) render(mark, name string) {
	if quietMode {
		return
	}
	if p.debug {
		fmt.Printf("%s %s\n", mark, name)
		return
	}

	barWidth := 24
	done := p.done()
	filled := 0
	if p.total > 0 {
		filled = done * barWidth / p.total
		if filled > barWidth {
			filled = barWidth
		}
	}
	bar := strings.Repeat(progressFilled, filled) + strings.Repeat(progressEmpty, barWidth-filled)

	line := fmt.Sprintf("\r[%s] %d/%d %s %s", bar, done, p.total, mark, name)
	if p.failed > 0 {
		line += fmt.Sprintf(" %s", Red(fmt.Sprintf("(%d failed)", p.failed)))
	}

	// Pad to terminal width so shorter lines fully overwrite longer ones.
	// Color escapes take bytes but no cells, so pad by visible width.
	if pad := Width() - visibleLen(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	fmt.Print(line)
}

// visibleLen counts the terminal cells a string occupies, skipping ANSI
// color sequences and the carriage return that repaints the line
func visibleLen(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		case r == '\r':
		default:
			n++
		}
	}
	return n
}

// Complete prints the batch summary
func (p *ProgressDisplay) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if quietMode {
		return
	}

	elapsed := time.Since(p.startTime)
	fmt.Printf("\n\n%s Resolved %d of %d animals in %s\n",
		Green("✓"), p.downloaded+p.cached+p.placeholder, p.total, formatDuration(elapsed))

	fmt.Printf("  %s %d downloaded, %d cached, %d placeholder\n",
		Dim("•"), p.downloaded, p.cached, p.placeholder)
	if p.failed > 0 {
		fmt.Printf("  %s %d without any image\n", Dim("•"), p.failed)
	}
}

// formatDuration formats a duration in a compact human form
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
