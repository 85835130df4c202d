package mock

import (
	"sync"
	"time"

	"github.com/timeheart/lumina/pkg/indicator"
)

// LineWrite is one recorded indicator line write.
type LineWrite struct {
	Line int
	On   bool
	At   time.Time
}

// Lines records indicator line writes, stamped with a virtual clock.
type Lines struct {
	// Probe, if set, is called before every write is recorded.
	Probe func()

	clock *Clock

	mu     sync.Mutex
	writes []LineWrite
	state  [indicator.LineCount]bool
}

// NewLines creates recording lines. clock may be nil.
func NewLines(clock *Clock) *Lines {
	return &Lines{clock: clock}
}

// Set records a line write.
func (l *Lines) Set(line int, on bool) error {
	if l.Probe != nil {
		l.Probe()
	}

	var at time.Time
	if l.clock != nil {
		at = l.clock.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.writes = append(l.writes, LineWrite{Line: line, On: on, At: at})
	if line >= 0 && line < len(l.state) {
		l.state[line] = on
	}
	return nil
}

// Writes returns the recorded writes.
func (l *Lines) Writes() []LineWrite {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]LineWrite, len(l.writes))
	copy(result, l.writes)
	return result
}

// State returns the current level of every line.
func (l *Lines) State() [indicator.LineCount]bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Compile-time interface satisfaction check.
var _ indicator.Driver = (*Lines)(nil)
