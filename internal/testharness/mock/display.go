package mock

import (
	"fmt"
	"sync"

	"github.com/timeheart/lumina/pkg/display"
)

// DisplayOpKind identifies a display driver call.
type DisplayOpKind uint8

const (
	// OpEnable is an Enable call.
	OpEnable DisplayOpKind = iota
	// OpDisable is a Disable call.
	OpDisable
	// OpSegments is a SetSegments call.
	OpSegments
)

// String returns the operation name.
func (k DisplayOpKind) String() string {
	switch k {
	case OpEnable:
		return "ENABLE"
	case OpDisable:
		return "DISABLE"
	case OpSegments:
		return "SEGMENTS"
	default:
		return "UNKNOWN"
	}
}

// DisplayOp is one recorded display driver call.
type DisplayOp struct {
	Kind     DisplayOpKind
	Position int
	Segments display.Segments
}

// Display records display driver calls and checks that at most one select
// is active at any time.
type Display struct {
	// Probe, if set, is called before every driver call is recorded.
	Probe func()

	mu         sync.Mutex
	ops        []DisplayOp
	active     map[int]bool
	violations []string
}

// NewDisplay creates a recording display.
func NewDisplay() *Display {
	return &Display{active: make(map[int]bool)}
}

// Enable records a select going high.
func (d *Display) Enable(pos int) error {
	d.probe()
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.active) > 0 {
		d.violations = append(d.violations,
			fmt.Sprintf("enable %d while %v active", pos, d.activeList()))
	}
	d.active[pos] = true
	d.ops = append(d.ops, DisplayOp{Kind: OpEnable, Position: pos})
	return nil
}

// Disable records a select going low.
func (d *Display) Disable(pos int) error {
	d.probe()
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.active, pos)
	d.ops = append(d.ops, DisplayOp{Kind: OpDisable, Position: pos})
	return nil
}

// SetSegments records a segment pattern.
func (d *Display) SetSegments(s display.Segments) error {
	d.probe()
	d.mu.Lock()
	defer d.mu.Unlock()

	pos := -1
	for p := range d.active {
		pos = p
	}
	d.ops = append(d.ops, DisplayOp{Kind: OpSegments, Position: pos, Segments: s})
	return nil
}

// Ops returns the recorded calls.
func (d *Display) Ops() []DisplayOp {
	d.mu.Lock()
	defer d.mu.Unlock()
	result := make([]DisplayOp, len(d.ops))
	copy(result, d.ops)
	return result
}

// Shown returns the segment patterns written, keyed by the select that was
// active at the time. Later writes overwrite earlier ones.
func (d *Display) Shown() map[int]display.Segments {
	d.mu.Lock()
	defer d.mu.Unlock()
	shown := make(map[int]display.Segments)
	for _, op := range d.ops {
		if op.Kind == OpSegments {
			shown[op.Position] = op.Segments
		}
	}
	return shown
}

// Violations returns descriptions of moments when two selects were active.
func (d *Display) Violations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	result := make([]string, len(d.violations))
	copy(result, d.violations)
	return result
}

// Reset clears recorded calls and violations.
func (d *Display) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = nil
	d.violations = nil
}

func (d *Display) probe() {
	if d.Probe != nil {
		d.Probe()
	}
}

func (d *Display) activeList() []int {
	list := make([]int, 0, len(d.active))
	for p := range d.active {
		list = append(list, p)
	}
	return list
}

// Compile-time interface satisfaction check.
var _ display.Driver = (*Display)(nil)
