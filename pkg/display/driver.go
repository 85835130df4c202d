package display

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/timeheart/lumina/pkg/timeinfo"
)

// Driver controls the select and segment lines of the display.
// Callers keep at most one select enabled at a time.
type Driver interface {
	// Enable drives the select line of position pos high.
	Enable(pos int) error

	// Disable drives the select line of position pos low.
	Disable(pos int) error

	// SetSegments drives the shared segment lines to s.
	SetSegments(s Segments) error
}

// GPIODriver drives the display through GPIO pins.
type GPIODriver struct {
	selects  [timeinfo.DigitCount]gpio.PinOut
	segments [SegmentCount]gpio.PinOut
}

// NewGPIODriver creates a driver for ten select pins (position order) and
// seven segment pins (line order). All pins are driven low.
func NewGPIODriver(selects, segments []gpio.PinOut) (*GPIODriver, error) {
	if len(selects) != timeinfo.DigitCount {
		return nil, fmt.Errorf("display: need %d select pins, got %d", timeinfo.DigitCount, len(selects))
	}
	if len(segments) != SegmentCount {
		return nil, fmt.Errorf("display: need %d segment pins, got %d", SegmentCount, len(segments))
	}

	d := &GPIODriver{}
	copy(d.selects[:], selects)
	copy(d.segments[:], segments)

	for _, p := range append(d.selects[:], d.segments[:]...) {
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("display: init %s: %w", p, err)
		}
	}
	return d, nil
}

// Enable drives the select of pos high.
func (d *GPIODriver) Enable(pos int) error {
	return d.selects[pos].Out(gpio.High)
}

// Disable drives the select of pos low.
func (d *GPIODriver) Disable(pos int) error {
	return d.selects[pos].Out(gpio.Low)
}

// SetSegments writes every segment line, line 0 first.
func (d *GPIODriver) SetSegments(s Segments) error {
	for i, p := range d.segments {
		if err := p.Out(gpio.Level(s.Line(i))); err != nil {
			return err
		}
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Driver = (*GPIODriver)(nil)
