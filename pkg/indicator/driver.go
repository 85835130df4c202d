package indicator

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Driver sets indicator lines.
type Driver interface {
	// Set drives line high when on is true, low otherwise.
	Set(line int, on bool) error
}

// GPIODriver drives the indicator lines through GPIO pins.
type GPIODriver struct {
	pins [LineCount]gpio.PinOut
}

// NewGPIODriver creates a driver for five pins in line order. All lines
// start low.
func NewGPIODriver(pins []gpio.PinOut) (*GPIODriver, error) {
	if len(pins) != LineCount {
		return nil, fmt.Errorf("indicator: need %d pins, got %d", LineCount, len(pins))
	}

	d := &GPIODriver{}
	copy(d.pins[:], pins)
	for i, p := range d.pins {
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("indicator: init line %d: %w", i, err)
		}
	}
	return d, nil
}

// Set drives one line.
func (d *GPIODriver) Set(line int, on bool) error {
	return d.pins[line].Out(gpio.Level(on))
}

// Compile-time interface satisfaction check.
var _ Driver = (*GPIODriver)(nil)
