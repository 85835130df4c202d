package rtc

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
)

// DefaultBusSpeed is the I2C clock used for the DS3231.
const DefaultBusSpeed = 100 * physic.KiloHertz

// OpenBus opens the named I2C bus ("" for the first one) and sets its clock.
// The host drivers must already be initialised.
func OpenBus(name string, speed physic.Frequency) (i2c.BusCloser, error) {
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	if speed > 0 {
		if err := bus.SetSpeed(speed); err != nil {
			bus.Close()
			return nil, fmt.Errorf("set i2c speed on %q: %w", name, err)
		}
	}
	return bus, nil
}
