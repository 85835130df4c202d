package main

import (
	"errors"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/timeheart/lumina/pkg/config"
	"github.com/timeheart/lumina/pkg/display"
	"github.com/timeheart/lumina/pkg/indicator"
	"github.com/timeheart/lumina/pkg/rtc"
)

// Hardware is the set of peripherals the appliance drives.
type Hardware struct {
	Source    rtc.TimeSource
	Display   display.Driver
	Indicator indicator.Driver

	closers []func() error
}

// Close releases the peripherals.
func (h *Hardware) Close() error {
	var errs []error
	for _, c := range h.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// openHardware returns real peripherals, or simulated ones when
// cfg.Simulate is set.
func openHardware(cfg *config.Config, logger *slog.Logger) (*Hardware, error) {
	if cfg.Simulate {
		return openSimulation(cfg, logger)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}

	selects, err := lookupPins(cfg.Display.SelectPins)
	if err != nil {
		return nil, fmt.Errorf("display select pins: %w", err)
	}
	segments, err := lookupPins(cfg.Display.SegmentPins)
	if err != nil {
		return nil, fmt.Errorf("display segment pins: %w", err)
	}
	leds, err := lookupPins(cfg.Indicator.Pins)
	if err != nil {
		return nil, fmt.Errorf("indicator pins: %w", err)
	}

	disp, err := display.NewGPIODriver(selects, segments)
	if err != nil {
		return nil, err
	}
	ind, err := indicator.NewGPIODriver(leds)
	if err != nil {
		return nil, err
	}

	bus, err := rtc.OpenBus(cfg.RTC.Bus, physic.Frequency(cfg.RTC.SpeedKHz)*physic.KiloHertz)
	if err != nil {
		return nil, err
	}
	logger.Info("hardware ready", "bus", bus.String(), "rtc_address", fmt.Sprintf("%#02x", cfg.RTC.Address))

	return &Hardware{
		Source:    rtc.NewDS3231(bus, cfg.RTC.Address),
		Display:   disp,
		Indicator: ind,
		closers:   []func() error{bus.Close},
	}, nil
}

func lookupPins(names []string) ([]gpio.PinOut, error) {
	pins := make([]gpio.PinOut, 0, len(names))
	for _, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("unknown pin %q", name)
		}
		pins = append(pins, p)
	}
	return pins, nil
}
