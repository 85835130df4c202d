package main

import (
	"log/slog"
	"sync"

	"github.com/timeheart/lumina/pkg/config"
	"github.com/timeheart/lumina/pkg/display"
	"github.com/timeheart/lumina/pkg/indicator"
	"github.com/timeheart/lumina/pkg/rtc"
	"github.com/timeheart/lumina/pkg/timeinfo"
)

func openSimulation(cfg *config.Config, logger *slog.Logger) (*Hardware, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	logger.Info("simulation mode enabled", "location", loc.String())

	return &Hardware{
		Source:    rtc.NewSystem(loc),
		Display:   newSimDisplay(logger),
		Indicator: newSimIndicator(logger),
	}, nil
}

// simDisplay latches the segments of each enabled position and logs the
// ten-character readout whenever it changes.
type simDisplay struct {
	logger *slog.Logger

	mu       sync.Mutex
	segments display.Segments
	active   int
	frame    [timeinfo.DigitCount]display.Segments
	readout  string
}

func newSimDisplay(logger *slog.Logger) *simDisplay {
	return &simDisplay{logger: logger.With("component", "sim-display"), active: -1}
}

func (d *simDisplay) Enable(pos int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = pos
	return nil
}

func (d *simDisplay) Disable(pos int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active != pos {
		return nil
	}
	d.frame[pos] = d.segments
	d.active = -1

	if pos == timeinfo.DigitCount-1 {
		if r := d.render(); r != d.readout {
			d.readout = r
			d.logger.Debug("display", "readout", r)
		}
	}
	return nil
}

func (d *simDisplay) SetSegments(s display.Segments) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.segments = s
	if d.active >= 0 {
		d.frame[d.active] = s
	}
	return nil
}

// render prints position 9 first, matching the board where each tens digit
// sits left of its ones digit: minutes, hours, days, months, years.
func (d *simDisplay) render() string {
	out := make([]rune, 0, timeinfo.DigitCount)
	for i := timeinfo.DigitCount - 1; i >= 0; i-- {
		out = append(out, d.frame[i].Rune())
	}
	return string(out)
}

// Readout returns the last rendered frame.
func (d *simDisplay) Readout() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readout
}

// simIndicator logs line changes.
type simIndicator struct {
	logger *slog.Logger

	mu    sync.Mutex
	lines indicator.Lines
}

func newSimIndicator(logger *slog.Logger) *simIndicator {
	return &simIndicator{logger: logger.With("component", "sim-indicator")}
}

func (s *simIndicator) Set(line int, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bit := indicator.Lines(1) << line
	was := s.lines&bit != 0
	if on {
		s.lines |= bit
	} else {
		s.lines &^= bit
	}
	if was != on {
		s.logger.Debug("indicator", "line", line, "on", on, "lines", s.lines.String())
	}
	return nil
}

var (
	_ display.Driver   = (*simDisplay)(nil)
	_ indicator.Driver = (*simIndicator)(nil)
)
