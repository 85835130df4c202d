// Package config loads the appliance configuration file.
//
// The file is YAML. Keys left out keep their defaults, so an empty file
// yields the reference appliance: anniversary 2021-05-31 20:20:00, 100µs
// digit dwell, 2s/750ms indicator dwells and the reference pin map.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/timeheart/lumina/pkg/display"
	"github.com/timeheart/lumina/pkg/indicator"
	"github.com/timeheart/lumina/pkg/rtc"
	"github.com/timeheart/lumina/pkg/timeinfo"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the appliance configuration.
type Config struct {
	// Anniversary is the instant the counter measures from, YY-MM-DD-hh-mm-ss.
	Anniversary timeinfo.Sample `yaml:"anniversary"`

	// Simulate reads the host clock and discards outputs instead of
	// touching hardware.
	Simulate bool `yaml:"simulate"`

	Display   DisplayConfig   `yaml:"display"`
	Indicator IndicatorConfig `yaml:"indicator"`
	RTC       RTCConfig       `yaml:"rtc"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// DisplayConfig configures the seven-segment display.
type DisplayConfig struct {
	Dwell       time.Duration `yaml:"dwell"`
	SelectPins  []string      `yaml:"select_pins"`  // position 0-9
	SegmentPins []string      `yaml:"segment_pins"` // line 0-6
}

// IndicatorConfig configures the indicator LEDs.
type IndicatorConfig struct {
	NormalDwell      time.Duration `yaml:"normal_dwell"`
	CelebrationDwell time.Duration `yaml:"celebration_dwell"`
	Pins             []string      `yaml:"pins"` // line 0-4
}

// RTCConfig configures the time source.
type RTCConfig struct {
	Bus      string        `yaml:"bus"`
	Address  uint16        `yaml:"address"`
	SpeedKHz int           `yaml:"speed_khz"`
	Timeout  time.Duration `yaml:"timeout"`  // 0 blocks forever
	Location string        `yaml:"location"` // time zone for simulation
}

// LogConfig configures logging.
type LogConfig struct {
	Level     string `yaml:"level"`      // debug, info, warn, error
	Format    string `yaml:"format"`     // text, json
	EventFile string `yaml:"event_file"` // empty disables the event log file
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Address string `yaml:"address"` // empty disables the endpoint
}

// DefaultAnniversary is 2021-05-31 20:20:00.
var DefaultAnniversary = timeinfo.Sample{Seconds: 0, Minutes: 20, Hours: 20, Days: 31, Months: 5, Years: 21}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Anniversary: DefaultAnniversary,
		Display: DisplayConfig{
			Dwell: display.DefaultDwell,
			SelectPins: []string{
				"GPIO28", "GPIO27", "GPIO26", "GPIO22", "GPIO21",
				"GPIO20", "GPIO19", "GPIO18", "GPIO17", "GPIO16",
			},
			SegmentPins: []string{"GPIO2", "GPIO3", "GPIO6", "GPIO7", "GPIO8", "GPIO9", "GPIO10"},
		},
		Indicator: IndicatorConfig{
			NormalDwell:      indicator.DefaultNormalDwell,
			CelebrationDwell: indicator.DefaultCelebrationDwell,
			Pins:             []string{"GPIO14", "GPIO15", "GPIO11", "GPIO12", "GPIO13"},
		},
		RTC: RTCConfig{
			Address:  rtc.DefaultAddress,
			SpeedKHz: 100,
			Location: "Local",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks pin counts, dwells and enumerations. The anniversary is
// not range checked.
func (c *Config) Validate() error {
	if c.Display.Dwell < 0 {
		return invalid("display.dwell", "must not be negative")
	}
	if n := len(c.Display.SelectPins); n != timeinfo.DigitCount {
		return invalid("display.select_pins", fmt.Sprintf("need %d pins, got %d", timeinfo.DigitCount, n))
	}
	if n := len(c.Display.SegmentPins); n != display.SegmentCount {
		return invalid("display.segment_pins", fmt.Sprintf("need %d pins, got %d", display.SegmentCount, n))
	}
	if c.Indicator.NormalDwell <= 0 {
		return invalid("indicator.normal_dwell", "must be positive")
	}
	if c.Indicator.CelebrationDwell <= 0 {
		return invalid("indicator.celebration_dwell", "must be positive")
	}
	if n := len(c.Indicator.Pins); n != indicator.LineCount {
		return invalid("indicator.pins", fmt.Sprintf("need %d pins, got %d", indicator.LineCount, n))
	}
	if c.RTC.Timeout < 0 {
		return invalid("rtc.timeout", "must not be negative")
	}
	if c.RTC.SpeedKHz < 0 {
		return invalid("rtc.speed_khz", "must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return invalid("rtc.location", err.Error())
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", err.Error())
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format", fmt.Sprintf("unknown format %q", c.Log.Format))
	}
	return nil
}

// Location resolves RTCConfig.Location.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.RTC.Location)
}

// ParseLevel converts a level name into an slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, field, msg)
}
