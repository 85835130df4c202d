package timeinfo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when text does not have the YY-MM-DD-hh-mm-ss form.
var ErrInvalidFormat = errors.New("invalid time sample format")

// Sample is a wall-clock reading from a time source.
type Sample struct {
	Seconds int `yaml:"seconds"`
	Minutes int `yaml:"minutes"`
	Hours   int `yaml:"hours"`
	Days    int `yaml:"days"`   // day of month, 1-31
	Months  int `yaml:"months"` // 1-12
	Years   int `yaml:"years"`  // two-digit, century-relative
}

// Elapsed is the calendar interval between two samples. Each field counts
// units of its granularity since the anniversary.
type Elapsed struct {
	Seconds int
	Minutes int
	Hours   int
	Days    int
	Months  int
	Years   int
}

// Parse reads a sample in the YY-MM-DD-hh-mm-ss form, e.g. "21-05-31-20-20-00".
// Field values are not range checked.
func Parse(s string) (Sample, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 6 {
		return Sample{}, fmt.Errorf("%w: %q: want 6 fields, got %d", ErrInvalidFormat, s, len(parts))
	}

	var v [6]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Sample{}, fmt.Errorf("%w: %q: field %d is not a number", ErrInvalidFormat, s, i+1)
		}
		v[i] = n
	}

	return Sample{
		Years:   v[0],
		Months:  v[1],
		Days:    v[2],
		Hours:   v[3],
		Minutes: v[4],
		Seconds: v[5],
	}, nil
}

// String formats the sample as YY-MM-DD-hh-mm-ss.
func (s Sample) String() string {
	return fmt.Sprintf("%02d-%02d-%02d-%02d-%02d-%02d",
		s.Years, s.Months, s.Days, s.Hours, s.Minutes, s.Seconds)
}

// MarshalText implements encoding.TextMarshaler.
func (s Sample) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sample) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// String formats the interval with unit suffixes, largest unit first.
func (e Elapsed) String() string {
	return fmt.Sprintf("%dy %dmo %dd %dh %dm %ds",
		e.Years, e.Months, e.Days, e.Hours, e.Minutes, e.Seconds)
}
