package loader

import (
	"fmt"

	"github.com/timeheart/lumina/pkg/timeinfo"
)

// VectorFile is one YAML file of calendar test vectors.
type VectorFile struct {
	// Name labels the file in test output.
	Name string `yaml:"name"`

	// Anniversary applies to every case that does not set its own.
	Anniversary *timeinfo.Sample `yaml:"anniversary,omitempty"`

	// Cases are the vectors in file order.
	Cases []Vector `yaml:"cases"`

	// Path is the file the vectors came from (empty when parsed from bytes).
	Path string `yaml:"-"`
}

// Vector is one expectation about a current/anniversary pair.
type Vector struct {
	// ID identifies the vector; unique within a file.
	ID string `yaml:"id"`

	// Description explains what the vector exercises.
	Description string `yaml:"description,omitempty"`

	// Anniversary overrides the file's anniversary.
	Anniversary *timeinfo.Sample `yaml:"anniversary,omitempty"`

	// Current is the time source reading.
	Current timeinfo.Sample `yaml:"current"`

	// Elapsed, if set, is the expected interval.
	Elapsed *timeinfo.Elapsed `yaml:"elapsed,omitempty"`

	// Match, if set, is the expected anniversary match.
	Match *bool `yaml:"match,omitempty"`

	// Digits, if set, are the expected display digits, position 0 first.
	Digits []int `yaml:"digits,omitempty"`
}

// LoadError provides details about a vector file loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Case is the ID of the offending vector, if any.
	Case string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Case != "" {
		msg = fmt.Sprintf("case %q: %s", e.Case, msg)
	}
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
