package log

import (
	"time"

	"github.com/google/uuid"

	"github.com/timeheart/lumina/pkg/timeinfo"
)

// Event represents an appliance event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID identifies the process run that produced the event (UUID).
	RunID string `cbor:"2,keyasint"`

	// Source is the component that produced the event.
	Source Source `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	Reading   *ReadingEvent   `cbor:"10,keyasint,omitempty"`
	Phase     *PhaseEvent     `cbor:"11,keyasint,omitempty"`
	Lifecycle *LifecycleEvent `cbor:"12,keyasint,omitempty"`
	Error     *ErrorEventData `cbor:"13,keyasint,omitempty"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Source identifies the component that produced an event.
type Source uint8

const (
	// SourceSystem is the process itself (startup, shutdown).
	SourceSystem Source = 0
	// SourceDisplay is the display scheduler.
	SourceDisplay Source = 1
	// SourceIndicator is the indicator controller.
	SourceIndicator Source = 2
	// SourceRTC is the time source.
	SourceRTC Source = 3
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceSystem:
		return "SYSTEM"
	case SourceDisplay:
		return "DISPLAY"
	case SourceIndicator:
		return "INDICATOR"
	case SourceRTC:
		return "RTC"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryReading indicates a new displayed interval.
	CategoryReading Category = 0
	// CategoryPhase indicates an indicator phase change.
	CategoryPhase Category = 1
	// CategoryLifecycle indicates a loop start or stop.
	CategoryLifecycle Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryReading:
		return "READING"
	case CategoryPhase:
		return "PHASE"
	case CategoryLifecycle:
		return "LIFECYCLE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ReadingEvent captures the sample behind a change of the displayed interval.
type ReadingEvent struct {
	// Sample is the time source reading.
	Sample timeinfo.Sample `cbor:"1,keyasint"`

	// Elapsed is the interval computed from Sample.
	Elapsed timeinfo.Elapsed `cbor:"2,keyasint"`
}

// PhaseEvent captures an indicator phase transition.
type PhaseEvent struct {
	// OldPhase is the previous phase (may be empty).
	OldPhase string `cbor:"1,keyasint,omitempty"`

	// NewPhase is the new phase.
	NewPhase string `cbor:"2,keyasint"`

	// Waveform is the waveform being played.
	Waveform string `cbor:"3,keyasint"`

	// Matched is the anniversary match result that selected the waveform.
	Matched bool `cbor:"4,keyasint,omitempty"`
}

// LifecycleEvent marks a component starting or stopping.
type LifecycleEvent struct {
	// Action is what happened, e.g. "start" or "stop".
	Action string `cbor:"1,keyasint"`

	// Detail is free-form context (configuration summary, stop reason).
	Detail string `cbor:"2,keyasint,omitempty"`
}

// ErrorEventData captures errors from any component.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`

	// Recovered marks the first success after a run of failures.
	Recovered bool `cbor:"3,keyasint,omitempty"`
}
