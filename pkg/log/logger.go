package log

// Logger is the interface components use to record appliance events.
// Pass nil or NoopLogger to disable recording.
type Logger interface {
	// Log records an event. Implementations must be thread-safe and must
	// not block for long; the display loop calls Log between frames.
	Log(event Event)
}

// NoopLogger discards all events.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// OrNoop returns l, or NoopLogger if l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return NoopLogger{}
	}
	return l
}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
