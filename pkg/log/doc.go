// Package log records appliance events for the anniversary counter.
//
// This package defines the Logger interface and Event types for capturing
// what the display and indicator loops did: time source readings, indicator
// phase changes, lifecycle markers and errors. It is separate from
// operational logging (slog); the event log is a compact machine-readable
// trace that the lumina-log tool can view, filter and export.
//
// # Basic Usage
//
// Components accept a Logger; pass nil or NoopLogger to disable recording:
//
//	// For development: echo events to the console via slog
//	events := log.NewSlogAdapter(slog.Default())
//
//	// On the appliance: append to a binary file
//	events, _ := log.NewFileLogger("/var/log/lumina/events.llog")
//
//	// Both
//	events := log.NewMultiLogger(console, file)
//
// # Event Types
//
// Each Event carries a timestamp, the run it belongs to, its source
// component and a category, plus exactly one payload:
//   - Reading: a time sample and the elapsed interval shown for it
//   - Phase: an indicator phase transition
//   - Lifecycle: a loop starting or stopping
//   - Error: a failure reported by a component
//
// # File Format
//
// Log files are a plain concatenation of CBOR-encoded events with integer
// keys, conventionally named with a .llog extension.
package log
