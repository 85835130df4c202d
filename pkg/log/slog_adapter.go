package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger at Debug level, or Warn for
// error events.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as one structured record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("run_id", event.RunID),
		slog.String("source", event.Source.String()),
		slog.String("category", event.Category.String()),
	}
	level := slog.LevelDebug

	switch {
	case event.Reading != nil:
		attrs = append(attrs,
			slog.String("sample", event.Reading.Sample.String()),
			slog.String("elapsed", event.Reading.Elapsed.String()),
		)
	case event.Phase != nil:
		attrs = append(attrs,
			slog.String("waveform", event.Phase.Waveform),
			slog.String("old_phase", event.Phase.OldPhase),
			slog.String("new_phase", event.Phase.NewPhase),
			slog.Bool("matched", event.Phase.Matched),
		)
	case event.Lifecycle != nil:
		attrs = append(attrs, slog.String("action", event.Lifecycle.Action))
		if event.Lifecycle.Detail != "" {
			attrs = append(attrs, slog.String("detail", event.Lifecycle.Detail))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Recovered {
			attrs = append(attrs, slog.Bool("recovered", true))
		} else {
			level = slog.LevelWarn
		}
	}

	a.logger.LogAttrs(context.Background(), level, "event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
