package commands

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/timeheart/lumina/pkg/log"
	"github.com/timeheart/lumina/pkg/timeinfo"
)

var baseTime = time.Date(2026, 5, 31, 20, 19, 58, 123456000, time.UTC)

// sampleEvents is a short run crossing into the anniversary minute.
func sampleEvents() []log.Event {
	return []log.Event{
		{
			Timestamp: baseTime,
			RunID:     "run-aaaa-1111",
			Source:    log.SourceSystem,
			Category:  log.CategoryLifecycle,
			Lifecycle: &log.LifecycleEvent{Action: "start", Detail: "dwell=100µs"},
		},
		{
			Timestamp: baseTime.Add(time.Second),
			RunID:     "run-aaaa-1111",
			Source:    log.SourceDisplay,
			Category:  log.CategoryReading,
			Reading: &log.ReadingEvent{
				Sample:  timeinfo.Sample{Seconds: 59, Minutes: 19, Hours: 20, Days: 31, Months: 5, Years: 26},
				Elapsed: timeinfo.Elapsed{Seconds: 59, Minutes: 59, Hours: 23, Days: 30, Months: 11, Years: 4},
			},
		},
		{
			Timestamp: baseTime.Add(1500 * time.Millisecond),
			RunID:     "run-aaaa-1111",
			Source:    log.SourceRTC,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Message: "i2c: nack", Context: "read"},
		},
		{
			Timestamp: baseTime.Add(2 * time.Second),
			RunID:     "run-aaaa-1111",
			Source:    log.SourceRTC,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Context: "read", Recovered: true},
		},
		{
			Timestamp: baseTime.Add(2 * time.Second),
			RunID:     "run-aaaa-1111",
			Source:    log.SourceDisplay,
			Category:  log.CategoryReading,
			Reading: &log.ReadingEvent{
				Sample:  timeinfo.Sample{Minutes: 20, Hours: 20, Days: 31, Months: 5, Years: 26},
				Elapsed: timeinfo.Elapsed{Years: 5},
			},
		},
		{
			Timestamp: baseTime.Add(3 * time.Second),
			RunID:     "run-aaaa-1111",
			Source:    log.SourceIndicator,
			Category:  log.CategoryPhase,
			Phase:     &log.PhaseEvent{OldPhase: "NORMAL", NewPhase: "CELEBRATION_INTRO", Waveform: "celebration", Matched: true},
		},
		{
			Timestamp: baseTime.Add(time.Hour),
			RunID:     "run-bbbb-2222",
			Source:    log.SourceSystem,
			Category:  log.CategoryLifecycle,
			Lifecycle: &log.LifecycleEvent{Action: "start"},
		},
	}
}

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.cbor")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}
	return path
}

func readAll(t *testing.T, path string) []log.Event {
	t.Helper()
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer reader.Close()

	var events []log.Event
	for {
		e, err := reader.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		events = append(events, e)
	}
}
