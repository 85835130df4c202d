package log

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/timeheart/lumina/pkg/timeinfo"
)

func readingEvent(ts time.Time, runID string) Event {
	return Event{
		Timestamp: ts,
		RunID:     runID,
		Source:    SourceDisplay,
		Category:  CategoryReading,
		Reading: &ReadingEvent{
			Sample:  timeinfo.Sample{Seconds: 10, Minutes: 5, Hours: 3, Days: 1, Months: 3, Years: 22},
			Elapsed: timeinfo.Elapsed{Seconds: 40, Minutes: 44, Hours: 6, Days: 1, Months: 9},
		},
	}
}

func phaseEvent(ts time.Time, runID string) Event {
	return Event{
		Timestamp: ts,
		RunID:     runID,
		Source:    SourceIndicator,
		Category:  CategoryPhase,
		Phase: &PhaseEvent{
			OldPhase: "NORMAL",
			NewPhase: "CELEBRATION_INTRO",
			Waveform: "celebration",
			Matched:  true,
		},
	}
}

func TestEncodeDecodeEvent(t *testing.T) {
	ts := time.Date(2026, 5, 31, 20, 20, 0, 123456789, time.UTC)
	event := readingEvent(ts, "run-1")

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(ts) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, ts)
	}
	if decoded.Source != SourceDisplay || decoded.Category != CategoryReading {
		t.Errorf("Source/Category: got %v/%v", decoded.Source, decoded.Category)
	}
	if decoded.Reading == nil {
		t.Fatal("Reading is nil")
	}
	if decoded.Reading.Elapsed != event.Reading.Elapsed {
		t.Errorf("Elapsed: got %+v, want %+v", decoded.Reading.Elapsed, event.Reading.Elapsed)
	}
	if decoded.Reading.Sample != event.Reading.Sample {
		t.Errorf("Sample: got %+v, want %+v", decoded.Reading.Sample, event.Reading.Sample)
	}
	if decoded.Phase != nil || decoded.Lifecycle != nil || decoded.Error != nil {
		t.Error("unexpected payload decoded")
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	event := phaseEvent(time.Unix(1700000000, 0).UTC(), "run-1")

	a, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	b, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("encoding the same event twice produced different bytes")
	}
}

func TestFileLoggerAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.llog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	logger.Log(readingEvent(base, "run-1"))
	logger.Log(phaseEvent(base.Add(time.Second), "run-1"))
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var got []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		got = append(got, event)
	}

	if len(got) != 2 {
		t.Fatalf("read %d events, want 2", len(got))
	}
	if got[0].Category != CategoryReading || got[1].Category != CategoryPhase {
		t.Errorf("categories: got %v, %v", got[0].Category, got[1].Category)
	}
	if got[1].Phase == nil || got[1].Phase.NewPhase != "CELEBRATION_INTRO" {
		t.Errorf("phase payload: got %+v", got[1].Phase)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.llog")

	for i := 0; i < 2; i++ {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Log(readingEvent(time.Now(), "run"))
		logger.Close()
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		if _, err := reader.Next(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		count++
	}
	if count != 2 {
		t.Errorf("read %d events after reopen, want 2", count)
	}
}

func TestFileLoggerIgnoresLogAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.llog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Close()
	logger.Log(readingEvent(time.Now(), "run"))

	if err := logger.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("file size = %d, want 0", info.Size())
	}
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.llog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				logger.Log(readingEvent(time.Now(), "run"))
			}
		}()
	}
	wg.Wait()
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		if _, err := reader.Next(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Next failed after %d events: %v", count, err)
		}
		count++
	}
	if count != 100 {
		t.Errorf("read %d events, want 100", count)
	}
}

func TestFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.llog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	logger.Log(readingEvent(base, "run-a"))
	logger.Log(phaseEvent(base.Add(1*time.Second), "run-a"))
	logger.Log(readingEvent(base.Add(2*time.Second), "run-b"))
	logger.Log(phaseEvent(base.Add(3*time.Second), "run-b"))
	logger.Close()

	indicator := SourceIndicator
	start := base.Add(2 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"All", Filter{}, 4},
		{"ByRun", Filter{RunID: "run-a"}, 2},
		{"BySource", Filter{Source: &indicator}, 2},
		{"ByTimeStart", Filter{TimeStart: &start}, 2},
		{"ByTimeEnd", Filter{TimeEnd: &start}, 2},
		{"Combined", Filter{RunID: "run-b", Source: &indicator}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			count := 0
			for {
				if _, err := reader.Next(); err == io.EOF {
					break
				} else if err != nil {
					t.Fatalf("Next failed: %v", err)
				}
				count++
			}
			if count != tt.want {
				t.Errorf("matched %d events, want %d", count, tt.want)
			}
		})
	}
}

type captureLogger struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureLogger) Log(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func TestMultiLogger(t *testing.T) {
	a, b := &captureLogger{}, &captureLogger{}
	m := NewMultiLogger(a, nil, b)

	m.Log(readingEvent(time.Now(), "run"))

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Errorf("got %d and %d events, want 1 each", len(a.events), len(b.events))
	}
}

func TestOrNoop(t *testing.T) {
	if _, ok := OrNoop(nil).(NoopLogger); !ok {
		t.Error("OrNoop(nil) is not a NoopLogger")
	}
	c := &captureLogger{}
	if OrNoop(c) != Logger(c) {
		t.Error("OrNoop changed a non-nil logger")
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := NewSlogAdapter(logger)

	adapter.Log(phaseEvent(time.Now(), "run-1"))
	adapter.Log(Event{
		Timestamp: time.Now(),
		RunID:     "run-1",
		Source:    SourceRTC,
		Category:  CategoryError,
		Error:     &ErrorEventData{Message: "i2c: nack", Context: "read"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}

	var first, second map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if first["level"] != "DEBUG" || first["new_phase"] != "CELEBRATION_INTRO" || first["source"] != "INDICATOR" {
		t.Errorf("phase record = %v", first)
	}
	if second["level"] != "WARN" || second["error_msg"] != "i2c: nack" {
		t.Errorf("error record = %v", second)
	}
}

func TestEnumStrings(t *testing.T) {
	if SourceDisplay.String() != "DISPLAY" || Source(99).String() != "UNKNOWN" {
		t.Error("Source.String mismatch")
	}
	if CategoryLifecycle.String() != "LIFECYCLE" || Category(99).String() != "UNKNOWN" {
		t.Error("Category.String mismatch")
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if len(a) != 36 || a == b {
		t.Errorf("NewRunID returned %q and %q", a, b)
	}
}
