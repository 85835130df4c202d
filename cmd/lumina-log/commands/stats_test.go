package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/timeheart/lumina/pkg/log"
)

func TestCollectStats(t *testing.T) {
	reader, err := log.NewReader(createTestLogFile(t, sampleEvents()))
	if err != nil {
		t.Fatalf("failed to open log: %v", err)
	}
	defer reader.Close()

	stats, err := collectStats(reader)
	if err != nil {
		t.Fatalf("collectStats failed: %v", err)
	}

	if stats.TotalEvents != 7 {
		t.Errorf("TotalEvents = %d, want 7", stats.TotalEvents)
	}
	if stats.EventsBySource[log.SourceDisplay] != 2 {
		t.Errorf("display events = %d, want 2", stats.EventsBySource[log.SourceDisplay])
	}
	if stats.EventsByCategory[log.CategoryError] != 2 {
		t.Errorf("error events = %d, want 2", stats.EventsByCategory[log.CategoryError])
	}
	if stats.Errors != 1 || stats.Recoveries != 1 {
		t.Errorf("Errors/Recoveries = %d/%d, want 1/1", stats.Errors, stats.Recoveries)
	}
	if stats.Celebrations != 1 {
		t.Errorf("Celebrations = %d, want 1", stats.Celebrations)
	}
	if len(stats.Runs) != 2 {
		t.Fatalf("Runs = %d, want 2", len(stats.Runs))
	}

	run := stats.Runs["run-aaaa-1111"]
	if run.Events != 6 || run.Readings != 2 {
		t.Errorf("run events/readings = %d/%d, want 6/2", run.Events, run.Readings)
	}
	if run.LastElapsed != "5y 0mo 0d 0h 0m 0s" {
		t.Errorf("LastElapsed = %q", run.LastElapsed)
	}
}

func TestRunStatsOutput(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 7",
		"DISPLAY:",
		"Celebrations: 1",
		"Runs: 2",
		"[run-aaaa] 6 events",
		"Readings: 2 (last: 5y 0mo 0d 0h 0m 0s)",
		"Errors: 1 (recovered 1 times)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRunStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
