package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/timeheart/lumina/pkg/log"
)

func exportString(t *testing.T, format string) string {
	t.Helper()
	reader, err := log.NewReader(createTestLogFile(t, sampleEvents()))
	if err != nil {
		t.Fatalf("failed to open log: %v", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if err := export(reader, format, &buf); err != nil {
		t.Fatalf("export %s failed: %v", format, err)
	}
	return buf.String()
}

func TestExportToJSONL(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(exportString(t, "jsonl")), "\n")
	if len(lines) != len(sampleEvents()) {
		t.Fatalf("expected %d lines, got %d", len(sampleEvents()), len(lines))
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &obj); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if obj["RunID"] != "run-aaaa-1111" {
		t.Errorf("RunID = %v", obj["RunID"])
	}
	reading, ok := obj["Reading"].(map[string]any)
	if !ok {
		t.Fatalf("Reading missing: %v", obj)
	}
	if reading["Sample"] != "26-05-31-20-19-59" {
		t.Errorf("Sample = %v", reading["Sample"])
	}
}

func TestExportToCSV(t *testing.T) {
	records, err := csv.NewReader(strings.NewReader(exportString(t, "csv"))).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	if len(records) != len(sampleEvents())+1 {
		t.Fatalf("expected %d records, got %d", len(sampleEvents())+1, len(records))
	}
	if records[0][0] != "timestamp" || records[0][4] != "type" {
		t.Errorf("unexpected header: %v", records[0])
	}

	reading := records[2]
	if reading[2] != "DISPLAY" || reading[4] != "reading" || reading[5] != "26-05-31-20-19-59" {
		t.Errorf("unexpected reading row: %v", reading)
	}
	phase := records[6]
	if phase[7] != "CELEBRATION_INTRO" {
		t.Errorf("unexpected phase row: %v", phase)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out.xml"))
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestRunExportToFile(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != len(sampleEvents()) {
		t.Errorf("expected %d lines, got %d", len(sampleEvents()), n)
	}
}
