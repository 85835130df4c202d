// Package commands implements the lumina-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/timeheart/lumina/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Source   *log.Source
	Category *log.Category
}

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [run:id] SOURCE CATEGORY
	ts := event.Timestamp.UTC().Format(timestampLayout)
	fmt.Fprintf(w, "%s [run:%s] %-9s %s\n", ts, shortenRunID(event.RunID), event.Source.String(), event.Category.String())

	switch {
	case event.Reading != nil:
		fmt.Fprintf(w, "  Sample:  %s\n", event.Reading.Sample)
		fmt.Fprintf(w, "  Elapsed: %s\n", event.Reading.Elapsed)
	case event.Phase != nil:
		formatPhaseDetails(w, event.Phase)
	case event.Lifecycle != nil:
		fmt.Fprintf(w, "  Action: %s\n", event.Lifecycle.Action)
		if event.Lifecycle.Detail != "" {
			fmt.Fprintf(w, "  Detail: %s\n", event.Lifecycle.Detail)
		}
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenRunID returns the first 8 characters of the run ID.
func shortenRunID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatPhaseDetails(w io.Writer, p *log.PhaseEvent) {
	if p.OldPhase != "" {
		fmt.Fprintf(w, "  %s -> %s\n", p.OldPhase, p.NewPhase)
	} else {
		fmt.Fprintf(w, "  -> %s\n", p.NewPhase)
	}
	fmt.Fprintf(w, "  Waveform: %s (match: %t)\n", p.Waveform, p.Matched)
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	if e.Recovered {
		fmt.Fprintln(w, "  Recovered")
	}
	if e.Message != "" {
		fmt.Fprintf(w, "  Message: %s\n", e.Message)
	}
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
}

// eventType labels the payload of event.
func eventType(event log.Event) string {
	switch {
	case event.Reading != nil:
		return "reading"
	case event.Phase != nil:
		return "phase"
	case event.Lifecycle != nil:
		return "lifecycle"
	case event.Error != nil:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSourceFlag parses a source string from command-line flag (case-insensitive).
func ParseSourceFlag(s string) (log.Source, error) {
	return parseSource(s)
}

func parseSource(s string) (log.Source, error) {
	switch strings.ToLower(s) {
	case "system":
		return log.SourceSystem, nil
	case "display":
		return log.SourceDisplay, nil
	case "indicator":
		return log.SourceIndicator, nil
	case "rtc":
		return log.SourceRTC, nil
	default:
		return 0, fmt.Errorf("invalid source: %s (must be system, display, indicator, or rtc)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "reading":
		return log.CategoryReading, nil
	case "phase":
		return log.CategoryPhase, nil
	case "lifecycle":
		return log.CategoryLifecycle, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be reading, phase, lifecycle, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, log.Filter{
		Source:   filter.Source,
		Category: filter.Category,
	})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
