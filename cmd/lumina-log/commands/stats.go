package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/timeheart/lumina/pkg/indicator"
	"github.com/timeheart/lumina/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsBySource   map[log.Source]int
	EventsByCategory map[log.Category]int
	Runs             map[string]*RunSummary
	Errors           int
	Recoveries       int
	Celebrations     int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// RunSummary holds statistics for a single process run.
type RunSummary struct {
	FirstSeen   time.Time
	LastSeen    time.Time
	Events      int
	Readings    int
	LastElapsed string
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats, err := collectStats(reader)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func collectStats(reader *log.Reader) (*Stats, error) {
	stats := &Stats{
		EventsBySource:   make(map[log.Source]int),
		EventsByCategory: make(map[log.Category]int),
		Runs:             make(map[string]*RunSummary),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsBySource[event.Source]++
		stats.EventsByCategory[event.Category]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		run, ok := stats.Runs[event.RunID]
		if !ok {
			run = &RunSummary{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Runs[event.RunID] = run
		}
		run.Events++
		if event.Timestamp.After(run.LastSeen) {
			run.LastSeen = event.Timestamp
		}

		switch {
		case event.Reading != nil:
			run.Readings++
			run.LastElapsed = event.Reading.Elapsed.String()
		case event.Phase != nil:
			if event.Phase.NewPhase == indicator.PhaseCelebrationIntro.String() {
				stats.Celebrations++
			}
		case event.Error != nil:
			if event.Error.Recovered {
				stats.Recoveries++
			} else {
				stats.Errors++
			}
		}
	}

	return stats, nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Lumina Event Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Source:")
	for _, src := range []log.Source{log.SourceSystem, log.SourceDisplay, log.SourceIndicator, log.SourceRTC} {
		if count := stats.EventsBySource[src]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", src.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryReading, log.CategoryPhase, log.CategoryLifecycle, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Celebrations: %d\n", stats.Celebrations)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Runs: %d\n", len(stats.Runs))
	if len(stats.Runs) > 0 {
		type runInfo struct {
			id    string
			stats *RunSummary
		}
		runs := make([]runInfo, 0, len(stats.Runs))
		for id, rs := range stats.Runs {
			runs = append(runs, runInfo{id, rs})
		}
		sort.Slice(runs, func(i, j int) bool {
			return runs[i].stats.FirstSeen.Before(runs[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, r := range runs {
			duration := r.stats.LastSeen.Sub(r.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenRunID(r.id), r.stats.Events, duration)
			if r.stats.Readings > 0 {
				fmt.Fprintf(w, "           Readings: %d (last: %s)\n", r.stats.Readings, r.stats.LastElapsed)
			}
		}
	}

	if stats.Errors > 0 || stats.Recoveries > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d (recovered %d times)\n", stats.Errors, stats.Recoveries)
	}
}
