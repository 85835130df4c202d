// Command lumina-log views and analyzes lumina event log files.
//
// Event logs are written by lumina when log.event_file is configured or
// the -event-log flag is given.
//
// Usage:
//
//	lumina-log <command> [flags] <file.cbor>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	lumina-log view events.cbor
//
//	# View indicator phase changes only
//	lumina-log view --category phase events.cbor
//
//	# Export to CSV
//	lumina-log export --format csv -o events.csv events.cbor
//
//	# Keep one run
//	lumina-log filter --run-id 3f2a9c1e-... -o run.cbor events.cbor
//
//	# Show statistics
//	lumina-log stats events.cbor
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/timeheart/lumina/cmd/lumina-log/commands"
)

const usage = `lumina-log - Lumina Event Log Analyzer

Usage:
  lumina-log <command> [flags] <file.cbor>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "lumina-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet creates a flag set whose usage starts with header.
func newFlagSet(name, header string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, header)
		fs.PrintDefaults()
	}
	return fs
}

// logPath returns the single positional argument or exits.
func logPath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := newFlagSet("view", `lumina-log view - View log file in human-readable format

Usage:
  lumina-log view [flags] <file.cbor>

Flags:
`)
	source := fs.String("source", "", "Filter by source (system, display, indicator, rtc)")
	category := fs.String("category", "", "Filter by category (reading, phase, lifecycle, error)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	var filter commands.ViewFilter
	if *source != "" {
		s, err := commands.ParseSourceFlag(*source)
		if err != nil {
			fail(err)
		}
		filter.Source = &s
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", `lumina-log export - Export log file to JSON or CSV format

Usage:
  lumina-log export [flags] <file.cbor>

Flags:
`)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", `lumina-log filter - Filter log file and write to new file

Usage:
  lumina-log filter [flags] <file.cbor>

Flags:
`)
	output := fs.String("o", "", "Output file (required)")
	runID := fs.String("run-id", "", "Filter by run ID")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	source := fs.String("source", "", "Filter by source (system, display, indicator, rtc)")
	category := fs.String("category", "", "Filter by category (reading, phase, lifecycle, error)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, commands.FilterOptions{
		Output:    *output,
		RunID:     *runID,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
		Source:    *source,
		Category:  *category,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", n, *output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", `lumina-log stats - Show statistics about the log file

Usage:
  lumina-log stats <file.cbor>

`)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
