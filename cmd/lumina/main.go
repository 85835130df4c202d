// Command lumina runs the anniversary counter appliance.
//
// It reads a real-time clock, shows the interval elapsed since a fixed
// anniversary on a ten-digit multiplexed seven-segment display and plays
// a celebration on the indicator LEDs during the anniversary minute.
//
// Usage:
//
//	lumina [flags]
//
// Flags:
//
//	-config string      Configuration file path
//	-log-level string   Log level: debug, info, warn, error (overrides config)
//	-simulate           Use the host clock and simulated outputs
//	-event-log string   CBOR event log path (overrides config)
//	-metrics string     Prometheus listen address, e.g. :9100 (overrides config)
//
// Examples:
//
//	# Run on the appliance with the reference pin map
//	lumina -config /etc/lumina/lumina.yaml
//
//	# Try it on a workstation
//	lumina -simulate -log-level debug -metrics :9100
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/timeheart/lumina/pkg/clockstate"
	"github.com/timeheart/lumina/pkg/config"
	"github.com/timeheart/lumina/pkg/display"
	"github.com/timeheart/lumina/pkg/indicator"
	"github.com/timeheart/lumina/pkg/log"
	"github.com/timeheart/lumina/pkg/metrics"
	"github.com/timeheart/lumina/pkg/rtc"
)

// Flags holds the command line. Empty values leave the config file alone.
type Flags struct {
	ConfigFile  string
	LogLevel    string
	Simulate    bool
	EventLog    string
	MetricsAddr string
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&flags.Simulate, "simulate", false, "Use the host clock and simulated outputs")
	flag.StringVar(&flags.EventLog, "event-log", "", "CBOR event log path")
	flag.StringVar(&flags.MetricsAddr, "metrics", "", "Prometheus listen address, e.g. :9100")
}

func main() {
	flag.Parse()

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lumina: %v\n", err)
		os.Exit(2)
	}

	level := new(slog.LevelVar)
	logger := setupLogging(os.Stderr, cfg.Log, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, reloader(flags, level, logger)); err != nil {
		logger.Error("lumina stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("goodbye")
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(f Flags) (*config.Config, error) {
	cfg := config.Default()
	if f.ConfigFile != "" {
		loaded, err := config.Load(f.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.Simulate {
		cfg.Simulate = true
	}
	if f.EventLog != "" {
		cfg.Log.EventFile = f.EventLog
	}
	if f.MetricsAddr != "" {
		cfg.Metrics.Address = f.MetricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging builds the process logger. level is set from lc and can be
// changed later.
func setupLogging(w io.Writer, lc config.LogConfig, level *slog.LevelVar) *slog.Logger {
	l, err := config.ParseLevel(lc.Level)
	if err != nil {
		l = slog.LevelInfo
	}
	level.Set(l)
	opts := &slog.HandlerOptions{Level: level, AddSource: l == slog.LevelDebug}

	var h slog.Handler
	if lc.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// reloader returns a task that follows the config file's log level, or nil
// when there is no file to follow or -log-level pins the level.
func reloader(f Flags, level *slog.LevelVar, logger *slog.Logger) func(context.Context) error {
	if f.ConfigFile == "" || f.LogLevel != "" {
		return nil
	}
	return func(ctx context.Context) error {
		return config.Watch(ctx, f.ConfigFile, logger, func(c *config.Config) {
			l, err := config.ParseLevel(c.Log.Level)
			if err != nil || l == level.Level() {
				return
			}
			logger.Info("log level changed", "level", l)
			level.Set(l)
		})
	}
}

// run wires the appliance and blocks until ctx is done or a loop fails.
// Changes to the config file other than the log level need a restart.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, reload func(context.Context) error) error {
	runID := log.NewRunID()
	logger = logger.With("run", runID)
	logger.Info("lumina starting",
		"anniversary", cfg.Anniversary,
		"simulate", cfg.Simulate)

	events, closeEvents, err := setupEvents(cfg.Log, logger)
	if err != nil {
		return err
	}
	defer closeEvents()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	hw, err := openHardware(cfg, logger)
	if err != nil {
		return err
	}
	defer hw.Close()

	state := clockstate.New(cfg.Anniversary, clockstate.WithHoldObserver(m.ObserveLockHold))

	dcfg := display.DefaultConfig()
	dcfg.Dwell = cfg.Display.Dwell
	dcfg.Logger = logger
	dcfg.Events = events
	dcfg.RunID = runID
	dcfg.Metrics = m
	scheduler := display.NewScheduler(state, rtc.WithTimeout(hw.Source, cfg.RTC.Timeout), hw.Display, dcfg)

	icfg := indicator.DefaultConfig()
	icfg.NormalDwell = cfg.Indicator.NormalDwell
	icfg.CelebrationDwell = cfg.Indicator.CelebrationDwell
	icfg.Logger = logger
	icfg.Events = events
	icfg.RunID = runID
	icfg.Metrics = m
	controller := indicator.NewController(state, hw.Indicator, icfg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return scheduler.Run(gctx) })
	g.Go(func() error { return controller.Run(gctx) })
	if cfg.Metrics.Address != "" {
		g.Go(func() error { return serveMetrics(gctx, cfg.Metrics.Address, reg, logger) })
	}
	if reload != nil {
		g.Go(func() error { return reload(gctx) })
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// setupEvents builds the event logger: slog always, plus a CBOR file when
// configured.
func setupEvents(lc config.LogConfig, logger *slog.Logger) (log.Logger, func(), error) {
	adapter := log.NewSlogAdapter(logger)
	if lc.EventFile == "" {
		return adapter, func() {}, nil
	}

	file, err := log.NewFileLogger(lc.EventFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open event log: %w", err)
	}
	logger.Info("recording events", "file", lc.EventFile)

	closer := func() {
		if err := file.Close(); err != nil {
			logger.Warn("closing event log", "error", err)
		}
	}
	return log.NewMultiLogger(adapter, file), closer, nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return ctx.Err()
}
