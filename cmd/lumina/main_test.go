package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeheart/lumina/pkg/config"
	"github.com/timeheart/lumina/pkg/display"
	"github.com/timeheart/lumina/pkg/indicator"
	"github.com/timeheart/lumina/pkg/timeinfo"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(Flags{})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumina.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\nmetrics:\n  address: \":9000\"\n"), 0o600))

	cfg, err := loadConfig(Flags{
		ConfigFile: path,
		LogLevel:   "debug",
		Simulate:   true,
		EventLog:   "/tmp/events.cbor",
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Simulate)
	assert.Equal(t, "/tmp/events.cbor", cfg.Log.EventFile)
	assert.Equal(t, ":9000", cfg.Metrics.Address, "file value kept without flag")
}

func TestLoadConfigRejectsBadFlag(t *testing.T) {
	_, err := loadConfig(Flags{LogLevel: "chatty"})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestSetupLoggingFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogging(&buf, config.LogConfig{Level: "info", Format: "json"}, new(slog.LevelVar))
	logger.Info("hello", "k", 1)
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, `"msg":"hello"`)
	assert.NotContains(t, out, "hidden")
}

func TestSimDisplayReadout(t *testing.T) {
	var buf bytes.Buffer
	d := newSimDisplay(setupLogging(&buf, config.LogConfig{Level: "debug", Format: "text"}, new(slog.LevelVar)))

	// 01y 02mo 03d 04h 05m, rendered position 0 first.
	digits := timeinfo.DigitsOf(timeinfo.Elapsed{Years: 1, Months: 2, Days: 3, Hours: 4, Minutes: 5})
	for pos, v := range digits {
		require.NoError(t, d.Enable(pos))
		require.NoError(t, d.SetSegments(display.SegmentsFor(v)))
		require.NoError(t, d.Disable(pos))
	}

	assert.Equal(t, "0504030201", d.Readout())
	assert.Equal(t, 1, strings.Count(buf.String(), "readout="))

	// Same frame again logs nothing new.
	for pos, v := range digits {
		_ = d.Enable(pos)
		_ = d.SetSegments(display.SegmentsFor(v))
		_ = d.Disable(pos)
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "readout="))
}

func TestSimIndicatorLogsChanges(t *testing.T) {
	var buf bytes.Buffer
	ind := newSimIndicator(setupLogging(&buf, config.LogConfig{Level: "debug", Format: "text"}, new(slog.LevelVar)))

	require.NoError(t, ind.Set(0, true))
	require.NoError(t, ind.Set(0, true))
	require.NoError(t, ind.Set(2, true))
	require.NoError(t, ind.Set(0, false))

	assert.Equal(t, indicator.Line2, ind.lines)
	assert.Equal(t, 3, strings.Count(buf.String(), "msg=indicator"))
}

func TestOpenSimulation(t *testing.T) {
	cfg := config.Default()
	cfg.Simulate = true
	cfg.RTC.Location = "UTC"

	var buf bytes.Buffer
	hw, err := openHardware(cfg, setupLogging(&buf, cfg.Log, new(slog.LevelVar)))
	require.NoError(t, err)
	defer hw.Close()

	assert.NotNil(t, hw.Source)
	assert.IsType(t, &simDisplay{}, hw.Display)
	assert.IsType(t, &simIndicator{}, hw.Indicator)
}

func TestSetupLoggingLevelVar(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	logger := setupLogging(&buf, config.LogConfig{Level: "warn", Format: "text"}, level)

	logger.Info("quiet")
	level.Set(slog.LevelInfo)
	logger.Info("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestReloader(t *testing.T) {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Nil(t, reloader(Flags{}, level, logger), "no config file")
	assert.Nil(t, reloader(Flags{ConfigFile: "x.yaml", LogLevel: "info"}, level, logger), "level pinned by flag")

	path := filepath.Join(t.TempDir(), "lumina.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	reload := reloader(Flags{ConfigFile: path}, level, logger)
	require.NotNil(t, reload)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = reload(ctx) }()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("log: {level: error}\n"), 0o600)
		return level.Level() == slog.LevelError
	}, 5*time.Second, 50*time.Millisecond)
}
