package display

import (
	"context"
	"log/slog"
	"time"

	"github.com/timeheart/lumina/pkg/clockstate"
	"github.com/timeheart/lumina/pkg/log"
	"github.com/timeheart/lumina/pkg/metrics"
	"github.com/timeheart/lumina/pkg/rtc"
	"github.com/timeheart/lumina/pkg/timeinfo"
)

// DefaultDwell is how long each digit stays lit per frame.
const DefaultDwell = 100 * time.Microsecond

// Sleeper pauses the calling goroutine.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleepFunc adapts a function to Sleeper.
type SleepFunc func(d time.Duration)

// Sleep calls f(d).
func (f SleepFunc) Sleep(d time.Duration) { f(d) }

// Config holds scheduler settings.
type Config struct {
	// Dwell is the per-digit hold time.
	Dwell time.Duration

	// Sleeper implements the dwell. Defaults to time.Sleep.
	Sleeper Sleeper

	// Logger receives operational logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Events receives appliance events. Nil disables recording.
	Events log.Logger

	// RunID tags recorded events.
	RunID string

	// Now timestamps recorded events. Defaults to time.Now.
	Now func() time.Time

	// Metrics receives frame and read counters. May be nil.
	Metrics *metrics.Metrics
}

// DefaultConfig returns the reference settings.
func DefaultConfig() Config {
	return Config{
		Dwell:   DefaultDwell,
		Sleeper: SleepFunc(time.Sleep),
	}
}

// Scheduler refreshes the shared state and multiplexes the display.
// It is the only writer of the shared sample.
type Scheduler struct {
	state   *clockstate.State
	source  rtc.TimeSource
	driver  Driver
	dwell   time.Duration
	sleeper Sleeper
	logger  *slog.Logger
	events  log.Logger
	runID   string
	now     func() time.Time
	metrics *metrics.Metrics

	// Only touched by the loop goroutine.
	shown      timeinfo.Digits
	haveShown  bool
	readFailed bool
}

// NewScheduler creates a scheduler that reads src into state and renders
// on driver.
func NewScheduler(state *clockstate.State, src rtc.TimeSource, driver Driver, cfg Config) *Scheduler {
	if cfg.Sleeper == nil {
		cfg.Sleeper = SleepFunc(time.Sleep)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scheduler{
		state:   state,
		source:  src,
		driver:  driver,
		dwell:   cfg.Dwell,
		sleeper: cfg.Sleeper,
		logger:  cfg.Logger.With("component", "display"),
		events:  log.OrNoop(cfg.Events),
		runID:   cfg.RunID,
		now:     cfg.Now,
		metrics: cfg.Metrics,
	}
}

// Run renders frames until ctx is cancelled and returns ctx.Err().
// There is no pacing between frames.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("display loop started", "dwell", s.dwell)
	s.lifecycle("start", s.dwell.String())

	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info("display loop stopped", "reason", err)
			s.lifecycle("stop", err.Error())
			return err
		}
		s.Frame(ctx)
	}
}

// Frame refreshes the shared state once and shows all ten digits.
// It returns the interval that was displayed.
func (s *Scheduler) Frame(ctx context.Context) timeinfo.Elapsed {
	elapsed, err := s.state.Refresh(ctx, s.source)
	s.noteRead(err)

	digits := timeinfo.DigitsOf(elapsed)
	if !s.haveShown || digits != s.shown {
		s.shown, s.haveShown = digits, true
		s.metrics.SetElapsed(elapsed)
		s.events.Log(log.Event{
			Timestamp: s.now(),
			RunID:     s.runID,
			Source:    log.SourceDisplay,
			Category:  log.CategoryReading,
			Reading: &log.ReadingEvent{
				Sample:  s.state.Current(),
				Elapsed: elapsed,
			},
		})
	}

	for pos, digit := range digits {
		s.show(pos, SegmentsFor(digit))
	}
	s.metrics.FrameRendered()

	return elapsed
}

// show lights one position for one dwell.
func (s *Scheduler) show(pos int, seg Segments) {
	if err := s.driver.Enable(pos); err != nil {
		s.logger.Debug("select enable failed", "position", pos, "error", err)
	}
	if err := s.driver.SetSegments(seg); err != nil {
		s.logger.Debug("segment write failed", "position", pos, "error", err)
	}
	s.sleeper.Sleep(s.dwell)
	if err := s.driver.Disable(pos); err != nil {
		s.logger.Debug("select disable failed", "position", pos, "error", err)
	}
}

// noteRead logs the first failure of a run of failed reads and the
// recovery after it, and counts every failure.
func (s *Scheduler) noteRead(err error) {
	if err != nil {
		s.metrics.RTCReadFailed()
		if s.readFailed {
			return
		}
		s.readFailed = true
		s.logger.Warn("time source read failed, keeping last sample", "error", err)
		s.events.Log(log.Event{
			Timestamp: s.now(),
			RunID:     s.runID,
			Source:    log.SourceRTC,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Message: err.Error(), Context: "read"},
		})
		return
	}

	if s.readFailed {
		s.readFailed = false
		s.logger.Info("time source recovered")
		s.events.Log(log.Event{
			Timestamp: s.now(),
			RunID:     s.runID,
			Source:    log.SourceRTC,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Message: "recovered", Context: "read", Recovered: true},
		})
	}
}

func (s *Scheduler) lifecycle(action, detail string) {
	s.events.Log(log.Event{
		Timestamp: s.now(),
		RunID:     s.runID,
		Source:    log.SourceDisplay,
		Category:  log.CategoryLifecycle,
		Lifecycle: &log.LifecycleEvent{Action: action, Detail: detail},
	})
}
