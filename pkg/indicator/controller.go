package indicator

import (
	"context"
	"log/slog"
	"time"

	"github.com/timeheart/lumina/pkg/clockstate"
	"github.com/timeheart/lumina/pkg/log"
	"github.com/timeheart/lumina/pkg/metrics"
)

// Sleeper pauses the calling goroutine.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleepFunc adapts a function to Sleeper.
type SleepFunc func(d time.Duration)

// Sleep calls f(d).
func (f SleepFunc) Sleep(d time.Duration) { f(d) }

// Config holds controller settings.
type Config struct {
	// NormalDwell paces the normal waveform.
	NormalDwell time.Duration

	// CelebrationDwell paces the celebration waveform.
	CelebrationDwell time.Duration

	// Sleeper implements dwells. Defaults to time.Sleep.
	Sleeper Sleeper

	// Logger receives operational logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Events receives phase changes. Nil disables recording.
	Events log.Logger

	// RunID tags recorded events.
	RunID string

	// Now timestamps recorded events. Defaults to time.Now.
	Now func() time.Time

	// Metrics counts played waveforms. May be nil.
	Metrics *metrics.Metrics
}

// DefaultConfig returns the reference settings.
func DefaultConfig() Config {
	return Config{
		NormalDwell:      DefaultNormalDwell,
		CelebrationDwell: DefaultCelebrationDwell,
		Sleeper:          SleepFunc(time.Sleep),
	}
}

// Controller plays indicator waveforms according to the anniversary match.
type Controller struct {
	state       *clockstate.State
	driver      Driver
	normal      Waveform
	celebration Waveform
	sleeper     Sleeper
	logger      *slog.Logger
	events      log.Logger
	runID       string
	now         func() time.Time
	metrics     *metrics.Metrics

	// Only touched by the loop goroutine.
	phase    Phase
	hasPhase bool
}

// NewController creates a controller reading state and driving driver.
func NewController(state *clockstate.State, driver Driver, cfg Config) *Controller {
	if cfg.Sleeper == nil {
		cfg.Sleeper = SleepFunc(time.Sleep)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Controller{
		state:       state,
		driver:      driver,
		normal:      NormalWaveform(cfg.NormalDwell),
		celebration: CelebrationWaveform(cfg.CelebrationDwell),
		sleeper:     cfg.Sleeper,
		logger:      cfg.Logger.With("component", "indicator"),
		events:      log.OrNoop(cfg.Events),
		runID:       cfg.RunID,
		now:         cfg.Now,
		metrics:     cfg.Metrics,
	}
}

// Run plays waveforms until ctx is cancelled and returns ctx.Err().
// Cancellation takes effect once the current waveform has finished.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("indicator loop started",
		"normal_dwell", c.normal.Steps[0].Dwell,
		"celebration_dwell", c.celebration.Steps[0].Dwell)

	for {
		if err := ctx.Err(); err != nil {
			c.logger.Info("indicator loop stopped", "reason", err)
			return err
		}
		c.Cycle()
	}
}

// Cycle samples the anniversary match once and plays the chosen waveform
// to completion. It returns the waveform played.
func (c *Controller) Cycle() Waveform {
	matched := c.state.Matches()

	wf := c.normal
	if matched {
		wf = c.celebration
	}

	for _, step := range wf.Steps {
		c.enter(step.Phase, wf.Name, matched)
		c.apply(step)
		c.sleeper.Sleep(step.Dwell)
	}
	c.metrics.WaveformPlayed(wf.Name, matched)

	return wf
}

// apply switches the lines of one step, in line order.
func (c *Controller) apply(step Step) {
	for i := 0; i < LineCount; i++ {
		if step.On.Has(i) {
			c.set(i, true)
		}
	}
	for i := 0; i < LineCount; i++ {
		if step.Off.Has(i) {
			c.set(i, false)
		}
	}
}

func (c *Controller) set(line int, on bool) {
	if err := c.driver.Set(line, on); err != nil {
		c.logger.Debug("line write failed", "line", line, "on", on, "error", err)
	}
}

// enter records a phase transition.
func (c *Controller) enter(p Phase, waveform string, matched bool) {
	if c.hasPhase && c.phase == p {
		return
	}

	var old string
	if c.hasPhase {
		old = c.phase.String()
	}
	c.phase, c.hasPhase = p, true

	if p == PhaseCelebrationIntro {
		c.logger.Info("anniversary minute, celebrating")
	}
	c.logger.Debug("phase change", "from", old, "to", p, "waveform", waveform)
	c.events.Log(log.Event{
		Timestamp: c.now(),
		RunID:     c.runID,
		Source:    log.SourceIndicator,
		Category:  log.CategoryPhase,
		Phase: &log.PhaseEvent{
			OldPhase: old,
			NewPhase: p.String(),
			Waveform: waveform,
			Matched:  matched,
		},
	})
}

// Phase returns the phase of the most recent step. It is not synchronized
// with Run; call it from the loop goroutine or after Run returns.
func (c *Controller) Phase() Phase {
	return c.phase
}
