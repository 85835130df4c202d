package rtc

import (
	"context"
	"errors"
	"time"

	"github.com/timeheart/lumina/pkg/timeinfo"
)

// ErrReadTimeout is returned by sources wrapped with WithTimeout.
var ErrReadTimeout = errors.New("rtc read timed out")

// TimeSource returns the current wall-clock sample.
type TimeSource interface {
	// Read queries the clock. Implementations may block.
	Read(ctx context.Context) (timeinfo.Sample, error)
}

// System reads the host clock.
type System struct {
	// Location is the time zone samples are taken in. Nil means time.Local.
	Location *time.Location

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// NewSystem returns a System source for loc.
func NewSystem(loc *time.Location) *System {
	return &System{Location: loc}
}

// Read converts the host time into a sample with a two-digit year.
func (s *System) Read(context.Context) (timeinfo.Sample, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return FromTime(now().In(loc)), nil
}

// FromTime converts t into a sample with a century-relative year.
func FromTime(t time.Time) timeinfo.Sample {
	return timeinfo.Sample{
		Seconds: t.Second(),
		Minutes: t.Minute(),
		Hours:   t.Hour(),
		Days:    t.Day(),
		Months:  int(t.Month()),
		Years:   t.Year() % 100,
	}
}

// timeoutSource bounds each read of an underlying source.
type timeoutSource struct {
	src     TimeSource
	timeout time.Duration

	// inflight holds a token while an underlying read is running.
	inflight chan struct{}
}

// WithTimeout wraps src so every Read fails with ErrReadTimeout after d.
// A non-positive d returns src unchanged.
//
// The underlying read is not interrupted; it keeps running in its own
// goroutine and its result is discarded. At most one underlying read runs
// at a time: while a timed-out read is still pending, Read fails with
// ErrReadTimeout immediately.
func WithTimeout(src TimeSource, d time.Duration) TimeSource {
	if d <= 0 {
		return src
	}
	return &timeoutSource{src: src, timeout: d, inflight: make(chan struct{}, 1)}
}

type readResult struct {
	sample timeinfo.Sample
	err    error
}

func (t *timeoutSource) Read(ctx context.Context) (timeinfo.Sample, error) {
	select {
	case t.inflight <- struct{}{}:
	default:
		return timeinfo.Sample{}, ErrReadTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan readResult, 1)
	go func() {
		s, err := t.src.Read(ctx)
		<-t.inflight
		done <- readResult{sample: s, err: err}
	}()

	select {
	case r := <-done:
		return r.sample, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return timeinfo.Sample{}, ErrReadTimeout
		}
		return timeinfo.Sample{}, ctx.Err()
	}
}

// Compile-time interface satisfaction checks.
var (
	_ TimeSource = (*System)(nil)
	_ TimeSource = (*timeoutSource)(nil)
)
