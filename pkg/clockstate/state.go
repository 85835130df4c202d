// Package clockstate holds the time sample shared by the display and
// indicator loops.
//
// The current sample is only reachable while holding the state's lock. The
// anniversary is fixed at construction and read without locking. Callers
// keep the lock for a time source query plus pure arithmetic, never across
// a sleep or an output write.
package clockstate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/timeheart/lumina/pkg/rtc"
	"github.com/timeheart/lumina/pkg/timeinfo"
)

// State is the shared clock state.
type State struct {
	anniversary timeinfo.Sample

	mu      sync.Mutex
	current timeinfo.Sample

	held   atomic.Bool
	now    func() time.Time
	onHold func(time.Duration)
}

// Option configures a State.
type Option func(*State)

// WithHoldObserver registers fn to receive the duration of every lock hold.
// fn runs after the lock is released.
func WithHoldObserver(fn func(time.Duration)) Option {
	return func(s *State) {
		s.onHold = fn
	}
}

// WithClock sets the clock used to measure lock holds.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		s.now = now
	}
}

// New creates a State for anniversary. The current sample starts zeroed.
func New(anniversary timeinfo.Sample, opts ...Option) *State {
	s := &State{
		anniversary: anniversary,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Anniversary returns the anniversary sample.
func (s *State) Anniversary() timeinfo.Sample {
	return s.anniversary
}

// Refresh queries src under the lock, stores the sample and returns the
// interval elapsed since the anniversary.
//
// If src fails the stored sample is kept and the interval is computed from
// it; the error is returned alongside.
func (s *State) Refresh(ctx context.Context, src rtc.TimeSource) (timeinfo.Elapsed, error) {
	start := s.lock()
	sample, err := src.Read(ctx)
	if err == nil {
		s.current = sample
	}
	elapsed := timeinfo.Compute(s.current, s.anniversary)
	s.unlock(start)

	return elapsed, err
}

// Matches reports whether the stored sample is within the anniversary minute.
func (s *State) Matches() bool {
	start := s.lock()
	match := timeinfo.AnniversaryMatch(s.current, s.anniversary)
	s.unlock(start)

	return match
}

// Current returns a copy of the stored sample.
func (s *State) Current() timeinfo.Sample {
	start := s.lock()
	cur := s.current
	s.unlock(start)

	return cur
}

// Held reports whether some goroutine holds the lock right now.
// It is meant for instrumented drivers in tests.
func (s *State) Held() bool {
	return s.held.Load()
}

func (s *State) lock() time.Time {
	s.mu.Lock()
	s.held.Store(true)
	return s.now()
}

func (s *State) unlock(start time.Time) {
	held := s.now().Sub(start)
	s.held.Store(false)
	s.mu.Unlock()

	if s.onHold != nil {
		s.onHold(held)
	}
}
