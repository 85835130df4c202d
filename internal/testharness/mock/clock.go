package mock

import (
	"sync"
	"time"
)

// Clock is a virtual clock. Sleep advances it instantly instead of blocking.
type Clock struct {
	// OnSleep, if set, is called after each Sleep with the new virtual time.
	OnSleep func(now time.Time)

	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

// NewClock creates a Clock starting at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the virtual time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances the virtual time by d and records d.
func (c *Clock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	now := c.now
	hook := c.OnSleep
	c.mu.Unlock()

	if hook != nil {
		hook(now)
	}
}

// Sleeps returns the recorded sleep durations.
func (c *Clock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]time.Duration, len(c.sleeps))
	copy(result, c.sleeps)
	return result
}
