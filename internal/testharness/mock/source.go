package mock

import (
	"context"
	"sync"

	"github.com/timeheart/lumina/pkg/timeinfo"
)

// Source is a scripted time source.
//
// Each Read returns the next queued sample; once the queue is drained the
// last sample is repeated. A queued error is returned instead of a sample
// for one read.
type Source struct {
	// OnRead, if set, is called at the start of every Read.
	OnRead func()

	mu      sync.Mutex
	queue   []step
	last    timeinfo.Sample
	reads   int
	blockCh chan struct{}
}

type step struct {
	sample timeinfo.Sample
	err    error
}

// NewSource creates a Source that returns samples in order.
func NewSource(samples ...timeinfo.Sample) *Source {
	s := &Source{}
	for _, sample := range samples {
		s.queue = append(s.queue, step{sample: sample})
	}
	return s
}

// Push queues sample for a later read.
func (s *Source) Push(sample timeinfo.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, step{sample: sample})
}

// Fail queues err for a later read.
func (s *Source) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, step{err: err})
}

// Set replaces the queue so every read returns sample.
func (s *Source) Set(sample timeinfo.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
	s.last = sample
}

// Block makes reads hang until Unblock or until their context is done.
func (s *Source) Block() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blockCh == nil {
		s.blockCh = make(chan struct{})
	}
}

// Unblock releases blocked reads.
func (s *Source) Unblock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blockCh != nil {
		close(s.blockCh)
		s.blockCh = nil
	}
}

// Reads returns how many times Read was called.
func (s *Source) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Read returns the next scripted result.
func (s *Source) Read(ctx context.Context) (timeinfo.Sample, error) {
	if s.OnRead != nil {
		s.OnRead()
	}

	s.mu.Lock()
	s.reads++
	block := s.blockCh
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return timeinfo.Sample{}, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return s.last, nil
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	if next.err != nil {
		return timeinfo.Sample{}, next.err
	}
	s.last = next.sample
	return next.sample, nil
}
