package testkit

import (
	"context"
	"sync"
	"time"
)

// Sleeper records requested waits instead of blocking. It still reports a
// done context so cancellation paths run
type Sleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

// Sleep has the signature of the retry and pagination sleep seams
func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

// Waits returns the recorded durations in call order
func (s *Sleeper) Waits() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.waits))
	copy(out, s.waits)
	return out
}

// Total sums the recorded waits
func (s *Sleeper) Total() time.Duration {
	var sum time.Duration
	for _, d := range s.Waits() {
		sum += d
	}
	return sum
}
