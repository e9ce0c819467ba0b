// Package retry provides one parameterized retry policy shared by the upstream
// fetchers and the batch writer
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// DelayFunc returns the wait after the given failed attempt (1-based)
type DelayFunc func(attempt int) time.Duration

// SleepFunc blocks for d or until ctx ends
type SleepFunc func(ctx context.Context, d time.Duration) error

// ErrExhausted marks a policy that ran out of attempts
var ErrExhausted = errors.New("retry: attempts exhausted")

// ExhaustedError carries the attempt count and the last failure
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry: gave up after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap exposes the last failure
func (e *ExhaustedError) Unwrap() error { return e.Last }

// Is lets errors.Is(err, ErrExhausted) match
func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

// Policy describes how often and how patiently an operation is retried
type Policy struct {
	// MaxAttempts bounds total attempts; 0 retries until success or a fatal error
	MaxAttempts int

	// Delay computes the wait between attempts; nil means no wait
	Delay DelayFunc

	// Retryable classifies failures; nil treats every failure as transient
	Retryable func(error) bool

	// Sleep is the wait seam; nil uses Sleep
	Sleep SleepFunc

	// OnRetry observes each failure that will be retried
	OnRetry func(attempt int, wait time.Duration, err error)
}

// Do runs fn until it succeeds, fails fatally, exhausts the policy, or ctx ends.
// A finished ctx always wins over retry and is returned as ctx.Err()
func (p Policy) Do(ctx context.Context, fn func(context.Context) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return &ExhaustedError{Attempts: attempt, Last: err}
		}

		var wait time.Duration
		if p.Delay != nil {
			wait = p.Delay(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, wait, err)
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Sleep waits for d unless ctx ends first
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fixed waits d between every attempt
func Fixed(d time.Duration) DelayFunc {
	return func(int) time.Duration { return d }
}

// Compound grows the wait as d = d*(d+1) units starting at one unit: 1, 2, 6, 42, 1806, ...
// It saturates at the largest representable duration instead of overflowing
func Compound(unit time.Duration) DelayFunc {
	if unit <= 0 {
		unit = time.Second
	}
	limit := int64(math.MaxInt64) / int64(unit)
	return func(attempt int) time.Duration {
		d := int64(1)
		for i := 1; i < attempt; i++ {
			if d > 0 && d+1 > limit/d {
				return time.Duration(math.MaxInt64)
			}
			d *= d + 1
		}
		return time.Duration(d) * unit
	}
}
