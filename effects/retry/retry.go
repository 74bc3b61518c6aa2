// Package retry re-runs failing tasks according to a Schedule.
package retry

import (
	"context"
	"math"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/on-the-ground/effect_ive_cookbook/effects/cause"
	"github.com/on-the-ground/effect_ive_cookbook/effects/duration"
	"github.com/on-the-ground/effect_ive_cookbook/effects/task"
)

// Schedule decides, after the attempt-th failure with err, whether to try
// again and how long to wait first. attempt starts at 1.
type Schedule func(attempt int, err error) (delay duration.Duration, again bool)

// Recurs retries n times without delay.
func Recurs(n int) Schedule {
	return func(attempt int, _ error) (duration.Duration, bool) {
		return duration.Zero, attempt <= n
	}
}

// Spaced retries forever, waiting d between attempts.
func Spaced(d duration.Duration) Schedule {
	return func(int, error) (duration.Duration, bool) {
		return d, true
	}
}

// Exponential retries forever, waiting base * factor^(attempt-1).
func Exponential(base duration.Duration, factor float64) Schedule {
	return func(attempt int, _ error) (duration.Duration, bool) {
		return duration.Times(base, math.Pow(factor, float64(attempt-1))), true
	}
}

// AddDelay adds extra(attempt) to every delay of s.
func AddDelay(s Schedule, extra func(attempt int) duration.Duration) Schedule {
	return func(attempt int, err error) (duration.Duration, bool) {
		d, again := s(attempt, err)
		return duration.Sum(d, extra(attempt)), again
	}
}

// Both retries only while a and b both do, waiting the longer delay.
func Both(a, b Schedule) Schedule {
	return func(attempt int, err error) (duration.Duration, bool) {
		da, againA := a(attempt, err)
		db, againB := b(attempt, err)
		return duration.Max(da, db), againA && againB
	}
}

// WhileError retries without delay as long as pred accepts the error.
func WhileError(pred func(error) bool) Schedule {
	return func(_ int, err error) (duration.Duration, bool) {
		return duration.Zero, pred(err)
	}
}

// FromBackOff drives a Schedule with b. The error is not consulted. b is
// reset on the first failure of every run, so the Schedule must not be shared
// by runs that overlap.
func FromBackOff(b backoff.BackOff) Schedule {
	var mu sync.Mutex
	return func(attempt int, _ error) (duration.Duration, bool) {
		mu.Lock()
		defer mu.Unlock()
		if attempt == 1 {
			b.Reset()
		}
		next := b.NextBackOff()
		if next == backoff.Stop {
			return duration.Zero, false
		}
		return duration.FromTime(next), true
	}
}

// Retry runs t until it succeeds or s gives up, then fails with the last
// error. Interruptions are never retried.
func Retry[A any](t task.Task[A], s Schedule) task.Task[A] {
	return func(ctx context.Context) (A, error) {
		for attempt := 1; ; attempt++ {
			a, err := t(ctx)
			if err == nil || cause.IsInterruption(err) {
				return a, err
			}
			delay, again := s(attempt, err)
			if !again {
				return a, err
			}
			if _, err := task.Sleep(delay)(ctx); err != nil {
				return a, err
			}
		}
	}
}

// RetryOrElse is Retry that hands the last error to orElse once s gives up.
func RetryOrElse[A any](t task.Task[A], s Schedule, orElse func(error) task.Task[A]) task.Task[A] {
	return func(ctx context.Context) (A, error) {
		a, err := Retry(t, s)(ctx)
		if err == nil || cause.IsInterruption(err) {
			return a, err
		}
		return orElse(err)(ctx)
	}
}
