// Package task models sequential programs as plain functions of a context.
//
// A Task suspends only at explicit points (sleeps, nested tasks, effects
// performed through the context). Cancelling the context interrupts the
// fiber at its next suspension point.
package task

import (
	"context"
	"time"

	"github.com/on-the-ground/effect_ive_cookbook/effects/cause"
	"github.com/on-the-ground/effect_ive_cookbook/effects/duration"
	"github.com/on-the-ground/effect_ive_cookbook/effects/fiber"
	"github.com/on-the-ground/effect_ive_cookbook/effects/result"
)

// Task is a program producing an A or failing with an error.
type Task[A any] func(context.Context) (A, error)

func Succeed[A any](a A) Task[A] {
	return func(context.Context) (A, error) { return a, nil }
}

func Fail[A any](err error) Task[A] {
	return func(context.Context) (A, error) {
		var zero A
		return zero, err
	}
}

// Sync lifts a side-effecting function that cannot fail.
func Sync[A any](fn func() A) Task[A] {
	return func(context.Context) (A, error) { return fn(), nil }
}

func Map[A, B any](t Task[A], f func(A) B) Task[B] {
	return func(ctx context.Context) (B, error) {
		a, err := t(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a), nil
	}
}

func FlatMap[A, B any](t Task[A], f func(A) Task[B]) Task[B] {
	return func(ctx context.Context) (B, error) {
		a, err := t(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a)(ctx)
	}
}

// As replaces the success value of t with b.
func As[A, B any](t Task[A], b B) Task[B] {
	return Map(t, func(A) B { return b })
}

// Tap runs f on the success value and keeps the value.
func Tap[A any](t Task[A], f func(context.Context, A)) Task[A] {
	return func(ctx context.Context) (A, error) {
		a, err := t(ctx)
		if err == nil {
			f(ctx, a)
		}
		return a, err
	}
}

// OrElse recovers failures of t with the task orElse builds. Interruptions
// are not failures and pass through.
func OrElse[A any](t Task[A], orElse func(error) Task[A]) Task[A] {
	return func(ctx context.Context) (A, error) {
		a, err := t(ctx)
		if err == nil || cause.IsInterruption(err) {
			return a, err
		}
		return orElse(err)(ctx)
	}
}

// Sleep suspends the fiber for d. Sleeping for duration.Infinity waits until
// the fiber is interrupted.
func Sleep(d duration.Duration) Task[struct{}] {
	return func(ctx context.Context) (struct{}, error) {
		if d.IsInfinite() {
			<-ctx.Done()
			return struct{}{}, cause.Interrupted(ctx)
		}
		timer := time.NewTimer(d.ToTime())
		defer timer.Stop()
		select {
		case <-timer.C:
			return struct{}{}, nil
		case <-ctx.Done():
			return struct{}{}, cause.Interrupted(ctx)
		}
	}
}

// Interrupt interrupts the current fiber.
func Interrupt[A any]() Task[A] {
	return func(ctx context.Context) (A, error) {
		var zero A
		return zero, &cause.InterruptedError{Fiber: fiber.FromContext(ctx)}
	}
}

// Either reifies the failure of t. It fails only when t was interrupted.
func Either[A any](t Task[A]) Task[result.Either[error, A]] {
	return func(ctx context.Context) (result.Either[error, A], error) {
		a, err := catch(ctx, t)
		switch {
		case err == nil:
			return result.Right[error](a), nil
		case cause.IsInterruption(err):
			return result.Either[error, A]{}, err
		}
		return result.Left[error, A](err), nil
	}
}

// Exit reifies the whole outcome of t, interruptions and defects included.
func Exit[A any](t Task[A]) Task[result.Exit[A]] {
	return func(ctx context.Context) (result.Exit[A], error) {
		return exitOf(ctx, t), nil
	}
}

// Run runs t on a fresh root fiber. A failed run returns a
// *cause.FiberFailure.
func Run[A any](ctx context.Context, t Task[A]) (A, error) {
	exit := RunExit(ctx, t)
	a, _ := exit.Value()
	return a, exit.Err()
}

// RunExit runs t on a fresh root fiber and returns its Exit.
func RunExit[A any](ctx context.Context, t Task[A]) result.Exit[A] {
	return exitOf(fiber.WithRoot(ctx), t)
}

func exitOf[A any](ctx context.Context, t Task[A]) result.Exit[A] {
	a, err := catch(ctx, t)
	if err != nil {
		return result.FailCause[A](cause.FromError(err, fiber.FromContext(ctx)))
	}
	return result.Succeed(a)
}

// catch runs t and turns a panic into a *cause.DefectError.
func catch[A any](ctx context.Context, t Task[A]) (a A, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &cause.DefectError{Value: r}
		}
	}()
	return t(ctx)
}
