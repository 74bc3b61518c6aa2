package concurrency

import (
	"context"
	"errors"
	"sync"

	"github.com/on-the-ground/effect_ive_cookbook/effects/cause"
	"github.com/on-the-ground/effect_ive_cookbook/effects/fiber"
	"github.com/on-the-ground/effect_ive_cookbook/effects/result"
	"github.com/on-the-ground/effect_ive_cookbook/effects/task"
)

var ErrEmptyRace = errors.New("race needs at least one task")

// RaceAll runs tasks concurrently, through the supervisor when one is
// installed, and succeeds with the first success. The losers are
// interrupted and joined before RaceAll returns. When every task fails the
// race fails with a Parallel cause of all of them.
//
// Wrap the contenders with task.Either or task.Exit to let the first
// completion of any kind win.
func RaceAll[A any](tasks ...task.Task[A]) task.Task[A] {
	return func(ctx context.Context) (A, error) {
		var zero A
		if len(tasks) == 0 {
			return zero, ErrEmptyRace
		}

		raceCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		type outcome struct {
			index int
			exit  result.Exit[A]
		}
		// each contender reports exactly once, so outcomes never blocks
		outcomes := make(chan outcome, len(tasks))
		reported := make([]sync.Once, len(tasks))
		report := func(i int, exit result.Exit[A]) {
			reported[i].Do(func() { outcomes <- outcome{index: i, exit: exit} })
		}

		fiberCtxs := make([]context.Context, len(tasks))
		for i := range tasks {
			fiberCtxs[i] = fiber.Fork(raceCtx)
		}
		for i, t := range tasks {
			run := func(ctx context.Context) {
				exit, _ := task.Exit(t)(ctx)
				report(i, exit)
			}
			if err := spawn(fiberCtxs[i], run); err != nil {
				report(i, result.FailCause[A](cause.FromError(err, fiber.FromContext(fiberCtxs[i]))))
			}
		}

		causes := make([]cause.Cause, len(tasks))
		for received := 0; received < len(tasks); received++ {
			o := <-outcomes
			if v, ok := o.exit.Value(); ok {
				cancel()
				for received++; received < len(tasks); received++ {
					<-outcomes
				}
				return v, nil
			}
			causes[o.index] = o.exit.Cause()
		}
		return zero, &cause.FiberFailure{Cause: cause.Parallel(causes...)}
	}
}

// Race is RaceAll of two tasks.
func Race[A any](a, b task.Task[A]) task.Task[A] {
	return RaceAll(a, b)
}
