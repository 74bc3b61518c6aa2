package concurrency

import (
	"context"

	"github.com/on-the-ground/effect_ive_cookbook/effects/cause"
	"github.com/on-the-ground/effect_ive_cookbook/effects/fiber"
	"github.com/on-the-ground/effect_ive_cookbook/effects/result"
	"github.com/on-the-ground/effect_ive_cookbook/effects/task"
	"golang.org/x/sync/errgroup"
)

type options struct {
	limit int
}

// Option configures ForEach.
type Option func(*options)

// Unbounded runs every item at once. It is the default.
func Unbounded() Option {
	return func(o *options) { o.limit = -1 }
}

// Bounded runs at most n items at once. Values below one mean one.
func Bounded(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.limit = n
	}
}

// ForEach runs fn for every item, each on its own fiber, and succeeds with
// the results in input order when all of them succeed.
//
// Fibers are numbered in launch order. The first fiber to fail or be
// interrupted interrupts the siblings that are still running; siblings that
// already completed keep their outcome. Any non-success fails the whole
// group with a *cause.FiberFailure carrying a Parallel cause of the
// children. A group that was only interrupted carries no failures.
func ForEach[I, A any](items []I, fn func(I) task.Task[A], opts ...Option) task.Task[[]A] {
	o := options{limit: -1}
	for _, opt := range opts {
		opt(&o)
	}

	return func(ctx context.Context) ([]A, error) {
		g, groupCtx := errgroup.WithContext(ctx)
		g.SetLimit(o.limit)

		// ids are allocated up front so they follow input order
		fiberCtxs := make([]context.Context, len(items))
		for i := range items {
			fiberCtxs[i] = fiber.Fork(groupCtx)
		}

		exits := make([]result.Exit[A], len(items))
		started := make([]bool, len(items))
		for i, item := range items {
			g.Go(func() error {
				if groupCtx.Err() != nil {
					return nil
				}
				started[i] = true
				exit, _ := task.Exit(fn(item))(fiberCtxs[i])
				exits[i] = exit
				return exit.Err()
			})
		}
		_ = g.Wait()

		values := make([]A, 0, len(items))
		causes := make([]cause.Cause, 0, len(items))
		failed := false
		for i := range items {
			if !started[i] {
				failed = true
				continue
			}
			if v, ok := exits[i].Value(); ok {
				values = append(values, v)
				continue
			}
			failed = true
			causes = append(causes, exits[i].Cause())
		}
		if failed {
			return nil, &cause.FiberFailure{Cause: cause.Parallel(causes...)}
		}
		return values, nil
	}
}

// All runs tasks concurrently; see ForEach.
func All[A any](tasks ...task.Task[A]) task.Task[[]A] {
	return ForEach(tasks, func(t task.Task[A]) task.Task[A] { return t })
}
