package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/on-the-ground/effect_ive_cookbook/effects"
	"github.com/on-the-ground/effect_ive_cookbook/effects/cause"
	"github.com/on-the-ground/effect_ive_cookbook/effects/fiber"
	"github.com/on-the-ground/effect_ive_cookbook/effects/result"
	"github.com/on-the-ground/effect_ive_cookbook/effects/task"
)

// Fiber is a handle on a task running on its own goroutine.
type Fiber[A any] struct {
	id     fiber.ID
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	mu    sync.Mutex
	start time.Time
	end   time.Time
	exit  result.Exit[A]
}

var _ effects.TimeBounded = (*Fiber[any])(nil)

// Fork starts t on a new fiber. When a concurrency handler is installed in
// ctx the fiber is spawned through it; otherwise it runs on a plain
// goroutine. Either way it is interrupted when ctx is cancelled.
func Fork[A any](ctx context.Context, t task.Task[A]) *Fiber[A] {
	fiberCtx, cancel := context.WithCancel(fiber.Fork(ctx))
	f := &Fiber[A]{
		id:     fiber.FromContext(fiberCtx),
		cancel: cancel,
		done:   make(chan struct{}),
		start:  time.Now(),
	}

	var started atomic.Bool
	run := func(ctx context.Context) {
		started.Store(true)
		exit, _ := task.Exit(t)(ctx)
		f.complete(exit)
	}

	// spawn also fails when fiberCtx ends while it waits, which happens once
	// a fast child has completed. Only a child that never started takes the
	// spawn error as its outcome.
	if err := spawn(fiberCtx, run); err != nil && !started.Load() {
		f.complete(result.FailCause[A](cause.FromError(err, f.id)))
	}
	return f
}

// complete records the first outcome of the fiber; later calls are no-ops.
func (f *Fiber[A]) complete(exit result.Exit[A]) {
	f.once.Do(func() {
		f.mu.Lock()
		f.exit = exit
		f.end = time.Now()
		f.mu.Unlock()
		f.cancel()
		close(f.done)
	})
}

func (f *Fiber[A]) ID() fiber.ID { return f.id }

// Await blocks until the fiber has ended and returns its Exit.
func (f *Fiber[A]) Await() result.Exit[A] {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exit
}

// Join waits for the fiber and adopts its outcome. If ctx is done first the
// joining fiber is interrupted; the joined fiber keeps running.
func (f *Fiber[A]) Join(ctx context.Context) (A, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		var zero A
		return zero, cause.Interrupted(ctx)
	}
	exit := f.Await()
	a, _ := exit.Value()
	return a, exit.Err()
}

// Interrupt cancels the fiber and waits for it to end.
func (f *Fiber[A]) Interrupt() result.Exit[A] {
	f.cancel()
	return f.Await()
}

// TimeSpan is the interval the fiber has been alive, up to now while it is
// still running.
func (f *Fiber[A]) TimeSpan() effects.TimeSpan {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.end.IsZero() {
		return effects.SpanSince(f.start)
	}
	return effects.SpanBetween(f.start, f.end)
}
