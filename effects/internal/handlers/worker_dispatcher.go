package handlers

import (
	"context"
	"sync"

	effectmodel "github.com/on-the-ground/effect_ive_cookbook/effects/internal/model"
)

// --- common interface ---

// WorkerDispatcher routes messages to the worker goroutines that handle them.
//
// Workers stop when the context given at construction is cancelled, after
// handling whatever is still buffered. Done is closed once every worker has
// returned. Drain handles stragglers that were enqueued after the workers
// stopped; it must only be called after Done is closed.
type WorkerDispatcher[T any] interface {
	GetChannelOf(msg T) chan<- T
	Done() <-chan struct{}
	Drain()
}

type workerPool[T any] struct {
	ctx       context.Context
	effectChs []chan T
	handleFn  func(context.Context, T)
	route     func(msg T, numChs int) int
	done      chan struct{}
}

func (wp *workerPool[T]) GetChannelOf(msg T) chan<- T {
	return wp.effectChs[wp.route(msg, len(wp.effectChs))]
}

func (wp *workerPool[T]) Done() <-chan struct{} {
	return wp.done
}

func (wp *workerPool[T]) Drain() {
	for _, ch := range wp.effectChs {
		drain(wp.ctx, ch, wp.handleFn)
	}
}

func newWorkerPool[T any](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
	route func(T, int) int,
) *workerPool[T] {
	wp := &workerPool[T]{
		ctx:       ctx,
		effectChs: make([]chan T, numWorkers),
		handleFn:  handleFn,
		route:     route,
		done:      make(chan struct{}),
	}

	ready := sync.WaitGroup{}
	running := sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		ch := make(chan T, bufferSize)
		wp.effectChs[i] = ch
		ready.Add(1)
		running.Add(1)
		go func(ch chan T) {
			defer running.Done()
			ready.Done()
			for {
				select {
				case msg := <-ch:
					handleFn(ctx, msg)
				case <-ctx.Done():
					drain(ctx, ch, handleFn)
					return
				}
			}
		}(ch)
	}
	ready.Wait()

	go func() {
		running.Wait()
		close(wp.done)
	}()

	return wp
}

func drain[T any](ctx context.Context, ch chan T, handleFn func(context.Context, T)) {
	for {
		select {
		case msg := <-ch:
			handleFn(ctx, msg)
		default:
			return
		}
	}
}

// --- single queue ---

func NewSingleQueue[T any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	return newWorkerPool(ctx, 1, bufferSize, handleFn, func(T, int) int { return 0 })
}

// --- partitioned queue ---

func NewPartitionedQueue[T effectmodel.Partitionable](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	return newWorkerPool(ctx, numWorkers, bufferSize, handleFn, func(msg T, numChs int) int {
		return getIndexByHash(msg, numChs)
	})
}
