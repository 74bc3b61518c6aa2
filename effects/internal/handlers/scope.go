package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	effectmodel "github.com/on-the-ground/effect_ive_cookbook/effects/internal/model"
	"go.uber.org/zap"
)

// effectScope owns the worker goroutines of one installed handler.
//
// Senders hold the read lock while enqueueing, so once Close has taken the
// write lock no message can slip past the final drain.
type effectScope[T any] struct {
	EffectId   string
	ctx        context.Context
	cancel     context.CancelFunc
	dispatcher WorkerDispatcher[T]
	teardown   func()

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func newEffectScope[T any](
	ctx context.Context,
	newDispatcher func(context.Context) WorkerDispatcher[T],
	teardown func(),
) *effectScope[T] {
	ctx, cancel := context.WithCancel(ctx)
	return &effectScope[T]{
		EffectId:   uuid.New().String(),
		ctx:        ctx,
		cancel:     cancel,
		dispatcher: newDispatcher(ctx),
		teardown:   teardown,
	}
}

// Close stops the workers, handles every message already enqueued, and runs
// the teardown. It is safe to call more than once.
func (es *effectScope[T]) Close() {
	es.closeOnce.Do(func() {
		es.cancel()

		es.mu.Lock()
		es.closed = true
		es.mu.Unlock()

		<-es.dispatcher.Done()
		es.dispatcher.Drain()
		es.teardown()
		zap.L().Debug("effect scope closed", zap.String("effectId", es.EffectId))
	})
}

// send enqueues msg unless the caller's context or the scope ends first.
func (es *effectScope[T]) send(ctx context.Context, msg T) error {
	es.mu.RLock()
	defer es.mu.RUnlock()

	if es.closed {
		return effectmodel.ErrHandlerClosed
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-es.ctx.Done():
		return effectmodel.ErrHandlerClosed
	case es.dispatcher.GetChannelOf(msg) <- msg:
		return nil
	}
}
