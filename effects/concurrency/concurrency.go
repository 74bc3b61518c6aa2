package concurrency

import (
	"context"
	"sync"

	"github.com/on-the-ground/effect_ive_cookbook/effects"
	effectmodel "github.com/on-the-ground/effect_ive_cookbook/effects/internal/model"
	"github.com/on-the-ground/effect_ive_cookbook/effects/log"
)

// WithEffectHandler installs the concurrency effect handler, a supervisor
// for every fiber spawned through Effect or Fork under ctx.
//
//   - Children run on contexts derived from the spawning caller, so they see
//     the caller's handlers and are interrupted with it.
//   - Cancelling ctx interrupts every child still running.
//   - The teardown joins every child before returning.
//
// The supervisor reports through the log effect, so a log handler must be
// installed above it.
func WithEffectHandler(
	ctx context.Context,
	bufferSize int,
) (context.Context, func() context.Context) {
	sv := &supervisor{
		doneCh:  make(chan struct{}),
		readyCh: make(chan struct{}),
	}
	sv.watchParentCancel(ctx)

	return effects.WithResumableEffectHandler(
		ctx,
		bufferSize,
		effectmodel.EffectConcurrency,
		sv.spawnChildren,
		func() {
			sv.waitChildren(ctx)
			close(sv.doneCh)
		},
	)
}

// Effect spawns each fn on its own goroutine under the installed supervisor.
// It returns once every child has started, or with ErrHandlerClosed when
// the supervisor has been torn down.
// Panics if no concurrency handler is installed.
func Effect(ctx context.Context, fns ...func(context.Context)) error {
	_, err := effects.AwaitResumableEffect[spawnPayload, struct{}](
		ctx,
		effectmodel.EffectConcurrency,
		spawnPayload{caller: ctx, fns: fns},
	)
	return err
}

// spawn runs fn on the supervisor installed in ctx, or on a plain goroutine
// when there is none.
func spawn(ctx context.Context, fn func(context.Context)) error {
	if !effects.HasHandler(ctx, effectmodel.EffectConcurrency) {
		go fn(ctx)
		return nil
	}
	return Effect(ctx, fn)
}

type spawnPayload struct {
	caller context.Context
	fns    []func(context.Context)
}

// supervisor tracks the children spawned by one concurrency handler.
type supervisor struct {
	wg      sync.WaitGroup
	mu      sync.Mutex
	cancels []context.CancelFunc
	doneCh  chan struct{}
	readyCh chan struct{}
}

// watchParentCancel interrupts every tracked child once parentContext is
// cancelled, until the supervisor is torn down.
func (s *supervisor) watchParentCancel(parentContext context.Context) {
	go func() {
		close(s.readyCh)
		select {
		case <-parentContext.Done():
			log.LogEff(context.WithoutCancel(parentContext), log.LogInfo, "context cancelled, interrupting all children", nil)
			s.cancelAll()
		case <-s.doneCh:
		}
	}()
	<-s.readyCh
}

func (s *supervisor) track(cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels = append(s.cancels, cancel)
}

func (s *supervisor) cancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancel := range s.cancels {
		cancel()
	}
}

// spawnChildren starts each function of the payload in its own goroutine.
// A panicking child is logged and does not affect its siblings.
func (s *supervisor) spawnChildren(
	_ context.Context,
	payload spawnPayload,
) (struct{}, error) {
	ready := sync.WaitGroup{}

	for _, fn := range payload.fns {
		childCtx, cancel := context.WithCancel(payload.caller)
		s.track(cancel)
		s.wg.Add(1)
		ready.Add(1)
		go func(f func(context.Context), ctx context.Context) {
			defer s.wg.Done()
			defer cancel()
			defer func() {
				if r := recover(); r != nil {
					log.LogEff(context.WithoutCancel(ctx), log.LogError, "panic in child routine", map[string]interface{}{
						"error": r,
					})
				}
			}()
			ready.Done()
			f(ctx)
		}(fn, childCtx)
	}

	// Wait until all child goroutines have been started before returning
	ready.Wait()
	return struct{}{}, nil
}

// waitChildren blocks until all child goroutines complete.
func (s *supervisor) waitChildren(ctx context.Context) {
	log.LogEff(ctx, log.LogDebug, "waiting for all routines to finish", nil)
	s.wg.Wait()
	log.LogEff(ctx, log.LogDebug, "all routines finished", nil)
}
