package concurrency_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_cookbook/effects"
	"github.com/on-the-ground/effect_ive_cookbook/effects/cause"
	"github.com/on-the-ground/effect_ive_cookbook/effects/concurrency"
	"github.com/on-the-ground/effect_ive_cookbook/effects/duration"
	"github.com/on-the-ground/effect_ive_cookbook/effects/fiber"
	"github.com/on-the-ground/effect_ive_cookbook/effects/log"
	"github.com/on-the-ground/effect_ive_cookbook/effects/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func sleepThen[A any](ms float64, t task.Task[A]) task.Task[A] {
	return task.FlatMap(task.Sleep(duration.Millis(ms)), func(struct{}) task.Task[A] { return t })
}

func TestRaceAll_FirstSuccessWinsAndLosersAreJoined(t *testing.T) {
	defer goleak.VerifyNone(t)

	var loserInterrupted atomic.Bool
	loser := func(ctx context.Context) (int, error) {
		_, err := task.Sleep(duration.Infinity)(ctx)
		loserInterrupted.Store(cause.IsInterruption(err))
		return 0, err
	}

	v, err := task.Run(context.Background(), concurrency.RaceAll(
		sleepThen(10, task.Succeed(1)),
		loser,
	))
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.True(t, loserInterrupted.Load(), "loser is interrupted before the race returns")
}

func TestRaceAll_FailuresDoNotWin(t *testing.T) {
	defer goleak.VerifyNone(t)

	v, err := task.Run(context.Background(), concurrency.Race(
		task.Fail[int](errBoom),
		sleepThen(10, task.Succeed(2)),
	))
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestRaceAll_AllFail(t *testing.T) {
	defer goleak.VerifyNone(t)

	errOther := errors.New("other")
	_, err := task.Run(context.Background(), concurrency.Race(
		task.Fail[int](errBoom),
		sleepThen(5, task.Fail[int](errOther)),
	))

	var ff *cause.FiberFailure
	require.ErrorAs(t, err, &ff)
	assert.Equal(t, cause.TagParallel, ff.Cause.Tag())
	assert.Len(t, ff.Cause.Failures(), 2)
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, err, errOther)
}

func TestRaceAll_EitherLetsFirstCompletionWin(t *testing.T) {
	defer goleak.VerifyNone(t)

	winner, err := task.Run(context.Background(), concurrency.RaceAll(
		task.Either(sleepThen(10, task.Fail[int](errors.New("Something went wrong!")))),
		task.Either(sleepThen(20, task.Fail[int](errors.New("Uh oh!")))),
		task.Either(sleepThen(30, task.Succeed(3))),
	))
	require.NoError(t, err)
	assert.Equal(t, "Left(Something went wrong!)", winner.String())
}

func TestRaceAll_ExitLetsFirstCompletionWin(t *testing.T) {
	winner, err := task.Run(context.Background(), concurrency.Race(
		task.Exit(sleepThen(20, task.Succeed(1))),
		task.Exit(sleepThen(5, task.Fail[int](errBoom))),
	))
	require.NoError(t, err)
	assert.True(t, winner.IsFailure())
}

func TestRaceAll_Empty(t *testing.T) {
	_, err := concurrency.RaceAll[int]()(context.Background())
	assert.ErrorIs(t, err, concurrency.ErrEmptyRace)
}

func TestFork_JoinWithoutSupervisor(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := fiber.WithRoot(context.Background())
	f := concurrency.Fork(ctx, sleepThen(5, task.Succeed("joined")))
	assert.Equal(t, fiber.ID(1), f.ID())

	v, err := f.Join(ctx)
	require.NoError(t, err)
	assert.Equal(t, "joined", v)
	assert.GreaterOrEqual(t, f.TimeSpan().Duration(), 5*time.Millisecond)
}

func TestFork_Interrupt(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := concurrency.Fork(context.Background(), task.As(task.Sleep(duration.Infinity), 1))
	exit := f.Interrupt()
	assert.True(t, exit.Cause().IsInterruptedOnly())
}

func TestFork_ThroughSupervisor(t *testing.T) {
	ctx := context.Background()
	ctx, endOfLogHandler := log.WithTestEffectHandler(ctx)
	defer endOfLogHandler()

	ctx, endOfConcurrencyHandler := concurrency.WithEffectHandler(ctx, 10)

	f := concurrency.Fork(ctx, task.Fail[int](errBoom))
	exit := f.Await()
	assert.ErrorIs(t, exit.Err(), errBoom)

	endOfConcurrencyHandler()

	late := concurrency.Fork(ctx, task.Succeed(1))
	assert.ErrorIs(t, late.Await().Err(), effects.ErrHandlerClosed)
}

func TestFork_JoinInterruptedByCaller(t *testing.T) {
	f := concurrency.Fork(context.Background(), task.As(task.Sleep(duration.Infinity), 1))
	defer f.Interrupt()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Join(ctx)
	assert.True(t, cause.IsInterruption(err))
}

func TestFork_CompletesOnceThroughSupervisor(t *testing.T) {
	ctx, logs, endOfLogHandler := log.WithObservedEffectHandler(context.Background())
	ctx, endOfConcurrencyHandler := concurrency.WithEffectHandler(ctx, 16)

	for i := 0; i < 500; i++ {
		v, err := concurrency.Fork(ctx, task.Succeed(i)).Join(ctx)
		require.NoError(t, err)
		require.Equal(t, i, v)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	for i := 0; i < 500; i++ {
		exit := concurrency.Fork(cancelled, task.Succeed(i)).Await()
		if exit.IsFailure() {
			assert.True(t, exit.Cause().IsInterruptedOnly(), exit.String())
		}
	}

	endOfConcurrencyHandler()
	endOfLogHandler()
	assert.Zero(t, logs.FilterMessage("panic in child routine").Len())
}

func TestRaceAll_CancelledCallerThroughSupervisor(t *testing.T) {
	ctx, logs, endOfLogHandler := log.WithObservedEffectHandler(context.Background())
	ctx, endOfConcurrencyHandler := concurrency.WithEffectHandler(ctx, 16)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_, _ = concurrency.RaceAll(task.Succeed(1), task.Succeed(2), task.Succeed(3))(cancelled)
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("race did not return on a cancelled caller")
	}

	endOfConcurrencyHandler()
	endOfLogHandler()
	assert.Zero(t, logs.FilterMessage("panic in child routine").Len())
}
