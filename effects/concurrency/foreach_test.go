package concurrency_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_cookbook/effects/cause"
	"github.com/on-the-ground/effect_ive_cookbook/effects/concurrency"
	"github.com/on-the-ground/effect_ive_cookbook/effects/duration"
	"github.com/on-the-ground/effect_ive_cookbook/effects/fiber"
	"github.com/on-the-ground/effect_ive_cookbook/effects/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var errBoom = errors.New("boom")

func TestForEach_ResultsInInputOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	program := concurrency.ForEach([]int{1, 2, 3}, func(n int) task.Task[int] {
		return task.FlatMap(task.Sleep(duration.Millis(float64(4-n)*10)), func(struct{}) task.Task[int] {
			return task.Succeed(n * 10)
		})
	})

	got, err := task.Run(context.Background(), program)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30}, got)
}

func TestForEach_FibersAreNumberedInLaunchOrder(t *testing.T) {
	var mu sync.Mutex
	ids := map[string]fiber.ID{}

	program := concurrency.ForEach([]string{"a", "b", "c"}, func(s string) task.Task[struct{}] {
		return func(ctx context.Context) (struct{}, error) {
			mu.Lock()
			ids[s] = fiber.FromContext(ctx)
			mu.Unlock()
			return struct{}{}, nil
		}
	})

	_, err := task.Run(context.Background(), program)
	require.NoError(t, err)
	assert.Equal(t, map[string]fiber.ID{"a": 1, "b": 2, "c": 3}, ids)
}

// Fiber #1 completes, #2 interrupts itself after two units and #3 is
// interrupted while still sleeping.
func TestForEach_InterruptionOnlyGroupHasNoFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	unit := duration.Millis(20)
	var done sync.Map

	program := concurrency.ForEach([]int{1, 2, 3}, func(n int) task.Task[struct{}] {
		return func(ctx context.Context) (struct{}, error) {
			if _, err := task.Sleep(duration.Times(unit, float64(n)))(ctx); err != nil {
				return struct{}{}, err
			}
			if n > 1 {
				return task.Interrupt[struct{}]()(ctx)
			}
			done.Store(n, true)
			return struct{}{}, nil
		}
	})

	_, err := task.Run(context.Background(), program)

	var ff *cause.FiberFailure
	require.ErrorAs(t, err, &ff)
	assert.Equal(t, cause.TagParallel, ff.Cause.Tag())
	assert.Empty(t, ff.Cause.Failures())
	assert.ElementsMatch(t, []fiber.ID{2, 3}, ff.Cause.Interruptors())

	_, ok := done.Load(1)
	assert.True(t, ok, "completed sibling keeps its outcome")
	_, ok = done.Load(3)
	assert.False(t, ok)

	bs, err := ff.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"FiberFailure","cause":{"_id":"Cause","_tag":"Parallel","errors":[]}}`, string(bs))
}

func TestForEach_FailureInterruptsSiblings(t *testing.T) {
	defer goleak.VerifyNone(t)

	program := concurrency.All(
		task.Fail[int](errBoom),
		task.As(task.Sleep(duration.Infinity), 2),
	)

	_, err := task.Run(context.Background(), program)

	var ff *cause.FiberFailure
	require.ErrorAs(t, err, &ff)
	require.Len(t, ff.Cause.Failures(), 1)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []fiber.ID{2}, ff.Cause.Interruptors())
}

func TestForEach_Bounded(t *testing.T) {
	defer goleak.VerifyNone(t)

	var running, peak atomic.Int32
	items := make([]int, 6)
	program := concurrency.ForEach(items, func(int) task.Task[struct{}] {
		return func(ctx context.Context) (struct{}, error) {
			now := running.Add(1)
			for {
				old := peak.Load()
				if now <= old || peak.CompareAndSwap(old, now) {
					break
				}
			}
			defer running.Add(-1)
			return task.Sleep(duration.Millis(5))(ctx)
		}
	}, concurrency.Bounded(2))

	_, err := task.Run(context.Background(), program)
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestForEach_OuterCancellationInterruptsChildren(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	program := concurrency.ForEach([]int{1, 2}, func(n int) task.Task[int] {
		return task.As(task.Sleep(duration.Infinity), n)
	})
	_, err := task.Run(ctx, program)

	var ff *cause.FiberFailure
	require.ErrorAs(t, err, &ff)
	assert.True(t, ff.Cause.IsInterruptedOnly(), fmt.Sprint(ff.Cause))
}

func TestForEach_Empty(t *testing.T) {
	got, err := task.Run(context.Background(), concurrency.ForEach([]int{}, func(n int) task.Task[int] {
		return task.Succeed(n)
	}))
	require.NoError(t, err)
	assert.Empty(t, got)
}
