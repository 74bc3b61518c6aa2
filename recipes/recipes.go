package recipes

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/effect_ive_cookbook/effects/cause"
	"github.com/on-the-ground/effect_ive_cookbook/effects/concurrency"
	"github.com/on-the-ground/effect_ive_cookbook/effects/console"
	"github.com/on-the-ground/effect_ive_cookbook/effects/duration"
	"github.com/on-the-ground/effect_ive_cookbook/effects/log"
	"github.com/on-the-ground/effect_ive_cookbook/effects/result"
	"github.com/on-the-ground/effect_ive_cookbook/effects/retry"
	"github.com/on-the-ground/effect_ive_cookbook/effects/service"
	"github.com/on-the-ground/effect_ive_cookbook/effects/task"
	"github.com/on-the-ground/effect_ive_cookbook/internal/config"
)

// Named pairs a recipe with its command name.
type Named struct {
	Name   string
	Short  string
	Recipe Recipe
}

// All lists the recipes in the order the cookbook runs them.
var All = []Named{
	{"interruption", "fibers interrupted while running concurrently", Interruption},
	{"race", "race of reified results, first completion wins", Race},
	{"retry", "retry with a fallback once the policy gives up", RetryOrElse},
	{"duration", "duration arithmetic", DurationArithmetic},
	{"service", "optional service lookup", ServiceOption},
}

// Interruption starts one fiber per item. Fiber n sleeps n units, then
// interrupts itself unless it is the first one.
func Interruption(ctx context.Context, cfg *config.Config) error {
	unit := cfg.Recipes.Interruption.Unit
	items := make([]int, cfg.Recipes.Interruption.Fibers)
	for i := range items {
		items[i] = i + 1
	}

	program := concurrency.ForEach(items, func(n int) task.Task[struct{}] {
		return func(ctx context.Context) (struct{}, error) {
			log.Info(ctx, fmt.Sprintf("start #%d", n))
			if _, err := task.Sleep(duration.Times(unit, float64(n)))(ctx); err != nil {
				return struct{}{}, err
			}
			if n > 1 {
				return task.Interrupt[struct{}]()(ctx)
			}
			log.Info(ctx, fmt.Sprintf("done #%d", n))
			return struct{}{}, nil
		}
	}, concurrency.Unbounded())

	_, err := task.Run(ctx, program)
	var ff *cause.FiberFailure
	switch {
	case err == nil:
		console.Log(ctx, "All fibers completed")
	case errors.As(err, &ff) && len(ff.Cause.Failures()) == 0:
		console.Log(ctx, "All fibers interrupted without errors:", ff)
	case errors.As(err, &ff):
		console.Log(ctx, "Fibers failed:", ff)
	default:
		return err
	}
	return nil
}

func raceTask[A any](name string, delay duration.Duration, then task.Task[A]) task.Task[A] {
	return func(ctx context.Context) (A, error) {
		console.Log(ctx, fmt.Sprintf("Executing %s...", name))
		if _, err := task.Sleep(delay)(ctx); err != nil {
			var zero A
			return zero, err
		}
		console.Log(ctx, fmt.Sprintf("%s done", name))
		return then(ctx)
	}
}

// Race races three tasks reified with task.Either, so the first to
// complete wins even though it failed.
func Race(ctx context.Context, cfg *config.Config) error {
	delays := cfg.Recipes.Race.Delays
	contenders := []task.Task[result.Either[error, int]]{
		task.Either(raceTask("task1", delays[0], task.Fail[int](errors.New("Something went wrong!")))),
		task.Either(raceTask("task2", delays[1], task.Fail[int](errors.New("Uh oh!")))),
		task.Either(raceTask("task3", delays[2], task.Succeed(3))),
	}

	winner, err := task.Run(ctx, concurrency.RaceAll(contenders...))
	if err != nil {
		return err
	}
	console.Log(ctx, winner)
	return nil
}

// RetryOrElse retries an always failing effect twice with a delay, then
// falls back to a default value.
func RetryOrElse(ctx context.Context, cfg *config.Config) error {
	effect := func(ctx context.Context) (string, error) {
		console.Log(ctx, "failure")
		return "", errors.New("failure")
	}
	policy := retry.AddDelay(
		retry.Recurs(cfg.Recipes.Retry.Recurs),
		func(int) duration.Duration { return cfg.Recipes.Retry.Delay },
	)
	repeated := retry.RetryOrElse(effect, policy, func(error) task.Task[string] {
		return task.As(console.Print("orElse"), "default value")
	})

	v, err := task.Run(ctx, repeated)
	if err != nil {
		return err
	}
	console.Log(ctx, v)
	return nil
}

// DurationArithmetic prints a sum and a product of durations.
func DurationArithmetic(ctx context.Context, _ *config.Config) error {
	duration1 := duration.Seconds(30)
	duration2 := duration.Minutes(1)

	console.Log(ctx, duration.Sum(duration1, duration2))
	console.Log(ctx, duration.Times(duration1, 2))
	return nil
}

// ServiceOption prints a random number when the Random service is provided
// and -1 otherwise.
func ServiceOption(ctx context.Context, _ *config.Config) error {
	program := func(ctx context.Context) (float64, error) {
		maybeRandom := service.GetOption(ctx, RandomTag)
		random, ok := maybeRandom.Get()
		if !ok {
			return -1, nil
		}
		return random.Next()(ctx)
	}

	n, err := task.Run(ctx, program)
	if err != nil {
		return err
	}
	console.Log(ctx, n)
	return nil
}
