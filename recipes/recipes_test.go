package recipes_test

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/on-the-ground/effect_ive_cookbook/effects/duration"
	"github.com/on-the-ground/effect_ive_cookbook/internal/config"
	"github.com/on-the-ground/effect_ive_cookbook/recipes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Recipes.Interruption.Unit = duration.Millis(20)
	cfg.Recipes.Race.Delays = []duration.Duration{
		duration.Millis(20),
		duration.Millis(40),
		duration.Millis(60),
	}
	cfg.Recipes.Retry.Delay = duration.Millis(5)
	return cfg
}

// run runs recipe in a fresh environment and returns the console output and
// the log entries once every handler has been torn down.
func run(t *testing.T, cfg *config.Config, recipe recipes.Recipe) (string, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	var out bytes.Buffer

	ctx, end := recipes.WithEnvironment(context.Background(), cfg, zap.New(core), &out)
	err := recipe(ctx, cfg)
	end()

	require.NoError(t, err)
	return out.String(), logs
}

func TestInterruption(t *testing.T) {
	out, logs := run(t, testConfig(), recipes.Interruption)

	assert.Equal(t, `All fibers interrupted without errors: {
  "_id": "FiberFailure",
  "cause": {
    "_id": "Cause",
    "_tag": "Parallel",
    "errors": []
  }
}
`, out)

	fibers := map[string]string{}
	for _, entry := range logs.All() {
		if strings.HasPrefix(entry.Message, "start") || strings.HasPrefix(entry.Message, "done") {
			fibers[entry.Message] = entry.LoggerName
		}
	}
	assert.Equal(t, map[string]string{
		"start #1": "#1",
		"start #2": "#2",
		"start #3": "#3",
		"done #1":  "#1",
	}, fibers)
}

func TestRace(t *testing.T) {
	out, _ := run(t, testConfig(), recipes.Race)

	for _, line := range []string{"Executing task1...", "Executing task2...", "Executing task3...", "task1 done"} {
		assert.Contains(t, out, line+"\n")
	}
	assert.NotContains(t, out, "task2 done")
	assert.NotContains(t, out, "task3 done")
	assert.True(t, strings.HasSuffix(out, `{
  "_id": "Either",
  "_tag": "Left",
  "left": "Something went wrong!"
}
`), out)
}

func TestRetryOrElse(t *testing.T) {
	out, _ := run(t, testConfig(), recipes.RetryOrElse)
	assert.Equal(t, "failure\nfailure\nfailure\norElse\ndefault value\n", out)
}

func TestDurationArithmetic(t *testing.T) {
	out, _ := run(t, testConfig(), recipes.DurationArithmetic)
	assert.Equal(t, `{
  "_id": "Duration",
  "_tag": "Millis",
  "millis": 90000
}
{
  "_id": "Duration",
  "_tag": "Millis",
  "millis": 60000
}
`, out)
}

func TestServiceOption_Absent(t *testing.T) {
	out, _ := run(t, testConfig(), recipes.ServiceOption)
	assert.Equal(t, "-1\n", out)
}

func TestServiceOption_Present(t *testing.T) {
	cfg := testConfig()
	cfg.Recipes.Service.WithRandom = true
	cfg.Recipes.Service.Seed = 42

	out, _ := run(t, cfg, recipes.ServiceOption)
	n, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 0.0)
	assert.Less(t, n, 1.0)

	again, _ := run(t, cfg, recipes.ServiceOption)
	assert.Equal(t, out, again, "a seeded service is deterministic")
}

func TestAllRecipesAreNamed(t *testing.T) {
	names := make([]string, len(recipes.All))
	for i, r := range recipes.All {
		names[i] = r.Name
		assert.NotNil(t, r.Recipe)
	}
	assert.Equal(t, []string{"interruption", "race", "retry", "duration", "service"}, names)
}
