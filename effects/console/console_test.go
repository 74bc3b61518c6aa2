package console_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/on-the-ground/effect_ive_cookbook/effects"
	"github.com/on-the-ground/effect_ive_cookbook/effects/console"
	"github.com/on-the-ground/effect_ive_cookbook/effects/duration"
	"github.com/on-the-ground/effect_ive_cookbook/effects/service"
	"github.com/stretchr/testify/assert"
)

func TestLog_UsesInjectedConsole(t *testing.T) {
	var buf bytes.Buffer
	ctx, end := service.WithEffectHandler(
		context.Background(),
		effects.NewEffectScopeConfig(1, 1),
		service.Make(console.Tag, console.NewWriter(&buf)),
	)
	defer end()

	console.Log(ctx, "task1", "done", 3)
	assert.Equal(t, "task1 done 3\n", buf.String())
}

func TestLog_PrettyPrintsJSON(t *testing.T) {
	var buf bytes.Buffer
	console.NewWriter(&buf).Log(duration.Seconds(90))

	assert.Equal(t, `{
  "_id": "Duration",
  "_tag": "Millis",
  "millis": 90000
}
`, buf.String())
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	ctx, end := service.WithEffectHandler(
		context.Background(),
		effects.NewEffectScopeConfig(1, 1),
		service.Make(console.Tag, console.NewWriter(&buf)),
	)
	defer end()

	_, err := console.Print("orElse")(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "orElse\n", buf.String())
}
