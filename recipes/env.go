// Package recipes holds the cookbook programs and the environment they run
// in.
package recipes

import (
	"context"
	"io"

	"github.com/on-the-ground/effect_ive_cookbook/effects"
	"github.com/on-the-ground/effect_ive_cookbook/effects/concurrency"
	"github.com/on-the-ground/effect_ive_cookbook/effects/console"
	"github.com/on-the-ground/effect_ive_cookbook/effects/log"
	"github.com/on-the-ground/effect_ive_cookbook/effects/service"
	"github.com/on-the-ground/effect_ive_cookbook/internal/config"
	"go.uber.org/zap"
)

// Recipe is one cookbook program. Failures the program reports on the
// console are not errors.
type Recipe func(ctx context.Context, cfg *config.Config) error

// WithEnvironment installs the handlers every recipe needs: the log effect
// over logger, the concurrency supervisor, and the services (a console
// printing to out, plus Random when configured). The returned function
// tears them down in reverse order.
func WithEnvironment(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	out io.Writer,
) (context.Context, func()) {
	ctx, endOfLogHandler := log.WithZapEffectHandler(ctx, cfg.Handlers.LogBufferSize, logger)
	ctx, endOfConcurrencyHandler := concurrency.WithEffectHandler(ctx, cfg.Handlers.ConcurrencyBufferSize)

	services := service.Make(console.Tag, console.NewWriter(out))
	if cfg.Recipes.Service.WithRandom {
		services = service.Add(services, RandomTag, NewRandom(cfg.Recipes.Service.Seed))
	}
	ctx, endOfServiceHandler := service.WithEffectHandler(
		ctx,
		effects.NewEffectScopeConfig(cfg.Handlers.ServiceBufferSize, cfg.Handlers.ServiceWorkers),
		services,
	)

	return ctx, func() {
		endOfServiceHandler()
		endOfConcurrencyHandler()
		endOfLogHandler()
	}
}
