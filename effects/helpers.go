package effects

import (
	"context"
	"fmt"

	effectmodel "github.com/on-the-ground/effect_ive_cookbook/effects/internal/model"
)

var (
	ErrNoEffectHandler = effectmodel.ErrNoEffectHandler
	ErrHandlerClosed   = effectmodel.ErrHandlerClosed
)

// GetHandler checks whether a handler for the given EffectEnum is registered in the context.
// Returns an error if not found.
func GetHandler(ctx context.Context, enum effectmodel.EffectEnum) (any, error) {
	raw := ctx.Value(enum)
	if raw == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoEffectHandler, enum)
	}
	return raw, nil
}

// HasHandler reports whether a handler for enum is installed in ctx.
func HasHandler(ctx context.Context, enum effectmodel.EffectEnum) bool {
	return ctx.Value(enum) != nil
}

// EffectScopeConfig sizes the queue and worker pool of a partitioned handler.
type EffectScopeConfig = effectmodel.EffectScopeConfig

// NewEffectScopeConfig builds an EffectScopeConfig; non-positive values
// default to 1.
func NewEffectScopeConfig(bufferSize, numWorkers int) EffectScopeConfig {
	return effectmodel.NewEffectScopeConfig(bufferSize, numWorkers)
}
