package handlers

import (
	"context"

	"go.uber.org/zap"
)

func NewFireAndForgetHandler[P any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P),
	teardown func(),
) FireAndForgetHandler[P] {
	return FireAndForgetHandler[P]{
		effectScope: newEffectScope(
			ctx,
			func(ctx context.Context) WorkerDispatcher[P] {
				return NewSingleQueue(ctx, bufferSize, handleFn)
			},
			teardown,
		),
	}
}

type FireAndForgetHandler[P any] struct {
	*effectScope[P]
}

// FireAndForgetEffect enqueues payload. Payloads sent after the handler was
// closed are dropped.
func (ffh FireAndForgetHandler[P]) FireAndForgetEffect(ctx context.Context, payload P) {
	if err := ffh.send(ctx, payload); err != nil {
		zap.L().Debug("dropped fire/forget effect",
			zap.String("effectId", ffh.EffectId),
			zap.Error(err),
		)
	}
}
