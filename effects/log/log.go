package log

import (
	"context"

	"github.com/on-the-ground/effect_ive_cookbook/effects"
	"github.com/on-the-ground/effect_ive_cookbook/effects/fiber"
	effectmodel "github.com/on-the-ground/effect_ive_cookbook/effects/internal/model"
	"go.uber.org/zap"
)

// LogLevel defines the severity level for log messages.
type LogLevel string

const (
	// LogInfo is used for general informational messages.
	LogInfo LogLevel = "info"

	// LogWarn is used for potentially harmful situations.
	LogWarn LogLevel = "warn"

	// LogError is used for error events that might still allow the application to continue running.
	LogError LogLevel = "error"

	// LogDebug is used for debugging messages with detailed internal information.
	LogDebug LogLevel = "debug"
)

// LogPayload is the payload structure for logging effect.
// It contains the log level, message string, optional structured fields,
// and the fiber that performed the effect.
type LogPayload struct {
	Level   LogLevel
	Message string
	Fields  map[string]interface{}
	Fiber   fiber.ID
}

// WithZapEffectHandler registers a fire-and-forget log effect handler using zap.Logger.
// The returned context includes the handler under the EffectLog enum.
// Each line is emitted by a logger named after the performing fiber, so the
// fiber id lands in the logger name, which NewLogfmtLogger writes as fiber=.
// The teardown function flushes pending lines and syncs the logger; the
// context it returns should be used for further operations.
func WithZapEffectHandler(
	ctx context.Context,
	bufferSize int,
	logger *zap.Logger,
) (context.Context, func() context.Context) {
	return effects.WithFireAndForgetEffectHandler(
		ctx,
		bufferSize,
		effectmodel.EffectLog,
		func(ctx context.Context, payload LogPayload) {
			fields := make([]zap.Field, 0, len(payload.Fields))
			for k, v := range payload.Fields {
				fields = append(fields, zap.Any(k, v))
			}

			named := logger
			if payload.Fiber != fiber.None {
				named = logger.Named(payload.Fiber.String())
			}

			switch payload.Level {
			case LogInfo:
				named.Info(payload.Message, fields...)
			case LogWarn:
				named.Warn(payload.Message, fields...)
			case LogError:
				named.Error(payload.Message, fields...)
			case LogDebug:
				named.Debug(payload.Message, fields...)
			default:
				named.Info(payload.Message, fields...)
			}
		},
		func() {
			// stdout/stderr syncs fail with EINVAL on some platforms; nothing to do about it
			_ = logger.Sync()
		},
	)
}

// LogEff performs a fire-and-forget log effect using the EffectLog handler in the context.
// This should be used to emit structured logs within an effect-managed execution scope.
// Panics if no log handler is installed.
func LogEff(ctx context.Context, level LogLevel, msg string, fields map[string]interface{}) {
	effects.FireAndForgetEffect(ctx, effectmodel.EffectLog, LogPayload{
		Level:   level,
		Message: msg,
		Fields:  fields,
		Fiber:   fiber.FromContext(ctx),
	})
}

// Info logs msg at info level with no fields.
func Info(ctx context.Context, msg string) {
	LogEff(ctx, LogInfo, msg, nil)
}
