package log

import (
	"context"
	"io"
	"os"

	zaplogfmt "github.com/jsternberg/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewLogfmtLogger builds a logger that writes one logfmt line per entry:
//
//	timestamp=2026-10-16T09:00:00.123Z level=INFO fiber=#1 message="start #1"
//
// The fiber key carries the logger name and is left out for unnamed loggers.
func NewLogfmtLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	head := zap.NewProductionEncoderConfig()
	head.TimeKey = "timestamp"
	head.LevelKey = "level"
	head.NameKey = zapcore.OmitKey
	head.MessageKey = zapcore.OmitKey
	head.CallerKey = zapcore.OmitKey
	head.StacktraceKey = zapcore.OmitKey
	head.EncodeLevel = zapcore.CapitalLevelEncoder
	head.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	body := head
	body.TimeKey = zapcore.OmitKey
	body.LevelKey = zapcore.OmitKey
	body.MessageKey = "message"

	core := zapcore.NewCore(
		fiberEncoder{
			Encoder: zaplogfmt.NewEncoder(body),
			head:    zaplogfmt.NewEncoder(head),
		},
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core)
}

// fiberEncoder writes the logger name as fiber= between the level and the
// message. zap-logfmt itself never writes the name.
type fiberEncoder struct {
	zapcore.Encoder // message and fields
	head            zapcore.Encoder
}

func (e fiberEncoder) Clone() zapcore.Encoder {
	return fiberEncoder{Encoder: e.Encoder.Clone(), head: e.head}
}

func (e fiberEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line, err := e.head.EncodeEntry(ent, nil)
	if err != nil {
		return nil, err
	}
	body, err := e.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		line.Free()
		return nil, err
	}
	defer body.Free()

	line.TrimNewline()
	if ent.LoggerName != "" {
		line.AppendString(" fiber=")
		line.AppendString(ent.LoggerName)
	}
	line.AppendByte(' ')
	_, _ = line.Write(body.Bytes())
	return line, nil
}

// ParseLevel converts a textual level into a zap level, defaulting to info.
func ParseLevel(text string) zapcore.Level {
	level, err := zapcore.ParseLevel(text)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func WithTestEffectHandler(
	ctx context.Context,
) (context.Context, func() context.Context) {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		zap.DebugLevel,
	)
	return WithZapEffectHandler(
		ctx,
		1,
		zap.New(consoleCore),
	)
}

// WithObservedEffectHandler installs a log handler whose entries are
// captured in memory. Entries are complete once the teardown returned.
func WithObservedEffectHandler(
	ctx context.Context,
) (context.Context, *observer.ObservedLogs, func() context.Context) {
	core, logs := observer.New(zap.DebugLevel)
	ctx, end := WithZapEffectHandler(ctx, 64, zap.New(core))
	return ctx, logs, end
}
