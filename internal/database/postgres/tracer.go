package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

type Option func(*options)

type options struct {
	tracer *tracelog.TraceLog
}

// WithQueryLog logs every statement the pool runs at debug level. It is a
// no-op unless log is enabled for debug.
func WithQueryLog(log zerolog.Logger) Option {
	return func(o *options) {
		if log.GetLevel() > zerolog.DebugLevel {
			return
		}
		o.tracer = &tracelog.TraceLog{
			Logger:   queryLogger(log),
			LogLevel: tracelog.LogLevelDebug,
		}
	}
}

func queryLogger(log zerolog.Logger) tracelog.LoggerFunc {
	return func(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		var ev *zerolog.Event
		switch level {
		case tracelog.LogLevelError:
			ev = log.Error()
		case tracelog.LogLevelWarn:
			ev = log.Warn()
		case tracelog.LogLevelInfo:
			ev = log.Info()
		case tracelog.LogLevelNone:
			return
		default:
			ev = log.Debug()
		}
		ev.Fields(data).Str("component", "pgx").Msg(msg)
	}
}
