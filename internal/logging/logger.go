package logging

import (
	"io"
	"os"
	"time"

	"talent-catalog/internal/config"

	"github.com/rs/zerolog"
)

// New builds the process logger. Format "json" writes raw zerolog events,
// anything else uses the console writer.
func New(cfg config.LogConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

func NewWithWriter(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	w := out
	if cfg.Format != "json" {
		w = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
			cw.Out = out
			cw.TimeFormat = time.RFC3339
		})
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
