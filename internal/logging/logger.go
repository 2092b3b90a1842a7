// Package logging builds the application's zerolog logger.
package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/notexe/reminders/internal/config"
)

// New returns a logger writing to w in the configured format and level.
// Console output is human readable; JSON output is one object per line.
func New(cfg config.LogConfig, service string, w io.Writer) zerolog.Logger {
	out := w
	if cfg.Format != config.LogFormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    true,
		}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Str("service", service).
		Timestamp().
		Logger()
}
