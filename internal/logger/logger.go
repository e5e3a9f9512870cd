package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New logs to stderr; stdout is reserved for command output.
func New() zerolog.Logger {
	return newLogger(os.Stderr, zerolog.DebugLevel)
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(level)
}

var Module = fx.Provide(New)
