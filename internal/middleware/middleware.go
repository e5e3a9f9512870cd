package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const RunIDKey contextKey = "run_id"

// RunFunc is the shape of a command body.
type RunFunc func(ctx context.Context, args []string) error

// RunID tags one command invocation with a run id, puts a logger carrying it
// on the context and logs start, completion and duration.
func RunID(logger zerolog.Logger, command string) func(RunFunc) RunFunc {
	return func(next RunFunc) RunFunc {
		return func(ctx context.Context, args []string) error {
			start := time.Now()

			runID := GetRunID(ctx)
			if runID == "" {
				runID = uuid.New().String()
			}

			ctx = context.WithValue(ctx, RunIDKey, runID)

			loggerWithID := logger.With().Str("run_id", runID).Logger()
			ctx = loggerWithID.WithContext(ctx)

			loggerWithID.Debug().
				Str("command", command).
				Strs("args", args).
				Msg("command started")

			err := next(ctx, args)

			duration := time.Since(start)
			event := loggerWithID.Debug()
			if err != nil {
				event = loggerWithID.Error().Err(err)
			}
			event.
				Str("command", command).
				Int64("duration_ms", duration.Milliseconds()).
				Dur("duration", duration).
				Msg("command completed")

			return err
		}
	}
}

func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}

// Logger returns fallback tagged with the run id on ctx, if any.
func Logger(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	if id := GetRunID(ctx); id != "" {
		return fallback.With().Str("run_id", id).Logger()
	}
	return fallback
}
