package middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	var seen string
	run := RunID(logger, "report")(func(ctx context.Context, args []string) error {
		seen = GetRunID(ctx)
		zerolog.Ctx(ctx).Info().Msg("inside")
		return nil
	})

	require.NoError(t, run(context.Background(), []string{"ev1"}))
	require.NotEmpty(t, seen)
	assert.Contains(t, buf.String(), `"run_id":"`+seen+`"`)
	assert.Contains(t, buf.String(), "command completed")
	assert.Contains(t, buf.String(), "inside")
}

func TestRunID_KeepsExistingIDAndPropagatesError(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	boom := errors.New("boom")

	ctx := context.WithValue(context.Background(), RunIDKey, "fixed")
	run := RunID(logger, "import")(func(ctx context.Context, args []string) error {
		assert.Equal(t, "fixed", GetRunID(ctx))
		return boom
	})

	assert.ErrorIs(t, run(ctx, nil), boom)
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	l := Logger(context.Background(), base)

	l.Info().Msg("plain")
	assert.NotContains(t, buf.String(), "run_id")

	buf.Reset()
	ctx := context.WithValue(context.Background(), RunIDKey, "abc")
	l = Logger(ctx, base)
	l.Info().Msg("tagged")
	assert.Contains(t, buf.String(), `"run_id":"abc"`)
}
