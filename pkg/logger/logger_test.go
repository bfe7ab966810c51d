package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membercore/membership/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json output with static attrs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithFormat(logger.FormatJSON),
			logger.WithAttr(slog.String("service", "membership")),
		)

		log.Info("hello")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "membership", record["service"])
	})

	t.Run("level filtering", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithLevel(slog.LevelWarn),
		)

		log.Info("dropped")
		assert.Zero(t, buf.Len())

		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("context extractor", func(t *testing.T) {
		t.Parallel()

		type ctxKey struct{}

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
				if v, ok := ctx.Value(ctxKey{}).(string); ok {
					return slog.String("request_id", v), true
				}
				return slog.Attr{}, false
			}),
		)

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
		log.InfoContext(ctx, "with context")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "req-1", record["request_id"])
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			logger.New(logger.WithFormat("xml"))
		})
	})
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, slog.Attr{}, logger.UserID(""))
	assert.Equal(t, "user_id", logger.UserID("u1").Key)
	assert.Equal(t, "subscription_id", logger.SubscriptionID("s1").Key)
	assert.Equal(t, "plan_id", logger.PlanID("p1").Key)
	assert.Equal(t, "component", logger.Component("engine").Key)
}
