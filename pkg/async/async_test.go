package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membercore/membership/pkg/async"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("returns result", func(t *testing.T) {
		t.Parallel()

		f := async.Run(context.Background(), func(ctx context.Context) (int, error) {
			return 42, nil
		})

		result, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, 42, result)
		assert.True(t, f.IsComplete())
	})

	t.Run("propagates error", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("boom")
		f := async.Run(context.Background(), func(ctx context.Context) (struct{}, error) {
			return struct{}{}, wantErr
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("pre-cancelled context short-circuits", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		f := async.Run(ctx, func(ctx context.Context) (int, error) {
			called = true
			return 1, nil
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("await with timeout", func(t *testing.T) {
		t.Parallel()

		f := async.Run(context.Background(), func(ctx context.Context) (int, error) {
			time.Sleep(time.Second)
			return 1, nil
		})

		_, err := f.AwaitWithTimeout(10 * time.Millisecond)
		assert.ErrorIs(t, err, async.ErrTimeout)
	})
}

func TestAwaitAll(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("second failed")

	ok := async.Run(context.Background(), func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	failed := async.Run(context.Background(), func(ctx context.Context) (string, error) {
		return "", wantErr
	})
	alsoOK := async.Run(context.Background(), func(ctx context.Context) (string, error) {
		return "ok", nil
	})

	err := async.AwaitAll(ok, failed, alsoOK)
	assert.ErrorIs(t, err, wantErr)

	// Every future finished even though one errored.
	assert.True(t, ok.IsComplete())
	assert.True(t, failed.IsComplete())
	assert.True(t, alsoOK.IsComplete())
}
