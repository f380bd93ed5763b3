package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return nil
		}, 3, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, 5, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		failure := errors.New("persistent")
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return failure
		}, 3, time.Millisecond)
		assert.ErrorIs(t, err, failure)
		assert.Equal(t, 3, calls)
	})

	t.Run("not implemented is not retried", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return &ToolError{Tool: "price_compare", Kind: KindNotImplemented}
		}, 3, time.Millisecond)
		assert.Equal(t, KindNotImplemented, KindOf(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("invalid attempts", func(t *testing.T) {
		err := RetryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("respects cancellation", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()
		err := RetryWithBackoff(cancelCtx, func() error {
			return errors.New("should not matter")
		}, 3, time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNotImplementedAdapter(t *testing.T) {
	adapter := NotImplemented("price_compare")
	assert.Equal(t, "price_compare", adapter.Name())

	result, err := adapter.Call(context.Background(), ToolQuery{Query: "cheapest milk"})
	assert.Nil(t, result)
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, KindNotImplemented, toolErr.Kind)
	assert.Equal(t, "price_compare", toolErr.Tool)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindTimeout, KindOf(&ToolError{Tool: "t", Kind: KindTimeout}))
	assert.Equal(t, KindUpstreamFailure, KindOf(errors.New("plain")))
}
