package identifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teasupply/backend/internal/domain/shared"
)

func TestRetryOnConflict(t *testing.T) {
	t.Run("should succeed without retrying when fn succeeds", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(context.Background(), func(ctx context.Context) error {
			calls++
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("should retry on uniqueness conflict and succeed", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(context.Background(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return shared.ErrAlreadyExists
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("should surface the conflict after the attempt budget", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(context.Background(), func(ctx context.Context) error {
			calls++
			return shared.ErrConcurrencyConflict
		})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, ConflictRetryAttempts, calls)
	})

	t.Run("should not retry non-conflict errors", func(t *testing.T) {
		boom := errors.New("disk full")
		calls := 0
		err := RetryOnConflict(context.Background(), func(ctx context.Context) error {
			calls++
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("should stop when the context is cancelled between attempts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		err := RetryOnConflict(ctx, func(ctx context.Context) error {
			cancel()
			return shared.ErrAlreadyExists
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsRetryableConflict(t *testing.T) {
	assert.True(t, IsRetryableConflict(shared.ErrAlreadyExists))
	assert.True(t, IsRetryableConflict(shared.ErrConcurrencyConflict))
	assert.False(t, IsRetryableConflict(shared.ErrNotFound))
	assert.False(t, IsRetryableConflict(errors.New("other")))
}
