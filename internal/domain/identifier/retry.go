package identifier

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/teasupply/backend/internal/domain/shared"
)

// ConflictRetryAttempts is how many times a create is replayed when the
// storage layer reports a uniqueness or concurrency conflict
const ConflictRetryAttempts = 3

// RetryOnConflict runs fn up to ConflictRetryAttempts times, retrying only
// when the error is a uniqueness violation or a detected concurrent
// modification. Between attempts it sleeps a randomized 50-150ms so two
// racing callers fall out of lockstep.
func RetryOnConflict(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < ConflictRetryAttempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !IsRetryableConflict(err) {
			return err
		}
		backoff := time.Duration(50+rand.Intn(100)) * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}

// IsRetryableConflict reports whether the error indicates a race that may
// self-resolve on retry
func IsRetryableConflict(err error) bool {
	return errors.Is(err, shared.ErrAlreadyExists) || errors.Is(err, shared.ErrConcurrencyConflict)
}
