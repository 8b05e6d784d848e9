package worker

import (
	"context"
	"time"
)

const maxIntentos = 3

// backoffBase is the first pause between attempts; tests shrink it.
var backoffBase = time.Second

// withRetry calls fn up to maxAttempts times, pausing 1, 2, 4… backoffBase in between.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * backoffBase
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
