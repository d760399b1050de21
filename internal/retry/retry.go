package retry

import (
	"context"
	"time"
)

// Policy controls how often and how fast an operation is retried.
type Policy struct {
	MaxRetries int
	Backoff    time.Duration
}

// Do runs fn until it succeeds, the retry budget is spent or ctx is done.
// The delay doubles after every failed attempt.
func Do(ctx context.Context, policy Policy, fn func(context.Context) error) error {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	delay := policy.Backoff
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
