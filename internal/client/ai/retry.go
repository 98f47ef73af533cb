package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RetryPolicy lists the waits before each retry, per failure class. A
// failure outside both classes is returned at once.
type RetryPolicy struct {
	RateLimitWaits   []time.Duration
	ServerErrorWaits []time.Duration
}

// DefaultRetryPolicy is used by responders built without an explicit policy.
var DefaultRetryPolicy = RetryPolicy{
	RateLimitWaits:   []time.Duration{5 * time.Second, 15 * time.Second},
	ServerErrorWaits: []time.Duration{2 * time.Second, 5 * time.Second},
}

// CallWithRetry runs call until it succeeds, fails with a non-retryable error
// or runs out of waits for its failure class.
func CallWithRetry[T any](ctx context.Context, policy RetryPolicy, call func(context.Context) (T, error)) (T, error) {
	var zero T
	rateLimited, serverErrors := 0, 0

	for {
		resp, err := call(ctx)
		if err == nil {
			return resp, nil
		}

		var wait time.Duration
		switch {
		case isRateLimitError(err) && rateLimited < len(policy.RateLimitWaits):
			wait = policy.RateLimitWaits[rateLimited]
			rateLimited++
		case isServerError(err) && serverErrors < len(policy.ServerErrorWaits):
			wait = policy.ServerErrorWaits[serverErrors]
			serverErrors++
		default:
			if rateLimited+serverErrors > 0 {
				return zero, fmt.Errorf("failed after %d attempts: %w", rateLimited+serverErrors+1, err)
			}
			return zero, err
		}

		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "server_error")
}
