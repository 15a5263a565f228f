package services

import (
	"context"
	"time"
)

const (
	BackoffFixed       = "fixed"
	BackoffExponential = "exponential"
)

type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	Strategy    string
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: 100 * time.Millisecond, Strategy: BackoffFixed}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Delay is the pause before the given retry; retry 1 follows the first failed attempt.
func (p RetryPolicy) Delay(retry int) time.Duration {
	if p.Backoff <= 0 || retry < 1 {
		return 0
	}
	if p.Strategy != BackoffExponential {
		return p.Backoff
	}
	d := p.Backoff
	for i := 1; i < retry && d < time.Minute; i++ {
		d *= 2
	}
	return min(d, time.Minute)
}

func (p RetryPolicy) wait(ctx context.Context, retry int) error {
	d := p.Delay(retry)
	if d == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
