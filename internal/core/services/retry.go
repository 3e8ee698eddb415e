package services

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/platform/metrics"
)

// RetryPolicy bounds how often a load-compute-conditional-write cycle is
// repeated after losing a version race.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, InitialInterval: 20 * time.Millisecond, MaxInterval: time.Second}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	if b.InitialInterval <= 0 {
		b.InitialInterval = time.Millisecond
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.MaxElapsedTime = 0

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}

// retryOnConflict runs op until it succeeds, fails with anything other than
// domain.ErrConcurrentModification, or the policy is exhausted. The last
// conflict error is returned in the latter case.
func retryOnConflict(ctx context.Context, policy RetryPolicy, entity string, op func() error) error {
	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}

		if errors.Is(err, domain.ErrConcurrentModification) {
			metrics.OptimisticConflict(entity)
			return err
		}

		return backoff.Permanent(err)
	}, policy.backOff(ctx))
}
