package service

import (
	"context"
	"errors"
	"time"

	"cashdunia/internal/economy"
	"cashdunia/internal/logger"
	"cashdunia/internal/repository"

	"github.com/cenkalti/backoff/v5"
)

func newConflictBackOff() backoff.BackOff {
	return &backoff.ExponentialBackOff{
		InitialInterval:     2 * time.Millisecond,
		RandomizationFactor: 0.5,
		Multiplier:          2,
		MaxInterval:         50 * time.Millisecond,
	}
}

// inTx runs fn in a store transaction and replays it while the store reports
// a concurrent update, up to maxAttempts. fn must derive all of its results
// from the transaction since it may run more than once. Business rule errors
// are returned on the first attempt.
func (r *runner) inTx(ctx context.Context, op string, fn func(tx repository.Tx) error) error {
	attempt := func() (struct{}, error) {
		err := r.store.InTx(ctx, fn)
		switch {
		case err == nil:
			return struct{}{}, nil
		case errors.Is(err, repository.ErrConflict):
			txConflicts.WithLabelValues(op).Inc()
			return struct{}{}, err
		default:
			return struct{}{}, backoff.Permanent(err)
		}
	}

	_, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(newConflictBackOff()),
		backoff.WithMaxTries(r.maxAttempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			logger.WithContext(ctx).Debug("retrying transaction", "op", op, "wait", wait, "error", err)
		}),
	)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	if errors.Is(err, repository.ErrConflict) {
		return economy.Fail(economy.ErrConcurrentUpdateConflict,
			"the account changed concurrently %d times, please try again", r.maxAttempts)
	}
	return err
}
