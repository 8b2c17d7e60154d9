// Package retry provides the bounded re-attempt wrappers used around every
// network-calling operation of the batch engine. Two flavors exist: the
// StarkNet one retries only transport failures and treats any other error as
// immediately fatal, the EVM one retries both errors and falsy results.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrRetriesExhausted is surfaced after the configured attempt budget is
// consumed without a successful attempt.
var ErrRetriesExhausted = errors.New("failed after multiple attempts")

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks an error as a transport-level hiccup worth retrying.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err}
}

// IsTransient reports whether the error carries the transient classification.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error as non-retryable for both flavors, it is unwrapped
// and returned to the caller on the first occurrence.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err}
}

func isPermanent(err error) (error, bool) {
	var pe *permanentError
	if errors.As(err, &pe) {
		return pe.err, true
	}
	return err, false
}

// Do runs op up to attempts times, waiting delay between attempts. Only
// transient-classified errors are retried, anything else aborts immediately.
func Do(
	ctx context.Context, attempts int, delay time.Duration,
	op func(ctx context.Context) error,
) error {
	for i := 0; i < attempts; i++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if inner, ok := isPermanent(err); ok {
			return inner
		}
		if !IsTransient(err) {
			return err
		}

		log.Warnf(
			"attempt %d failed: rpc is down, retrying in %s", i+1, delay,
		)
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %d attempts", ErrRetriesExhausted, attempts)
}

// DoUntilTrue runs op up to attempts times until it reports success. Errors
// and falsy results are both treated as retryable, Permanent-marked errors
// abort immediately.
func DoUntilTrue(
	ctx context.Context, attempts int, delay time.Duration,
	op func(ctx context.Context) (bool, error),
) error {
	for i := 0; i < attempts; i++ {
		ok, err := op(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			if inner, isPerm := isPermanent(err); isPerm {
				return inner
			}
			log.Warnf("attempt %d failed: %s", i+1, err)
		} else {
			log.Warnf("attempt %d failed: operation reported failure", i+1)
		}

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %d attempts", ErrRetriesExhausted, attempts)
}

func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
