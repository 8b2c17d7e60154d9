package retry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/non-fungible-user/starknet/pkg/retry"
)

func TestDoRetriesTransientExactlyNTimes(t *testing.T) {
	attempts := 0
	err := retry.Do(context.Background(), 5, 0, func(ctx context.Context) error {
		attempts++
		return retry.Transient(errors.New("rpc is down"))
	})
	require.ErrorIs(t, err, retry.ErrRetriesExhausted)
	require.Equal(t, 5, attempts)
}

func TestDoStopsOnNonTransient(t *testing.T) {
	fatal := errors.New("balance is below configured minimum")
	attempts := 0
	err := retry.Do(context.Background(), 5, 0, func(ctx context.Context) error {
		attempts++
		return fatal
	})
	require.ErrorIs(t, err, fatal)
	require.Equal(t, 1, attempts)
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := retry.Do(context.Background(), 5, 0, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return retry.Transient(errors.New("rpc is down"))
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestDoUntilTrueRetriesFalsyResults(t *testing.T) {
	attempts := 0
	err := retry.DoUntilTrue(context.Background(), 4, 0, func(ctx context.Context) (bool, error) {
		attempts++
		return false, nil
	})
	require.ErrorIs(t, err, retry.ErrRetriesExhausted)
	require.Equal(t, 4, attempts)
}

func TestDoUntilTrueRetriesErrors(t *testing.T) {
	attempts := 0
	err := retry.DoUntilTrue(context.Background(), 3, 0, func(ctx context.Context) (bool, error) {
		attempts++
		if attempts < 2 {
			return false, errors.New("nonce too low")
		}
		return true, nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, attempts)
}

func TestPermanentShortCircuitsBothFlavors(t *testing.T) {
	terminal := errors.New("amount to act on is not positive")

	attempts := 0
	err := retry.Do(context.Background(), 5, 0, func(ctx context.Context) error {
		attempts++
		return retry.Permanent(terminal)
	})
	require.ErrorIs(t, err, terminal)
	require.Equal(t, 1, attempts)

	attempts = 0
	err = retry.DoUntilTrue(context.Background(), 5, 0, func(ctx context.Context) (bool, error) {
		attempts++
		return false, retry.Permanent(terminal)
	})
	require.ErrorIs(t, err, terminal)
	require.Equal(t, 1, attempts)
}

func TestTransientClassification(t *testing.T) {
	require.False(t, retry.IsTransient(nil))
	require.False(t, retry.IsTransient(errors.New("plain")))
	require.True(t, retry.IsTransient(retry.Transient(errors.New("conn reset"))))

	wrapped := retry.Transient(errors.New("conn reset"))
	require.EqualError(t, wrapped, "conn reset")
}
