package gaswatch_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"

	"github.com/non-fungible-user/starknet/pkg/gaswatch"
)

type stubPricer struct {
	prices []int64
	calls  int
}

func (s *stubPricer) GasPrice(ctx context.Context) (*big.Int, error) {
	price := s.prices[s.calls]
	if s.calls < len(s.prices)-1 {
		s.calls++
	}
	return new(big.Int).Mul(big.NewInt(price), big.NewInt(params.GWei)), nil
}

func TestWaitReturnsWhenBelowThreshold(t *testing.T) {
	pricer := &stubPricer{prices: []int64{10}}
	w := gaswatch.NewWatcher(pricer, 30, time.Millisecond, time.Millisecond)

	require.NoError(t, w.Wait(context.Background()))
}

func TestWaitBlocksUntilPriceDrops(t *testing.T) {
	pricer := &stubPricer{prices: []int64{100, 80, 20}}
	w := gaswatch.NewWatcher(pricer, 30, time.Millisecond, 2*time.Millisecond)

	require.NoError(t, w.Wait(context.Background()))
	require.Equal(t, 2, pricer.calls)
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	pricer := &stubPricer{prices: []int64{100}}
	w := gaswatch.NewWatcher(pricer, 30, 50*time.Millisecond, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	err := w.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
