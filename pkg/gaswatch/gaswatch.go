// Package gaswatch blocks workflow progress until the network gas price drops
// below a configured threshold, sleeping a randomized delay between polls to
// mimic human pacing.
package gaswatch

import (
	"context"
	"math/big"
	"math/rand"
	"time"

	"github.com/ethereum/go-ethereum/params"
	log "github.com/sirupsen/logrus"

	"github.com/non-fungible-user/starknet/internal/core/ports"
)

// Watcher polls a gas pricer until the price satisfies the threshold.
type Watcher struct {
	pricer       ports.GasPricer
	thresholdWei *big.Int
	minDelay     time.Duration
	maxDelay     time.Duration
}

// NewWatcher builds a watcher with a threshold expressed in gwei and a
// randomized inter-poll delay range.
func NewWatcher(
	pricer ports.GasPricer, thresholdGwei int64, minDelay, maxDelay time.Duration,
) *Watcher {
	threshold := new(big.Int).Mul(
		big.NewInt(thresholdGwei), big.NewInt(params.GWei),
	)
	return &Watcher{
		pricer:       pricer,
		thresholdWei: threshold,
		minDelay:     minDelay,
		maxDelay:     maxDelay,
	}
}

// Wait blocks until the gas price is at or below the threshold. Pricer
// failures are logged and treated as one more wait round rather than aborting
// the workflow.
func (w *Watcher) Wait(ctx context.Context) error {
	for {
		price, err := w.pricer.GasPrice(ctx)
		if err == nil && price.Cmp(w.thresholdWei) <= 0 {
			return nil
		}

		delay := w.randomDelay()
		if err != nil {
			log.WithError(err).Warnf(
				"failed to fetch gas price, waiting %s before next poll", delay,
			)
		} else {
			log.Warnf(
				"current gas price %s gwei above threshold %s gwei, waiting %s",
				toGwei(price), toGwei(w.thresholdWei), delay,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (w *Watcher) randomDelay() time.Duration {
	if w.maxDelay <= w.minDelay {
		return w.minDelay
	}
	return w.minDelay + time.Duration(rand.Int63n(int64(w.maxDelay-w.minDelay)))
}

func toGwei(wei *big.Int) *big.Float {
	return new(big.Float).Quo(
		new(big.Float).SetInt(wei), big.NewFloat(params.GWei),
	)
}
