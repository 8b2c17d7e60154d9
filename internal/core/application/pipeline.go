package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
	"github.com/non-fungible-user/starknet/pkg/gaswatch"
	"github.com/non-fungible-user/starknet/pkg/retry"
)

// PipelineConfig parameterizes the per-operation execution pipeline.
type PipelineConfig struct {
	// MinEthBalance gates every operation, an account below it is done for.
	MinEthBalance decimal.Decimal
	// Attempts and RetryDelay drive the transient-error retry loop.
	Attempts   int
	RetryDelay time.Duration
	// TxDelay is the randomized human-pacing pause after a committed action,
	// in seconds.
	TxDelay config.IntRange
}

// opPipeline runs one action through the fixed stage order: balance gate,
// gas wait, retried execution, post-action pause.
type opPipeline struct {
	cfg PipelineConfig
	gas *gaswatch.Watcher
}

func newOpPipeline(cfg PipelineConfig, gas *gaswatch.Watcher) *opPipeline {
	return &opPipeline{cfg: cfg, gas: gas}
}

func (p *opPipeline) run(
	ctx context.Context, session ports.Session, action domain.Action,
) error {
	balance, err := session.Reader().GetBalance(ctx, domain.TokenETH)
	if err != nil {
		return err
	}
	if balance.LessThan(p.cfg.MinEthBalance) {
		return fmt.Errorf(
			"%w: %s ETH < %s ETH",
			domain.ErrBalanceBelowMinimum, balance, p.cfg.MinEthBalance,
		)
	}

	if p.gas != nil {
		if err := p.gas.Wait(ctx); err != nil {
			return err
		}
	}

	if err := retry.Do(
		ctx, p.cfg.Attempts, p.cfg.RetryDelay,
		func(ctx context.Context) error {
			accepted, err := session.Writer().ExecuteAction(ctx, action)
			if err != nil {
				return err
			}
			if !accepted {
				return ErrActionRejected
			}
			return nil
		},
	); err != nil {
		return err
	}
	log.Infof("%s committed", action.Op)

	return p.pause(ctx)
}

func (p *opPipeline) pause(ctx context.Context) error {
	pause := time.Duration(p.cfg.TxDelay.Draw()) * time.Second
	if pause <= 0 {
		return nil
	}
	log.Debugf("pausing %s before the next action", pause)
	select {
	case <-time.After(pause):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
