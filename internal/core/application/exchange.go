package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
)

// ExchangeConfig parameterizes the exchange withdrawal orchestration.
type ExchangeConfig struct {
	Currency        string
	StatusAttempts  int
	StatusInterval  time.Duration
	ReceiveAttempts int
	ReceiveInterval time.Duration
	// DepositWait is the pause between sub-account sweep rounds while the
	// main funding balance is still short.
	DepositWait time.Duration
}

// exchangeWithdrawer funds accounts from the exchange. Volume mode first
// sweeps every sub-account into the main one until the requested amount is
// covered, then withdraws and watches both the withdrawal state and the
// destination balance.
type exchangeWithdrawer struct {
	exchange ports.Exchange
	cfg      ExchangeConfig
}

func newExchangeWithdrawer(
	exchange ports.Exchange, cfg ExchangeConfig,
) *exchangeWithdrawer {
	return &exchangeWithdrawer{exchange: exchange, cfg: cfg}
}

// withdrawWithVolumeMode routes amount to address and only returns once the
// funds are observed on chain through reader.
func (w *exchangeWithdrawer) withdrawWithVolumeMode(
	ctx context.Context,
	reader ports.ChainReader, amount decimal.Decimal, address string,
) error {
	before, err := reader.GetBalance(ctx, domain.TokenETH)
	if err != nil {
		return err
	}

	if err := w.ensureFunds(ctx, amount); err != nil {
		return err
	}

	id, err := w.exchange.Withdraw(ctx, w.cfg.Currency, amount, address)
	if err != nil {
		return err
	}
	log.Infof(
		"requested withdrawal %s of %s %s to %s",
		id, amount, w.cfg.Currency, address,
	)

	if err := w.waitCompleted(ctx, id); err != nil {
		return err
	}
	return w.waitDelivered(ctx, reader, before)
}

// ensureFunds sweeps sub-account balances into the main one until it covers
// amount, waiting between rounds for in-flight deposits to land.
func (w *exchangeWithdrawer) ensureFunds(
	ctx context.Context, amount decimal.Decimal,
) error {
	for i := 0; i < w.cfg.ReceiveAttempts; i++ {
		balance, err := w.exchange.MainBalance(ctx, w.cfg.Currency)
		if err != nil {
			return err
		}
		if balance.GreaterThanOrEqual(amount) {
			return nil
		}

		log.Infof(
			"main balance %s %s below requested %s, sweeping sub-accounts",
			balance, w.cfg.Currency, amount,
		)
		subs, err := w.exchange.SubAccountBalances(ctx, w.cfg.Currency)
		if err != nil {
			return err
		}
		for _, sub := range subs {
			if sub.Balance.Sign() <= 0 {
				continue
			}
			if err := w.exchange.TransferFromSubAccount(
				ctx, sub.Name, w.cfg.Currency, sub.Balance,
			); err != nil {
				log.WithError(err).Warnf(
					"sweeping sub-account %s failed", sub.Name,
				)
			}
		}

		if err := sleep(ctx, w.cfg.DepositWait); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: wanted %s %s", ErrFundingTimeout, amount, w.cfg.Currency)
}

func (w *exchangeWithdrawer) waitCompleted(
	ctx context.Context, withdrawalID string,
) error {
	for i := 0; i < w.cfg.StatusAttempts; i++ {
		state, err := w.exchange.WithdrawalStatus(ctx, withdrawalID)
		if err != nil {
			log.WithError(err).Warn("withdrawal status check failed")
		} else {
			switch state {
			case ports.WithdrawalCompleted:
				return nil
			case ports.WithdrawalCancelled:
				return fmt.Errorf("%w: %s", ErrWithdrawalCancelled, withdrawalID)
			}
		}
		if err := sleep(ctx, w.cfg.StatusInterval); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrWithdrawalNotCompleted, withdrawalID)
}

func (w *exchangeWithdrawer) waitDelivered(
	ctx context.Context, reader ports.ChainReader, before decimal.Decimal,
) error {
	for i := 0; i < w.cfg.ReceiveAttempts; i++ {
		balance, err := reader.GetBalance(ctx, domain.TokenETH)
		if err == nil && balance.GreaterThan(before) {
			log.Infof("funds delivered, balance %s ETH", balance)
			return nil
		}
		if err != nil {
			log.WithError(err).Warn("destination balance check failed")
		}
		if err := sleep(ctx, w.cfg.ReceiveInterval); err != nil {
			return err
		}
	}
	return ErrDeliveryNotObserved
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
