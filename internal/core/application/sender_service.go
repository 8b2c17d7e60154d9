package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
	"github.com/non-fungible-user/starknet/pkg/gaswatch"
)

// SenderService transfers each account's ETH, minus a randomized reserve, to
// its withdrawal address and retires the account.
type SenderService interface {
	Run(ctx context.Context) error
}

// SenderOptions tunes the final transfer.
type SenderOptions struct {
	// KeepAmount is the randomized ETH reserve left on the account.
	KeepAmount config.FloatRange
	// RoundTo is the decimal precision the sent amount is truncated to.
	RoundTo int32
}

type senderService struct {
	out    *transferOut
	runner *batchRunner
}

func NewSenderService(
	repo domain.LedgerRepository,
	factory ports.ClientFactory,
	rotator ports.IPRotator,
	gas *gaswatch.Watcher,
	pipelineCfg PipelineConfig,
	opts SenderOptions,
) SenderService {
	svc := &senderService{
		out: &transferOut{
			pipeline: newOpPipeline(pipelineCfg, gas),
			opts:     opts,
		},
	}
	svc.runner = &batchRunner{
		repo:     repo,
		factory:  factory,
		rotator:  rotator,
		selector: (*domain.Ledger).PickRandom,
		step:     svc.step,
	}
	return svc
}

func (s *senderService) Run(ctx context.Context) error {
	return s.runner.run(ctx)
}

func (s *senderService) step(
	ctx context.Context, session ports.Session, account *domain.Account,
) (stepResult, error) {
	if err := s.out.send(ctx, session, account); err != nil {
		return stepResult{}, err
	}
	return stepResult{remove: true}, nil
}

// transferOut moves the ETH balance minus a randomized reserve to the
// account's withdrawal address.
type transferOut struct {
	pipeline *opPipeline
	opts     SenderOptions
}

func (t *transferOut) send(
	ctx context.Context, session ports.Session, account *domain.Account,
) error {
	if account.WithdrawalAddress == "" {
		return accountFailed(ErrMissingWithdrawalAddress)
	}

	balance, err := session.Reader().GetBalance(ctx, domain.TokenETH)
	if err != nil {
		return err
	}

	keep := t.opts.KeepAmount.DrawDecimal()
	if keep.GreaterThan(balance) {
		return fmt.Errorf(
			"%w: keep %s > balance %s ETH",
			domain.ErrReserveExceedsBalance, keep, balance,
		)
	}
	amount := balance.Sub(keep).Truncate(t.opts.RoundTo)
	if amount.Sign() <= 0 {
		return fmt.Errorf(
			"%w: %s ETH after reserve", domain.ErrNonPositiveAmount, amount,
		)
	}

	log.Infof(
		"account %s: sending %s ETH to %s, keeping %s",
		account.ID, amount, account.WithdrawalAddress, keep,
	)
	return t.pipeline.run(ctx, session, domain.NewTransferAction(
		domain.TransferParams{
			Token:     domain.TokenETH,
			Amount:    amount,
			Recipient: account.WithdrawalAddress,
		},
	))
}
