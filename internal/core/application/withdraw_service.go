package application

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
)

// WithdrawService requests one exchange withdrawal per account to its own
// StarkNet address. Delivery is not watched, the exchange queue is trusted to
// land funds eventually.
type WithdrawService interface {
	Run(ctx context.Context) error
}

// WithdrawOptions tunes the per-account withdrawal.
type WithdrawOptions struct {
	Currency string
	// Amount is the randomized withdrawal size.
	Amount config.FloatRange
}

type withdrawService struct {
	exchange ports.Exchange
	opts     WithdrawOptions
	runner   *batchRunner
}

func NewWithdrawService(
	repo domain.LedgerRepository,
	factory ports.ClientFactory,
	rotator ports.IPRotator,
	exchange ports.Exchange,
	opts WithdrawOptions,
) WithdrawService {
	svc := &withdrawService{exchange: exchange, opts: opts}
	svc.runner = &batchRunner{
		repo:     repo,
		factory:  factory,
		rotator:  rotator,
		selector: (*domain.Ledger).PickRandom,
		step:     svc.step,
	}
	return svc
}

func (s *withdrawService) Run(ctx context.Context) error {
	return s.runner.run(ctx)
}

func (s *withdrawService) step(
	ctx context.Context, session ports.Session, account *domain.Account,
) (stepResult, error) {
	amount := s.opts.Amount.DrawDecimal()
	id, err := s.exchange.Withdraw(
		ctx, s.opts.Currency, amount, session.StarknetAddress(),
	)
	if err != nil {
		return stepResult{}, err
	}

	log.Infof(
		"account %s: withdrawal %s of %s %s requested to %s",
		account.ID, id, amount, s.opts.Currency, session.StarknetAddress(),
	)
	return stepResult{remove: true}, nil
}
