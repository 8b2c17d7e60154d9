package application

import (
	"context"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
	"github.com/non-fungible-user/starknet/pkg/gaswatch"
)

// WarmupService drives random accounts through one aggregated action per
// iteration until every budget in the ledger is spent.
type WarmupService interface {
	Run(ctx context.Context) error
}

// WarmupOptions selects the warmup variant.
type WarmupOptions struct {
	// TopupThreshold enables the gas top-up variant when positive: accounts
	// whose ETH balance sits below it get an exchange withdrawal first.
	TopupThreshold decimal.Decimal
	// TopupAmount is the randomized exchange withdrawal size.
	TopupAmount config.FloatRange
}

type warmupService struct {
	repo       domain.LedgerRepository
	oracle     ports.PriceOracle
	aggregator *Aggregator
	pipeline   *opPipeline
	withdrawer *exchangeWithdrawer
	opts       WarmupOptions

	runner *batchRunner
}

func NewWarmupService(
	repo domain.LedgerRepository,
	factory ports.ClientFactory,
	oracle ports.PriceOracle,
	rotator ports.IPRotator,
	exchange ports.Exchange,
	gas *gaswatch.Watcher,
	aggregatorCfg AggregatorConfig,
	pipelineCfg PipelineConfig,
	exchangeCfg ExchangeConfig,
	opts WarmupOptions,
) WarmupService {
	svc := &warmupService{
		repo:       repo,
		oracle:     oracle,
		aggregator: NewAggregator(aggregatorCfg),
		pipeline:   newOpPipeline(pipelineCfg, gas),
		opts:       opts,
	}
	if exchange != nil {
		svc.withdrawer = newExchangeWithdrawer(exchange, exchangeCfg)
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

func (s *warmupService) Run(ctx context.Context) error {
	return s.runner.run(ctx)
}

func (s *warmupService) step(
	ctx context.Context, session ports.Session, account *domain.Account,
) (stepResult, error) {
	if err := s.topUpGas(ctx, session); err != nil {
		return stepResult{}, err
	}

	token, amount, err := maxBalanceToken(ctx, session.Reader(), s.oracle)
	if err != nil {
		return stepResult{}, err
	}
	log.Debugf(
		"account %s holds most value in %s (%s)",
		account.ID, token.Symbol, amount,
	)

	action, err := s.aggregator.NextAction(*account, token, amount)
	if err != nil {
		return stepResult{}, err
	}
	log.Infof("account %s performs %s", account.ID, action.Op)

	if err := s.pipeline.run(ctx, session, action); err != nil {
		return stepResult{}, err
	}

	if action.Budgeted() {
		if err := account.DecrementBudget(action.Op); err != nil {
			return stepResult{}, err
		}
	}
	return stepResult{}, nil
}

// topUpGas funds the account from the exchange when its ETH balance dropped
// below the configured threshold. Only active in the gas top-up variant.
func (s *warmupService) topUpGas(
	ctx context.Context, session ports.Session,
) error {
	if s.withdrawer == nil || s.opts.TopupThreshold.Sign() <= 0 {
		return nil
	}

	balance, err := session.Reader().GetBalance(ctx, domain.TokenETH)
	if err != nil {
		return err
	}
	if balance.GreaterThanOrEqual(s.opts.TopupThreshold) {
		return nil
	}

	amount := s.opts.TopupAmount.DrawDecimal()
	log.Infof(
		"balance %s ETH below %s, topping up %s from exchange",
		balance, s.opts.TopupThreshold, amount,
	)
	return s.withdrawer.withdrawWithVolumeMode(
		ctx, session.Reader(), amount, session.StarknetAddress(),
	)
}
