package application

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
	"github.com/non-fungible-user/starknet/pkg/gaswatch"
)

// LowBankService processes accounts one at a time front to back: fund the
// account from the exchange, drain its whole action budget, collect every
// asset back into ETH and send the proceeds out. Capital this thin cannot sit
// spread across wallets, so one account finishes its full route before the
// next one starts.
type LowBankService interface {
	Run(ctx context.Context) error
}

// LowBankOptions tunes the funding leg of the route.
type LowBankOptions struct {
	// WithdrawAmount is the randomized exchange funding size.
	WithdrawAmount config.FloatRange
}

type lowBankService struct {
	repo       domain.LedgerRepository
	factory    ports.ClientFactory
	rotator    ports.IPRotator
	oracle     ports.PriceOracle
	aggregator *Aggregator
	pipeline   *opPipeline
	withdrawer *exchangeWithdrawer
	sweeper    *sweeper
	out        *transferOut
	opts       LowBankOptions
}

func NewLowBankService(
	repo domain.LedgerRepository,
	factory ports.ClientFactory,
	oracle ports.PriceOracle,
	rotator ports.IPRotator,
	exchange ports.Exchange,
	gas *gaswatch.Watcher,
	aggregatorCfg AggregatorConfig,
	pipelineCfg PipelineConfig,
	exchangeCfg ExchangeConfig,
	collectorOpts CollectorOptions,
	senderOpts SenderOptions,
	opts LowBankOptions,
) LowBankService {
	pipeline := newOpPipeline(pipelineCfg, gas)
	return &lowBankService{
		repo:       repo,
		factory:    factory,
		rotator:    rotator,
		oracle:     oracle,
		aggregator: NewAggregator(aggregatorCfg),
		pipeline:   pipeline,
		withdrawer: newExchangeWithdrawer(exchange, exchangeCfg),
		sweeper: &sweeper{
			oracle:   oracle,
			pipeline: pipeline,
			opts:     collectorOpts,
		},
		out: &transferOut{
			pipeline: pipeline,
			opts:     senderOpts,
		},
		opts: opts,
	}
}

func (s *lowBankService) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ledger, err := s.repo.GetLedger(ctx)
		if err != nil {
			return err
		}
		if ledger.IsEmpty() {
			log.Info("ledger drained, every account routed")
			return nil
		}

		account, index, err := ledger.PickFirst()
		if err != nil {
			return err
		}
		log.Infof(
			"routing account %s, %d accounts queued behind it",
			account.ID, ledger.AccountsRemaining-1,
		)

		if s.rotator != nil {
			if err := s.rotator.Rotate(ctx); err != nil {
				log.WithError(err).Warn("ip rotation failed, keeping current ip")
			}
		}

		session, err := s.factory.NewSession(ctx, account)
		if err != nil {
			log.WithError(err).Warnf(
				"building session for account %s failed, retrying next round",
				account.ID,
			)
			continue
		}

		err = s.routeAccount(ctx, session, &account, index)
		if closeErr := session.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("closing account session")
		}

		switch {
		case err == nil:
		case IsProcessFatal(err):
			return err
		case domain.IsAccountTerminal(err) || isAccountFailed(err):
			log.WithError(err).Warnf(
				"account %s moved to the error bucket", account.ID,
			)
			if err := s.repo.UpdateLedger(ctx,
				func(l *domain.Ledger) (*domain.Ledger, error) {
					if err := l.MoveToErrors(account, index); err != nil {
						return nil, err
					}
					return l, nil
				}); err != nil {
				return err
			}
		default:
			log.WithError(err).Warnf(
				"account %s made no progress, retrying next round", account.ID,
			)
		}
	}
}

// routeAccount walks one account through the full route: exchange funding,
// budget drain, collection, final send. Every durable state change is
// persisted before the next leg starts so a crash resumes mid-route.
func (s *lowBankService) routeAccount(
	ctx context.Context,
	session ports.Session, account *domain.Account, index int,
) error {
	if err := s.fund(ctx, session, account, index); err != nil {
		return err
	}

	if err := s.drainBudget(ctx, session, account, index); err != nil {
		return err
	}

	if err := s.sweeper.sweepIntoEth(ctx, session, account.ID); err != nil {
		return err
	}

	// funds now sit on the account mid-route, a failed send cannot be
	// skipped over like an ordinary per-account error
	if err := s.out.send(ctx, session, account); err != nil {
		return processFatal(err)
	}

	return s.repo.UpdateLedger(ctx,
		func(l *domain.Ledger) (*domain.Ledger, error) {
			if err := l.RemoveAccount(index); err != nil {
				return nil, err
			}
			return l, nil
		})
}

// fund runs the one-time exchange withdrawal, flagging the account before any
// action so a crash never funds it twice.
func (s *lowBankService) fund(
	ctx context.Context,
	session ports.Session, account *domain.Account, index int,
) error {
	if account.IsOkxWithdrawCompleted {
		return nil
	}

	amount := s.opts.WithdrawAmount.DrawDecimal()
	if err := s.withdrawer.withdrawWithVolumeMode(
		ctx, session.Reader(), amount, session.StarknetAddress(),
	); err != nil {
		return err
	}

	account.IsOkxWithdrawCompleted = true
	return s.checkpoint(ctx, *account, index)
}

// drainBudget performs aggregated actions until every budget reaches zero,
// checkpointing the ledger after each one.
func (s *lowBankService) drainBudget(
	ctx context.Context,
	session ports.Session, account *domain.Account, index int,
) error {
	for account.TotalTxCount() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		token, amount, err := maxBalanceToken(ctx, session.Reader(), s.oracle)
		if err != nil {
			return err
		}
		action, err := s.aggregator.NextAction(*account, token, amount)
		if err != nil {
			return err
		}
		log.Infof(
			"account %s performs %s, %d actions left",
			account.ID, action.Op, account.TotalTxCount(),
		)

		if err := s.pipeline.run(ctx, session, action); err != nil {
			return err
		}
		if action.Budgeted() {
			if err := account.DecrementBudget(action.Op); err != nil {
				return err
			}
		}
		if err := s.checkpoint(ctx, *account, index); err != nil {
			return err
		}
	}
	return nil
}

// checkpoint persists the account in place. The account stays in the active
// pool even when fully drained, only the final send retires it.
func (s *lowBankService) checkpoint(
	ctx context.Context, account domain.Account, index int,
) error {
	return s.repo.UpdateLedger(ctx,
		func(l *domain.Ledger) (*domain.Ledger, error) {
			if err := l.PutAccount(account, index); err != nil {
				return nil, err
			}
			return l, nil
		})
}
