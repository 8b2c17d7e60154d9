package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
	"github.com/non-fungible-user/starknet/pkg/gaswatch"
)

// CollectorService sweeps every stable and wrapped asset of each account into
// ETH, then retires the account.
type CollectorService interface {
	Run(ctx context.Context) error
}

// CollectorOptions tunes the sweep.
type CollectorOptions struct {
	// MinUsdValue is the value at or below which a token is dust and skipped.
	MinUsdValue decimal.Decimal
	// UseAvnu routes sweeps through the Avnu aggregator instead of Jediswap.
	UseAvnu bool
	// RoundTo is the decimal precision swap amounts are truncated to.
	RoundTo int32
}

type collectorService struct {
	sweeper *sweeper
	runner  *batchRunner
}

func NewCollectorService(
	repo domain.LedgerRepository,
	factory ports.ClientFactory,
	oracle ports.PriceOracle,
	rotator ports.IPRotator,
	gas *gaswatch.Watcher,
	pipelineCfg PipelineConfig,
	opts CollectorOptions,
) CollectorService {
	svc := &collectorService{
		sweeper: &sweeper{
			oracle:   oracle,
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

func (s *collectorService) Run(ctx context.Context) error {
	return s.runner.run(ctx)
}

func (s *collectorService) step(
	ctx context.Context, session ports.Session, account *domain.Account,
) (stepResult, error) {
	if err := s.sweeper.sweepIntoEth(ctx, session, account.ID); err != nil {
		return stepResult{}, err
	}
	return stepResult{remove: true}, nil
}

// sweeper converts every collectible token of an account into ETH. Every
// token is attempted even when an earlier one fails, any failure then routes
// the partially collected account to the error bucket where a human can
// finish the job.
type sweeper struct {
	oracle   ports.PriceOracle
	pipeline *opPipeline
	opts     CollectorOptions
}

func (s *sweeper) sweepIntoEth(
	ctx context.Context, session ports.Session, accountID string,
) error {
	ids := make([]string, 0, len(domain.CollectorTokens))
	for _, token := range domain.CollectorTokens {
		ids = append(ids, token.CoingeckoID)
	}
	prices, err := s.oracle.GetUsdPrices(ctx, ids)
	if err != nil {
		return err
	}

	venue := domain.VenueJediswap
	if s.opts.UseAvnu {
		venue = domain.VenueAvnu
	}

	var failures []string
	for i, token := range domain.CollectorTokens {
		if err := ctx.Err(); err != nil {
			return err
		}

		balance, err := session.Reader().GetBalance(ctx, token)
		if err != nil {
			failures = append(failures, fmt.Sprintf(
				"reading %s balance: %s", token.Symbol, err,
			))
			continue
		}

		usd := balance.Mul(prices[i])
		if usd.LessThanOrEqual(s.opts.MinUsdValue) {
			log.Debugf(
				"account %s: %s worth %s USD is dust, skipping",
				accountID, token.Symbol, usd.StringFixed(2),
			)
			continue
		}

		action := domain.NewSwapAction(domain.SwapParams{
			Venue:    venue,
			TokenIn:  token,
			TokenOut: domain.TokenETH,
			AmountIn: balance.Truncate(s.opts.RoundTo),
		})
		log.Infof(
			"account %s: sweeping %s %s into ETH via %s",
			accountID, balance, token.Symbol, venue,
		)
		if err := s.pipeline.run(ctx, session, action); err != nil {
			log.WithError(err).Warnf(
				"account %s: sweeping %s failed", accountID, token.Symbol,
			)
			failures = append(failures, fmt.Sprintf(
				"sweeping %s: %s", token.Symbol, err,
			))
		}
	}
	if len(failures) > 0 {
		return accountFailed(fmt.Errorf(
			"sweep left tokens behind: %s", strings.Join(failures, "; "),
		))
	}
	return nil
}
