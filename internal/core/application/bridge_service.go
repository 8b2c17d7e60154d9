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

// BridgeService moves each account's ETH between StarkNet and an EVM chain
// through one of the supported bridges, then retires the account.
type BridgeService interface {
	Run(ctx context.Context) error
}

// BridgeOptions selects the bridge and the direction.
type BridgeOptions struct {
	// Op is one of the bridge operation kinds.
	Op domain.OpKind
	// IntoStarknet reverses the direction: funds leave the EVM side.
	IntoStarknet bool
	// SourceChain names the EVM side (ethereum, arbitrum, optimism).
	SourceChain string
	// KeepAmount is the randomized reserve left on the source side.
	KeepAmount config.FloatRange
	// RoundTo is the decimal precision the bridged amount is truncated to.
	RoundTo int32
	// Attempts and RetryDelay drive the EVM-side retry loop.
	Attempts   int
	RetryDelay time.Duration
}

type bridgeService struct {
	pipeline *opPipeline
	evmGas   *gaswatch.Watcher
	opts     BridgeOptions
	runner   *batchRunner
}

func NewBridgeService(
	repo domain.LedgerRepository,
	factory ports.ClientFactory,
	rotator ports.IPRotator,
	starknetGas, evmGas *gaswatch.Watcher,
	pipelineCfg PipelineConfig,
	opts BridgeOptions,
) BridgeService {
	svc := &bridgeService{
		pipeline: newOpPipeline(pipelineCfg, starknetGas),
		evmGas:   evmGas,
		opts:     opts,
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

func (s *bridgeService) Run(ctx context.Context) error {
	return s.runner.run(ctx)
}

func (s *bridgeService) step(
	ctx context.Context, session ports.Session, account *domain.Account,
) (stepResult, error) {
	var err error
	if s.opts.IntoStarknet {
		err = s.bridgeIn(ctx, session, account)
	} else {
		err = s.bridgeOut(ctx, session, account)
	}
	if err != nil {
		return stepResult{}, err
	}

	return stepResult{remove: true}, nil
}

func (s *bridgeService) bridgeOut(
	ctx context.Context, session ports.Session, account *domain.Account,
) error {
	balance, err := session.Reader().GetBalance(ctx, domain.TokenETH)
	if err != nil {
		return err
	}
	amount, err := s.spendableAmount(balance)
	if err != nil {
		return err
	}

	log.Infof(
		"account %s: bridging %s ETH out via %s",
		account.ID, amount, s.opts.Op,
	)
	return s.pipeline.run(ctx, session, domain.NewBridgeAction(
		domain.BridgeParams{
			Op:        s.opts.Op,
			Amount:    amount,
			Recipient: session.EvmAddress(),
		},
	))
}

// bridgeIn runs on the EVM side: balance read and retry discipline follow the
// EVM flavor, any failure or rejection is retried until the attempt cap.
func (s *bridgeService) bridgeIn(
	ctx context.Context, session ports.Session, account *domain.Account,
) error {
	reader := session.EvmReader(s.opts.SourceChain)
	balance, err := reader.GetBalance(ctx, domain.TokenETH)
	if err != nil {
		return err
	}
	amount, err := s.spendableAmount(balance)
	if err != nil {
		return err
	}

	if s.evmGas != nil {
		if err := s.evmGas.Wait(ctx); err != nil {
			return err
		}
	}

	action := domain.NewBridgeAction(domain.BridgeParams{
		Op:          s.opts.Op,
		Amount:      amount,
		Recipient:   session.StarknetAddress(),
		FromEvm:     true,
		SourceChain: s.opts.SourceChain,
	})
	log.Infof(
		"account %s: bridging %s ETH from %s via %s",
		account.ID, amount, s.opts.SourceChain, s.opts.Op,
	)
	return retry.DoUntilTrue(
		ctx, s.opts.Attempts, s.opts.RetryDelay,
		func(ctx context.Context) (bool, error) {
			return session.Writer().ExecuteAction(ctx, action)
		},
	)
}

func (s *bridgeService) spendableAmount(
	balance decimal.Decimal,
) (decimal.Decimal, error) {
	keep := s.opts.KeepAmount.DrawDecimal()
	amount := balance.Sub(keep).Truncate(s.opts.RoundTo)
	if amount.Sign() <= 0 {
		return amount, fmt.Errorf(
			"%w: keep %s against balance %s ETH",
			domain.ErrReserveExceedsBalance, keep, balance,
		)
	}
	return amount, nil
}
