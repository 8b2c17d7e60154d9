package application

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
)

// stepResult tells the runner how to persist a committed step.
type stepResult struct {
	// remove drops the account from the active pool regardless of budgets,
	// used by workflows whose single action completes the account.
	remove bool
}

type selectorFn func(*domain.Ledger) (domain.Account, int, error)

// stepFn runs one workflow step for the selected account. The account pointer
// carries budget mutations back to the runner for persistence.
type stepFn func(
	ctx context.Context, session ports.Session, account *domain.Account,
) (stepResult, error)

// batchRunner drives a workflow over the ledger one account at a time until
// no active account remains. Every iteration reloads the ledger from disk so
// a crash never loses more than the in-flight step.
type batchRunner struct {
	repo     domain.LedgerRepository
	factory  ports.ClientFactory
	rotator  ports.IPRotator
	selector selectorFn
	step     stepFn
}

func (r *batchRunner) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ledger, err := r.repo.GetLedger(ctx)
		if err != nil {
			return err
		}
		if ledger.IsEmpty() {
			log.Info("ledger drained, every account processed")
			return nil
		}
		log.Infof(
			"%d accounts remaining, %d actions left",
			ledger.AccountsRemaining, ledger.TotalTxCount(),
		)

		account, index, err := r.selector(ledger)
		if err != nil {
			return err
		}

		if r.rotator != nil {
			if err := r.rotator.Rotate(ctx); err != nil {
				log.WithError(err).Warn("ip rotation failed, keeping current ip")
			}
		}

		session, err := r.factory.NewSession(ctx, account)
		if err != nil {
			log.WithError(err).Warnf(
				"building session for account %s failed, it stays queued",
				account.ID,
			)
			continue
		}

		res, err := r.step(ctx, session, &account)
		if closeErr := session.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("closing account session")
		}

		if err := r.settle(ctx, account, index, res, err); err != nil {
			return err
		}
	}
}

// settle persists the outcome of one step. Terminal-per-account errors move
// the account to the error bucket, fatal errors abort the run, anything else
// leaves the account queued for a later round.
func (r *batchRunner) settle(
	ctx context.Context,
	account domain.Account, index int, res stepResult, stepErr error,
) error {
	switch {
	case stepErr == nil:
		return r.repo.UpdateLedger(ctx,
			func(l *domain.Ledger) (*domain.Ledger, error) {
				if res.remove {
					if err := l.RemoveAccount(index); err != nil {
						return nil, err
					}
				} else if err := l.UpdateAccount(account, index); err != nil {
					return nil, err
				}
				return l, nil
			})

	case IsProcessFatal(stepErr):
		return stepErr

	case domain.IsAccountTerminal(stepErr) ||
		isAccountFailed(stepErr):
		log.WithError(stepErr).Warnf(
			"account %s moved to the error bucket", account.ID,
		)
		return r.repo.UpdateLedger(ctx,
			func(l *domain.Ledger) (*domain.Ledger, error) {
				if err := l.MoveToErrors(account, index); err != nil {
					return nil, err
				}
				return l, nil
			})

	default:
		log.WithError(stepErr).Warnf(
			"account %s made no progress, it stays queued", account.ID,
		)
		return nil
	}
}
