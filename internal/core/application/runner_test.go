package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
)

func newTestAccount(budgets func(*domain.Account)) domain.Account {
	account := domain.NewAccount("0xkey")
	if budgets != nil {
		budgets(account)
	}
	return *account
}

func newTestRunner(
	repo domain.LedgerRepository, factory ports.ClientFactory, step stepFn,
) *batchRunner {
	return &batchRunner{
		repo:     repo,
		factory:  factory,
		selector: (*domain.Ledger).PickFirst,
		step:     step,
	}
}

func TestRunnerStopsOnEmptyLedger(t *testing.T) {
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{}))
	steps := 0
	runner := newTestRunner(repo, &fakeFactory{session: &fakeSession{}},
		func(context.Context, ports.Session, *domain.Account) (stepResult, error) {
			steps++
			return stepResult{}, nil
		})

	require.NoError(t, runner.run(context.Background()))
	require.Zero(t, steps)
}

func TestRunnerDrainsBudgetsAndRemovesAccounts(t *testing.T) {
	account := newTestAccount(func(a *domain.Account) {
		a.DmailTxCount = 2
	})
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{account}))
	session := &fakeSession{}

	runner := newTestRunner(repo, &fakeFactory{session: session},
		func(_ context.Context, _ ports.Session, a *domain.Account) (stepResult, error) {
			require.NoError(t, a.DecrementBudget(domain.OpDmailSend))
			return stepResult{}, nil
		})

	require.NoError(t, runner.run(context.Background()))

	ledger, err := repo.GetLedger(context.Background())
	require.NoError(t, err)
	require.True(t, ledger.IsEmpty())
	require.Empty(t, ledger.Errors)
	require.Equal(t, 0, ledger.AccountsRemaining)
	// one close per iteration, budget of two means two iterations
	require.Equal(t, 2, session.closed)
}

func TestRunnerMovesTerminalAccountToErrors(t *testing.T) {
	account := newTestAccount(func(a *domain.Account) {
		a.DmailTxCount = 5
	})
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{account}))

	runner := newTestRunner(repo, &fakeFactory{session: &fakeSession{}},
		func(context.Context, ports.Session, *domain.Account) (stepResult, error) {
			return stepResult{}, domain.ErrBalanceBelowMinimum
		})

	require.NoError(t, runner.run(context.Background()))

	ledger, err := repo.GetLedger(context.Background())
	require.NoError(t, err)
	require.Empty(t, ledger.Data)
	require.Len(t, ledger.Errors, 1)
	require.Equal(t, account.ID, ledger.Errors[0].ID)
	require.Equal(t, 0, ledger.AccountsRemaining)
}

func TestRunnerFatalAbortsRun(t *testing.T) {
	account := newTestAccount(func(a *domain.Account) {
		a.DmailTxCount = 1
	})
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{account}))

	boom := processFatal(errors.New("stranded"))
	runner := newTestRunner(repo, &fakeFactory{session: &fakeSession{}},
		func(context.Context, ports.Session, *domain.Account) (stepResult, error) {
			return stepResult{}, boom
		})

	err := runner.run(context.Background())
	require.Error(t, err)
	require.True(t, IsProcessFatal(err))

	// the account stays untouched for a later run
	ledger, _ := repo.GetLedger(context.Background())
	require.Len(t, ledger.Data, 1)
}

func TestRunnerKeepsAccountOnUnclassifiedError(t *testing.T) {
	account := newTestAccount(func(a *domain.Account) {
		a.DmailTxCount = 1
	})
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{account}))

	calls := 0
	runner := newTestRunner(repo, &fakeFactory{session: &fakeSession{}},
		func(_ context.Context, _ ports.Session, a *domain.Account) (stepResult, error) {
			calls++
			if calls == 1 {
				return stepResult{}, errors.New("rpc hiccup")
			}
			require.NoError(t, a.DecrementBudget(domain.OpDmailSend))
			return stepResult{}, nil
		})

	require.NoError(t, runner.run(context.Background()))
	require.Equal(t, 2, calls)

	ledger, _ := repo.GetLedger(context.Background())
	require.True(t, ledger.IsEmpty())
	require.Empty(t, ledger.Errors)
}

func TestRunnerRemoveResult(t *testing.T) {
	accounts := []domain.Account{
		newTestAccount(func(a *domain.Account) { a.DmailTxCount = 9 }),
		newTestAccount(func(a *domain.Account) { a.DmailTxCount = 9 }),
	}
	repo := newInMemoryRepo(domain.NewLedger(accounts))

	runner := newTestRunner(repo, &fakeFactory{session: &fakeSession{}},
		func(context.Context, ports.Session, *domain.Account) (stepResult, error) {
			return stepResult{remove: true}, nil
		})

	require.NoError(t, runner.run(context.Background()))

	ledger, _ := repo.GetLedger(context.Background())
	require.True(t, ledger.IsEmpty())
	require.Empty(t, ledger.Errors)
}

func TestRunnerPropagatesStorageFailure(t *testing.T) {
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{}))
	repo.getErr = errors.New("ledger file corrupted")

	runner := newTestRunner(repo, &fakeFactory{session: &fakeSession{}},
		func(context.Context, ports.Session, *domain.Account) (stepResult, error) {
			return stepResult{}, nil
		})

	require.ErrorIs(t, runner.run(context.Background()), repo.getErr)
}
