package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/domain"
)

func testBudgetRanges() BudgetRanges {
	return BudgetRanges{
		Dmail:              config.IntRange{Min: 1, Max: 3},
		NftAllowance:       config.IntRange{Min: 0, Max: 2},
		Myswap:             config.IntRange{Min: 1, Max: 3},
		Jediswap:           config.IntRange{Min: 1, Max: 3},
		Tenkswap:           config.IntRange{Min: 1, Max: 3},
		Sithswap:           config.IntRange{Min: 1, Max: 3},
		Avnu:               config.IntRange{Min: 1, Max: 3},
		MyIdentity:         config.IntRange{Min: 0, Max: 1},
		Starkverse:         config.IntRange{Min: 0, Max: 1},
		Zklend:             config.IntRange{Min: 1, Max: 2},
		WithdrawFromZklend: true,
	}
}

func TestInitGeneratesLedger(t *testing.T) {
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{}))
	params := InitParams{
		StarknetKeys:        []string{"0x1", "0x2", "0x3"},
		Proxies:             []string{"p1", "p2", "p3"},
		WithdrawalAddresses: []string{"w1", "w2", "w3"},
	}

	svc := NewInitService(repo, params, testBudgetRanges())
	require.NoError(t, svc.Run(context.Background()))

	ledger, err := repo.GetLedger(context.Background())
	require.NoError(t, err)
	require.Len(t, ledger.Data, 3)
	require.Equal(t, 3, ledger.AccountsRemaining)
	require.Empty(t, ledger.Errors)

	for i, account := range ledger.Data {
		require.NotEmpty(t, account.ID)
		require.Equal(t, params.StarknetKeys[i], account.StarknetPrivateKey)
		require.Equal(t, params.Proxies[i], account.Proxy)
		require.Equal(t, params.WithdrawalAddresses[i], account.WithdrawalAddress)
		require.Empty(t, account.StarknetWalletSalt)

		require.Greater(t, account.TotalTxCount(), 0)
		require.GreaterOrEqual(t, account.DmailTxCount, 1)
		require.LessOrEqual(t, account.DmailTxCount, 3)
		// withdrawals mirror deposits
		require.Equal(t, account.ZklendDepositTxCount, account.ZklendWithdrawTxCount)
	}
}

func TestInitEmptyKeyListFails(t *testing.T) {
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{}))
	svc := NewInitService(repo, InitParams{}, testBudgetRanges())
	require.ErrorIs(t, svc.Run(context.Background()), ErrEmptyKeyList)
}

func TestInitListLengthMismatchFails(t *testing.T) {
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{}))
	params := InitParams{
		StarknetKeys: []string{"0x1", "0x2"},
		Proxies:      []string{"p1"},
	}
	svc := NewInitService(repo, params, testBudgetRanges())
	require.ErrorIs(t, svc.Run(context.Background()), ErrInputListMismatch)
}

func TestInitZeroBudgetRangesFail(t *testing.T) {
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{}))
	svc := NewInitService(
		repo, InitParams{StarknetKeys: []string{"0x1"}}, BudgetRanges{},
	)
	require.ErrorIs(t, svc.Run(context.Background()), ErrZeroBudgetRanges)
}

func TestInitWithoutZklendMirror(t *testing.T) {
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{}))
	budgets := testBudgetRanges()
	budgets.WithdrawFromZklend = false

	svc := NewInitService(
		repo, InitParams{StarknetKeys: []string{"0x1"}}, budgets,
	)
	require.NoError(t, svc.Run(context.Background()))

	ledger, _ := repo.GetLedger(context.Background())
	require.Zero(t, ledger.Data[0].ZklendWithdrawTxCount)
}
