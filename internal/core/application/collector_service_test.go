package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/non-fungible-user/starknet/internal/core/domain"
)

func testPipelineConfig() PipelineConfig {
	return PipelineConfig{Attempts: 1}
}

func testCollectorOptions() CollectorOptions {
	return CollectorOptions{
		MinUsdValue: decimal.NewFromInt(3),
		UseAvnu:     true,
		RoundTo:     6,
	}
}

func collectorFixtures() (*inMemoryRepo, *fakeSession, *fakeOracle) {
	account := newTestAccount(nil)
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{account}))
	session := &fakeSession{
		reader: &fakeReader{balances: map[string]decimal.Decimal{
			domain.TokenETH.Address:  decimal.NewFromFloat(0.05),
			domain.TokenUSDC.Address: decimal.NewFromInt(100),
			domain.TokenUSDT.Address: decimal.NewFromInt(50),
		}},
		writer: &fakeWriter{},
	}
	oracle := &fakeOracle{prices: map[string]decimal.Decimal{
		"usd-coin": decimal.NewFromInt(1),
		"tether":   decimal.NewFromInt(1),
	}}
	return repo, session, oracle
}

func TestCollectorSweepsAndRetiresAccount(t *testing.T) {
	repo, session, oracle := collectorFixtures()

	svc := NewCollectorService(
		repo, &fakeFactory{session: session}, oracle, nil, nil,
		testPipelineConfig(), testCollectorOptions(),
	)
	require.NoError(t, svc.Run(context.Background()))

	ledger, _ := repo.GetLedger(context.Background())
	require.True(t, ledger.IsEmpty())
	require.Empty(t, ledger.Errors)

	// USDC and USDT swept, DAI and WBTC are dust
	require.Len(t, session.writer.actions, 2)
	for _, action := range session.writer.actions {
		require.Equal(t, domain.OpAvnuSwap, action.Op)
		require.Equal(t, domain.VenueAvnu, action.Swap.Venue)
		require.Equal(t, domain.TokenETH.Address, action.Swap.TokenOut.Address)
	}
}

func TestCollectorPartialFailureRoutesToErrors(t *testing.T) {
	repo, session, oracle := collectorFixtures()
	// the first sweep reverts, the remaining tokens must still be attempted
	session.writer.script = []error{errors.New("pool reverted"), nil}

	svc := NewCollectorService(
		repo, &fakeFactory{session: session}, oracle, nil, nil,
		testPipelineConfig(), testCollectorOptions(),
	)
	require.NoError(t, svc.Run(context.Background()))

	ledger, _ := repo.GetLedger(context.Background())
	require.Empty(t, ledger.Data)
	require.Len(t, ledger.Errors, 1)
	// USDT was swept even though USDC failed before it
	require.Len(t, session.writer.actions, 2)
}

func TestCollectorSkipsTokenAtDustThreshold(t *testing.T) {
	repo, session, oracle := collectorFixtures()
	// worth exactly the configured minimum, still dust
	session.reader.balances[domain.TokenUSDT.Address] = decimal.NewFromInt(3)

	svc := NewCollectorService(
		repo, &fakeFactory{session: session}, oracle, nil, nil,
		testPipelineConfig(), testCollectorOptions(),
	)
	require.NoError(t, svc.Run(context.Background()))

	ledger, _ := repo.GetLedger(context.Background())
	require.True(t, ledger.IsEmpty())
	require.Empty(t, ledger.Errors)
	require.Len(t, session.writer.actions, 1)
	require.Equal(t, domain.TokenUSDC.Address, session.writer.actions[0].Swap.TokenIn.Address)
}

func TestCollectorSkipsAllDust(t *testing.T) {
	repo, session, oracle := collectorFixtures()
	session.reader.balances = map[string]decimal.Decimal{
		domain.TokenETH.Address: decimal.NewFromFloat(0.05),
	}

	svc := NewCollectorService(
		repo, &fakeFactory{session: session}, oracle, nil, nil,
		testPipelineConfig(), testCollectorOptions(),
	)
	require.NoError(t, svc.Run(context.Background()))

	ledger, _ := repo.GetLedger(context.Background())
	require.True(t, ledger.IsEmpty())
	require.Empty(t, ledger.Errors)
	require.Empty(t, session.writer.actions)
}
