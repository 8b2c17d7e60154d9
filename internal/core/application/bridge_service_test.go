package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/non-fungible-user/starknet/internal/core/domain"
)

func testBridgeOptions() BridgeOptions {
	return BridgeOptions{
		Op:         domain.OpStarkgateBridge,
		KeepAmount: floatRange(0.001, 0.001),
		RoundTo:    6,
		Attempts:   1,
	}
}

func TestBridgeOutRemovesAccount(t *testing.T) {
	account := newTestAccount(nil)
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{account}))
	session := &fakeSession{
		reader: &fakeReader{balances: map[string]decimal.Decimal{
			domain.TokenETH.Address: decimal.NewFromFloat(0.05),
		}},
		writer: &fakeWriter{},
	}

	svc := NewBridgeService(
		repo, &fakeFactory{session: session}, nil, nil, nil,
		testPipelineConfig(), testBridgeOptions(),
	)
	require.NoError(t, svc.Run(context.Background()))

	ledger, _ := repo.GetLedger(context.Background())
	require.True(t, ledger.IsEmpty())
	require.Empty(t, ledger.Errors)

	require.Len(t, session.writer.actions, 1)
	action := session.writer.actions[0]
	require.Equal(t, domain.OpStarkgateBridge, action.Op)
	require.Equal(t, "0xevm", action.Bridge.Recipient)
	require.False(t, action.Bridge.FromEvm)
	require.True(t,
		action.Bridge.Amount.Equal(decimal.NewFromFloat(0.049)),
		"bridged %s", action.Bridge.Amount,
	)
}

func TestBridgeInSendsToStarknetAddress(t *testing.T) {
	account := newTestAccount(nil)
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{account}))
	session := &fakeSession{
		reader: &fakeReader{balances: map[string]decimal.Decimal{
			domain.TokenETH.Address: decimal.NewFromFloat(0.03),
		}},
		writer: &fakeWriter{},
	}

	opts := testBridgeOptions()
	opts.Op = domain.OpOrbiterBridge
	opts.IntoStarknet = true
	opts.SourceChain = "arbitrum"
	svc := NewBridgeService(
		repo, &fakeFactory{session: session}, nil, nil, nil,
		testPipelineConfig(), opts,
	)
	require.NoError(t, svc.Run(context.Background()))

	ledger, _ := repo.GetLedger(context.Background())
	require.True(t, ledger.IsEmpty())

	require.Len(t, session.writer.actions, 1)
	action := session.writer.actions[0]
	require.Equal(t, domain.OpOrbiterBridge, action.Op)
	require.Equal(t, "0xstark", action.Bridge.Recipient)
	require.True(t, action.Bridge.FromEvm)
	require.Equal(t, "arbitrum", action.Bridge.SourceChain)
}

func TestBridgeReserveAboveBalanceRoutesToErrors(t *testing.T) {
	account := newTestAccount(nil)
	repo := newInMemoryRepo(domain.NewLedger([]domain.Account{account}))
	session := &fakeSession{
		reader: &fakeReader{balances: map[string]decimal.Decimal{
			domain.TokenETH.Address: decimal.NewFromFloat(0.0005),
		}},
		writer: &fakeWriter{},
	}

	svc := NewBridgeService(
		repo, &fakeFactory{session: session}, nil, nil, nil,
		testPipelineConfig(), testBridgeOptions(),
	)
	require.NoError(t, svc.Run(context.Background()))

	ledger, _ := repo.GetLedger(context.Background())
	require.Empty(t, ledger.Data)
	require.Len(t, ledger.Errors, 1)
	require.Empty(t, session.writer.actions)
}
