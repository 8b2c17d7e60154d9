package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
)

// **** Ledger repository ****

// inMemoryRepo mimics the file repository's reload-on-read behavior by
// handing out deep copies.
type inMemoryRepo struct {
	ledger *domain.Ledger
	getErr error
}

func newInMemoryRepo(ledger *domain.Ledger) *inMemoryRepo {
	return &inMemoryRepo{ledger: cloneLedger(ledger)}
}

func (r *inMemoryRepo) GetLedger(_ context.Context) (*domain.Ledger, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return cloneLedger(r.ledger), nil
}

func (r *inMemoryRepo) SaveLedger(
	_ context.Context, ledger *domain.Ledger,
) error {
	r.ledger = cloneLedger(ledger)
	return nil
}

func (r *inMemoryRepo) UpdateLedger(
	ctx context.Context, updateFn func(*domain.Ledger) (*domain.Ledger, error),
) error {
	ledger, err := r.GetLedger(ctx)
	if err != nil {
		return err
	}
	updated, err := updateFn(ledger)
	if err != nil {
		return err
	}
	return r.SaveLedger(ctx, updated)
}

func cloneLedger(ledger *domain.Ledger) *domain.Ledger {
	clone := &domain.Ledger{
		Data:              append([]domain.Account{}, ledger.Data...),
		Errors:            append([]domain.Account{}, ledger.Errors...),
		AccountsRemaining: ledger.AccountsRemaining,
	}
	return clone
}

// **** Chain clients ****

type fakeReader struct {
	balances map[string]decimal.Decimal
	err      error
}

func (r *fakeReader) GetBalance(
	_ context.Context, token domain.Token,
) (decimal.Decimal, error) {
	if r.err != nil {
		return decimal.Zero, r.err
	}
	return r.balances[token.Address], nil
}

// fakeWriter replays a script of outcomes, one per ExecuteAction call, and
// records every dispatched action. An exhausted script accepts everything.
type fakeWriter struct {
	script  []error
	rejects int
	actions []domain.Action
}

func (w *fakeWriter) ExecuteAction(
	_ context.Context, action domain.Action,
) (bool, error) {
	w.actions = append(w.actions, action)
	if w.rejects > 0 {
		w.rejects--
		return false, nil
	}
	if len(w.script) > 0 {
		err := w.script[0]
		w.script = w.script[1:]
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

// steppingReader replays a sequence of balances across calls, sticking to the
// last one once the sequence runs out.
type steppingReader struct {
	balances []decimal.Decimal
	calls    int
}

func (r *steppingReader) GetBalance(
	_ context.Context, _ domain.Token,
) (decimal.Decimal, error) {
	i := r.calls
	if i >= len(r.balances) {
		i = len(r.balances) - 1
	}
	r.calls++
	return r.balances[i], nil
}

type fakeSession struct {
	reader         *fakeReader
	readerOverride ports.ChainReader
	evm            *fakeReader
	writer         *fakeWriter
	closed         int
}

func (s *fakeSession) Reader() ports.ChainReader {
	if s.readerOverride != nil {
		return s.readerOverride
	}
	return s.reader
}
func (s *fakeSession) Writer() ports.ChainWriter { return s.writer }
func (s *fakeSession) EvmReader(string) ports.ChainReader {
	if s.evm != nil {
		return s.evm
	}
	return s.reader
}
func (s *fakeSession) StarknetAddress() string { return "0xstark" }
func (s *fakeSession) EvmAddress() string      { return "0xevm" }
func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

type fakeFactory struct {
	session  *fakeSession
	err      error
	sessions int
}

func (f *fakeFactory) NewSession(
	_ context.Context, _ domain.Account,
) (ports.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sessions++
	return f.session, nil
}

func floatRange(min, max float64) config.FloatRange {
	return config.FloatRange{Min: min, Max: max}
}

// **** Price oracle ****

type fakeOracle struct {
	// prices by coingecko id, missing ids resolve to zero
	prices map[string]decimal.Decimal
	err    error
}

func (o *fakeOracle) GetUsdPrices(
	_ context.Context, ids []string,
) ([]decimal.Decimal, error) {
	if o.err != nil {
		return nil, o.err
	}
	prices := make([]decimal.Decimal, 0, len(ids))
	for _, id := range ids {
		prices = append(prices, o.prices[id])
	}
	return prices, nil
}

// **** Exchange ****

type fakeExchange struct {
	mainBalance decimal.Decimal
	subBalances []ports.SubAccountBalance
	states      []ports.WithdrawalState
	withdrawErr error

	withdrawals []fakeWithdrawal
	transfers   []string
	// afterSweep is credited to the main balance once per sweep round
	afterSweep decimal.Decimal
}

type fakeWithdrawal struct {
	currency string
	amount   decimal.Decimal
	address  string
}

func (e *fakeExchange) Withdraw(
	_ context.Context, currency string, amount decimal.Decimal, address string,
) (string, error) {
	if e.withdrawErr != nil {
		return "", e.withdrawErr
	}
	e.withdrawals = append(e.withdrawals, fakeWithdrawal{
		currency: currency, amount: amount, address: address,
	})
	return fmt.Sprintf("wd-%d", len(e.withdrawals)), nil
}

func (e *fakeExchange) WithdrawalStatus(
	_ context.Context, _ string,
) (ports.WithdrawalState, error) {
	if len(e.states) == 0 {
		return ports.WithdrawalCompleted, nil
	}
	state := e.states[0]
	e.states = e.states[1:]
	return state, nil
}

func (e *fakeExchange) MainBalance(
	_ context.Context, _ string,
) (decimal.Decimal, error) {
	return e.mainBalance, nil
}

func (e *fakeExchange) SubAccountBalances(
	_ context.Context, _ string,
) ([]ports.SubAccountBalance, error) {
	return e.subBalances, nil
}

func (e *fakeExchange) TransferFromSubAccount(
	_ context.Context, name, _ string, _ decimal.Decimal,
) error {
	e.transfers = append(e.transfers, name)
	e.mainBalance = e.mainBalance.Add(e.afterSweep)
	return nil
}
