package domain

import "math/rand"

// Ledger is the persisted collection of active accounts, the side bucket of
// errored accounts and the cached count of active accounts. Accounts only ever
// leave Data, either as completed (removed) or as errored (moved to Errors).
type Ledger struct {
	Data              []Account `json:"data"`
	Errors            []Account `json:"errors"`
	AccountsRemaining int       `json:"accounts_remaining"`
}

// NewLedger builds a ledger over a batch of freshly generated accounts.
func NewLedger(accounts []Account) *Ledger {
	return &Ledger{
		Data:              accounts,
		Errors:            make([]Account, 0),
		AccountsRemaining: len(accounts),
	}
}

// IsEmpty returns whether no active account remains.
func (l *Ledger) IsEmpty() bool {
	return l.AccountsRemaining == 0
}

// PickRandom selects an active account uniformly at random. The returned index
// is captured atomically with the account value, callers must never re-derive
// it after a mutation since removals shift indices.
func (l *Ledger) PickRandom() (Account, int, error) {
	if len(l.Data) == 0 {
		return Account{}, -1, ErrLedgerEmpty
	}
	i := 0
	if len(l.Data) > 1 {
		i = rand.Intn(len(l.Data))
	}
	return l.Data[i], i, nil
}

// PickFirst selects the first account in queue order.
func (l *Ledger) PickFirst() (Account, int, error) {
	if len(l.Data) == 0 {
		return Account{}, -1, ErrLedgerEmpty
	}
	return l.Data[0], 0, nil
}

// UpdateAccount overwrites the entry at index with the mutated account, or
// removes it when its total budget reached zero. AccountsRemaining is kept
// equal to len(Data) on every path.
func (l *Ledger) UpdateAccount(account Account, index int) error {
	if err := l.checkRef(account, index); err != nil {
		return err
	}
	if account.IsComplete() {
		l.removeAt(index)
		return nil
	}
	l.Data[index] = account
	return nil
}

// PutAccount overwrites the entry at index without completion handling. It is
// used by workflows that must keep a drained account alive until its funds
// are routed out.
func (l *Ledger) PutAccount(account Account, index int) error {
	if err := l.checkRef(account, index); err != nil {
		return err
	}
	l.Data[index] = account
	return nil
}

// RemoveAccount removes the entry at index as completed.
func (l *Ledger) RemoveAccount(index int) error {
	if index < 0 || index >= len(l.Data) {
		return ErrInvalidReference
	}
	l.removeAt(index)
	return nil
}

// MoveToErrors removes the entry at index from the active pool and appends it
// to the error bucket. The moved account never re-enters Data.
func (l *Ledger) MoveToErrors(account Account, index int) error {
	if err := l.checkRef(account, index); err != nil {
		return err
	}
	l.Errors = append(l.Errors, account)
	l.removeAt(index)
	return nil
}

// TotalTxCount sums the remaining budgets of every active account.
func (l *Ledger) TotalTxCount() int {
	total := 0
	for i := range l.Data {
		total += l.Data[i].TotalTxCount()
	}
	return total
}

func (l *Ledger) checkRef(account Account, index int) error {
	if index < 0 || index >= len(l.Data) {
		return ErrInvalidReference
	}
	if account.ID != "" && l.Data[index].ID != account.ID {
		return ErrInvalidReference
	}
	return nil
}

func (l *Ledger) removeAt(index int) {
	l.Data = append(l.Data[:index], l.Data[index+1:]...)
	l.AccountsRemaining = len(l.Data)
}
