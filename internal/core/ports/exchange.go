package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// WithdrawalState is the terminal-state classification of an exchange
// withdrawal as reported by WithdrawalStatus.
type WithdrawalState int

const (
	WithdrawalPending WithdrawalState = iota
	WithdrawalCompleted
	WithdrawalCancelled
)

// SubAccountBalance pairs a sub-account name with its available balance.
type SubAccountBalance struct {
	Name    string
	Balance decimal.Decimal
}

// Exchange is the contract of the centralized exchange collaborator used for
// funding accounts and cashing out.
type Exchange interface {
	// Withdraw requests a withdrawal and returns the exchange withdrawal id.
	Withdraw(
		ctx context.Context, currency string, amount decimal.Decimal, address string,
	) (string, error)
	// WithdrawalStatus reports the current state of a withdrawal.
	WithdrawalStatus(ctx context.Context, withdrawalID string) (WithdrawalState, error)
	// MainBalance returns the funding balance of the main account.
	MainBalance(ctx context.Context, currency string) (decimal.Decimal, error)
	// SubAccountBalances lists the balances of every sub-account.
	SubAccountBalances(ctx context.Context, currency string) ([]SubAccountBalance, error)
	// TransferFromSubAccount moves funds from a sub-account to the main one.
	TransferFromSubAccount(
		ctx context.Context, name, currency string, amount decimal.Decimal,
	) error
}
