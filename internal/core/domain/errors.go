package domain

import "errors"

var (
	// ErrLedgerEmpty is returned by the selectors when no active account remains.
	ErrLedgerEmpty = errors.New("ledger has no active accounts")
	// ErrInvalidReference is returned when an (account, index) pair does not
	// reference an entry of the ledger data collection.
	ErrInvalidReference = errors.New("account or index does not reference a ledger entry")
	// ErrNoEligiblePair is returned by the aggregator when the pair table has no
	// pair for the input token after filtering.
	ErrNoEligiblePair = errors.New("no eligible token pair for input token")
	// ErrBalanceBelowMinimum routes an account straight to the error bucket,
	// it is never retried.
	ErrBalanceBelowMinimum = errors.New("balance is below configured minimum")
	// ErrNonPositiveAmount routes an account straight to the error bucket when
	// the amount left after reserve subtraction is not positive.
	ErrNonPositiveAmount = errors.New("amount to act on is not positive")
	// ErrReserveExceedsBalance routes an account straight to the error bucket
	// when the randomized reserve to keep is larger than the whole balance.
	ErrReserveExceedsBalance = errors.New("reserve to keep exceeds balance")
	// ErrBudgetExhausted ...
	ErrBudgetExhausted = errors.New("action budget already at zero")
	// ErrUnknownOperation ...
	ErrUnknownOperation = errors.New("unknown operation kind")
)

// IsAccountTerminal reports whether the error classifies the account as unable
// to make progress, routing it to the error bucket instead of being retried.
func IsAccountTerminal(err error) bool {
	return errors.Is(err, ErrBalanceBelowMinimum) ||
		errors.Is(err, ErrNonPositiveAmount) ||
		errors.Is(err, ErrReserveExceedsBalance)
}
