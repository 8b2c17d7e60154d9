package application

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyKeyList ...
	ErrEmptyKeyList = errors.New("private key list is empty")
	// ErrInputListMismatch ...
	ErrInputListMismatch = errors.New("input list length does not match key list")
	// ErrZeroBudgetRanges is returned when the configured budget ranges can
	// only ever produce accounts with nothing to do.
	ErrZeroBudgetRanges = errors.New("budget ranges permit only zero totals")
	// ErrWithdrawalCancelled ...
	ErrWithdrawalCancelled = errors.New("exchange cancelled the withdrawal")
	// ErrWithdrawalNotCompleted ...
	ErrWithdrawalNotCompleted = errors.New("withdrawal did not complete in time")
	// ErrDeliveryNotObserved ...
	ErrDeliveryNotObserved = errors.New("withdrawn funds never showed up on chain")
	// ErrFundingTimeout ...
	ErrFundingTimeout = errors.New("main exchange balance stayed below the requested amount")
	// ErrActionRejected is returned when the wallet relay reports a rejected
	// transaction without a transport failure.
	ErrActionRejected = errors.New("action rejected on chain")
	// ErrMissingWithdrawalAddress ...
	ErrMissingWithdrawalAddress = errors.New("account has no withdrawal address")
)

// errAccountFailed marks a step failure that routes the account to the error
// bucket even though no domain-level terminal error classified it.
var errAccountFailed = errors.New("account cannot make further progress")

func accountFailed(err error) error {
	return fmt.Errorf("%w: %s", errAccountFailed, err)
}

func isAccountFailed(err error) bool {
	return errors.Is(err, errAccountFailed)
}

// errProcessFatal marks a failure that must abort the whole run, funds are
// stranded mid-route and blind continuation would scatter them further.
var errProcessFatal = errors.New("fatal failure, aborting run")

func processFatal(err error) error {
	return fmt.Errorf("%w: %s", errProcessFatal, err)
}

// IsProcessFatal reports whether the error must abort the whole run.
func IsProcessFatal(err error) bool {
	return errors.Is(err, errProcessFatal)
}
