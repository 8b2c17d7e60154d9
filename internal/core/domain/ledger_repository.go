package domain

import "context"

// LedgerRepository is the abstraction for any kind of storage intended to
// persist the Ledger. Every mutation the batch runner considers durable goes
// through UpdateLedger so that no state change outlives one loop iteration in
// memory only.
type LedgerRepository interface {
	// GetLedger loads the persisted ledger.
	GetLedger(ctx context.Context) (*Ledger, error)
	// SaveLedger atomically overwrites the whole persisted ledger.
	SaveLedger(ctx context.Context, ledger *Ledger) error
	// UpdateLedger loads the ledger, applies updateFn to it and persists the
	// result. The closure lets callers commit multiple changes atomically.
	UpdateLedger(
		ctx context.Context, updateFn func(l *Ledger) (*Ledger, error),
	) error
}
