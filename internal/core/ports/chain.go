package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/non-fungible-user/starknet/internal/core/domain"
)

// ChainReader is the read-side contract of a chain client bound to one
// account. Balances are returned in ether units of the token.
type ChainReader interface {
	GetBalance(ctx context.Context, token domain.Token) (decimal.Decimal, error)
}

// ChainWriter is the write-side contract of a chain client bound to one
// account. Every action of the engine maps to exactly one ExecuteAction call,
// approvals are bundled by the implementation.
type ChainWriter interface {
	ExecuteAction(ctx context.Context, action domain.Action) (bool, error)
}

// Session groups the per-account clients built for one batch iteration. It
// must be closed unconditionally before the next account is selected.
type Session interface {
	Reader() ChainReader
	Writer() ChainWriter
	// EvmReader returns a read client on the given counterpart chain
	// (ethereum, arbitrum, optimism).
	EvmReader(chain string) ChainReader
	StarknetAddress() string
	EvmAddress() string
	Close() error
}

// ClientFactory derives the per-account chain clients and cached addresses.
type ClientFactory interface {
	NewSession(ctx context.Context, account domain.Account) (Session, error)
}
