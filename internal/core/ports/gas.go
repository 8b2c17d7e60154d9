package ports

import (
	"context"
	"math/big"
)

// GasPricer reports the current gas price of a network in wei.
type GasPricer interface {
	GasPrice(ctx context.Context) (*big.Int, error)
}
