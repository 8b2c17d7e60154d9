package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceOracle resolves USD prices for a list of asset ids. Prices are aligned
// positionally with the requested id list.
type PriceOracle interface {
	GetUsdPrices(ctx context.Context, ids []string) ([]decimal.Decimal, error)
}
