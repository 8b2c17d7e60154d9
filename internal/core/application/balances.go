package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
)

// maxBalanceToken hunts for the tracked token holding the highest USD value
// on the account and returns it with its balance.
func maxBalanceToken(
	ctx context.Context, reader ports.ChainReader, oracle ports.PriceOracle,
) (domain.Token, decimal.Decimal, error) {
	ids := make([]string, 0, len(domain.Tokens))
	for _, token := range domain.Tokens {
		ids = append(ids, token.CoingeckoID)
	}
	prices, err := oracle.GetUsdPrices(ctx, ids)
	if err != nil {
		return domain.Token{}, decimal.Zero, err
	}

	var (
		best        = domain.TokenETH
		bestBalance decimal.Decimal
		bestUsd     decimal.Decimal
	)
	for i, token := range domain.Tokens {
		balance, err := reader.GetBalance(ctx, token)
		if err != nil {
			return domain.Token{}, decimal.Zero, err
		}
		usd := balance.Mul(prices[i])
		if usd.GreaterThan(bestUsd) {
			best, bestBalance, bestUsd = token, balance, usd
		}
	}
	return best, bestBalance, nil
}
