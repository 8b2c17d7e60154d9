package main

import (
	"github.com/urfave/cli/v2"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/application"
)

var withdrawToStarknet = cli.Command{
	Name:   "withdraw-to-starknet",
	Usage:  "request one exchange withdrawal per account to its own address",
	Action: withdrawToStarknetAction,
}

func withdrawToStarknetAction(_ *cli.Context) error {
	repo, err := ledgerRepository()
	if err != nil {
		return err
	}
	factory, err := clientFactory()
	if err != nil {
		return err
	}

	svc := application.NewWithdrawService(
		repo, factory, ipRotator(), exchangeService(),
		application.WithdrawOptions{
			Currency: config.GetString(config.ExchangeCurrencyKey),
			Amount:   config.GetFloatRange(config.ExchangeWithdrawRangeKey),
		},
	)

	ctx, cancel := runCtx()
	defer cancel()
	return svc.Run(ctx)
}
