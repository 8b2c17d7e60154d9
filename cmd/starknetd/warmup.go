package main

import (
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/application"
	"github.com/non-fungible-user/starknet/internal/core/ports"
)

var warmup = cli.Command{
	Name:   "warmup",
	Usage:  "drive random accounts through their action budgets",
	Action: warmupAction,
}

var warmupWithGas = cli.Command{
	Name:   "warmup-with-gas",
	Usage:  "warmup, topping accounts up from the exchange when ETH runs low",
	Action: warmupWithGasAction,
}

var warmupLowBank = cli.Command{
	Name:   "warmup-low-bank",
	Usage:  "fund, drain, collect and send out one account at a time",
	Action: warmupLowBankAction,
}

func warmupAction(_ *cli.Context) error {
	svc, err := buildWarmupService(application.WarmupOptions{}, false)
	if err != nil {
		return err
	}

	ctx, cancel := runCtx()
	defer cancel()
	return svc.Run(ctx)
}

func warmupWithGasAction(_ *cli.Context) error {
	opts := application.WarmupOptions{
		TopupThreshold: decimal.NewFromFloat(
			config.GetFloat(config.WarmupGasThresholdEthKey),
		),
		TopupAmount: config.GetFloatRange(config.ExchangeWithdrawRangeKey),
	}
	svc, err := buildWarmupService(opts, true)
	if err != nil {
		return err
	}

	ctx, cancel := runCtx()
	defer cancel()
	return svc.Run(ctx)
}

func warmupLowBankAction(_ *cli.Context) error {
	repo, err := ledgerRepository()
	if err != nil {
		return err
	}
	factory, err := clientFactory()
	if err != nil {
		return err
	}

	svc := application.NewLowBankService(
		repo, factory, priceOracle(), ipRotator(), exchangeService(),
		starknetGasWatcher(),
		aggregatorConfig(), pipelineConfig(), exchangeConfig(),
		collectorOptions(), senderOptions(),
		application.LowBankOptions{
			WithdrawAmount: config.GetFloatRange(config.ExchangeWithdrawRangeKey),
		},
	)

	ctx, cancel := runCtx()
	defer cancel()
	return svc.Run(ctx)
}

func buildWarmupService(
	opts application.WarmupOptions, withExchange bool,
) (application.WarmupService, error) {
	repo, err := ledgerRepository()
	if err != nil {
		return nil, err
	}
	factory, err := clientFactory()
	if err != nil {
		return nil, err
	}

	var exchange ports.Exchange
	if withExchange {
		exchange = exchangeService()
	}
	return application.NewWarmupService(
		repo, factory, priceOracle(), ipRotator(), exchange,
		starknetGasWatcher(),
		aggregatorConfig(), pipelineConfig(), exchangeConfig(), opts,
	), nil
}
