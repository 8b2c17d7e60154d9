package main

import (
	"github.com/urfave/cli/v2"

	"github.com/non-fungible-user/starknet/internal/core/application"
)

var collect = cli.Command{
	Name:   "collect",
	Usage:  "sweep every asset of each account back into ETH",
	Action: collectAction,
}

func collectAction(_ *cli.Context) error {
	repo, err := ledgerRepository()
	if err != nil {
		return err
	}
	factory, err := clientFactory()
	if err != nil {
		return err
	}

	svc := application.NewCollectorService(
		repo, factory, priceOracle(), ipRotator(), starknetGasWatcher(),
		pipelineConfig(), collectorOptions(),
	)

	ctx, cancel := runCtx()
	defer cancel()
	return svc.Run(ctx)
}
