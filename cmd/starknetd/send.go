package main

import (
	"github.com/urfave/cli/v2"

	"github.com/non-fungible-user/starknet/internal/core/application"
)

var send = cli.Command{
	Name:   "send",
	Usage:  "transfer each account's ETH, minus a reserve, to its withdrawal address",
	Action: sendAction,
}

func sendAction(_ *cli.Context) error {
	repo, err := ledgerRepository()
	if err != nil {
		return err
	}
	factory, err := clientFactory()
	if err != nil {
		return err
	}

	svc := application.NewSenderService(
		repo, factory, ipRotator(), starknetGasWatcher(),
		pipelineConfig(), senderOptions(),
	)

	ctx, cancel := runCtx()
	defer cancel()
	return svc.Run(ctx)
}
