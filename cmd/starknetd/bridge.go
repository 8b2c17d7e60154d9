package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/application"
	"github.com/non-fungible-user/starknet/internal/core/domain"
)

var bridge = cli.Command{
	Name:  "bridge",
	Usage: "bridge each account's ETH out of or into StarkNet",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "via",
			Usage: "bridge to use: starkgate, orbiter or layerswap",
			Value: "starkgate",
		},
		&cli.BoolFlag{
			Name:  "into-starknet",
			Usage: "reverse the direction, funds leave the EVM side",
		},
		&cli.StringFlag{
			Name:  "source-chain",
			Usage: "EVM side of the hop: ethereum, arbitrum or optimism",
			Value: "ethereum",
		},
	},
	Action: bridgeAction,
}

func bridgeAction(ctx *cli.Context) error {
	op, err := bridgeOp(ctx.String("via"))
	if err != nil {
		return err
	}

	repo, err := ledgerRepository()
	if err != nil {
		return err
	}
	factory, err := clientFactory()
	if err != nil {
		return err
	}
	evmGas, err := evmGasWatcher()
	if err != nil {
		return err
	}

	svc := application.NewBridgeService(
		repo, factory, ipRotator(), starknetGasWatcher(), evmGas,
		pipelineConfig(),
		application.BridgeOptions{
			Op:           op,
			IntoStarknet: ctx.Bool("into-starknet"),
			SourceChain:  ctx.String("source-chain"),
			KeepAmount:   config.GetFloatRange(config.BridgeKeepAmountRangeKey),
			RoundTo:      int32(config.GetInt(config.RoundToKey)),
			Attempts:     config.GetInt(config.AttemptsCountKey),
			RetryDelay:   config.GetDuration(config.RetryDelayKey),
		},
	)

	cmdCtx, cancel := runCtx()
	defer cancel()
	return svc.Run(cmdCtx)
}

func bridgeOp(via string) (domain.OpKind, error) {
	switch via {
	case "starkgate":
		return domain.OpStarkgateBridge, nil
	case "orbiter":
		return domain.OpOrbiterBridge, nil
	case "layerswap":
		return domain.OpLayerswapBridge, nil
	default:
		return 0, fmt.Errorf("unknown bridge %q", via)
	}
}
