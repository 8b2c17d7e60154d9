package main

import (
	"github.com/urfave/cli/v2"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/application"
	fileledger "github.com/non-fungible-user/starknet/internal/infrastructure/storage/file"
)

var initledger = cli.Command{
	Name:   "init-ledger",
	Usage:  "generate a fresh ledger from the input list files",
	Action: initLedgerAction,
}

func initLedgerAction(_ *cli.Context) error {
	repo, err := ledgerRepository()
	if err != nil {
		return err
	}

	params, err := readInputLists()
	if err != nil {
		return err
	}

	ctx, cancel := runCtx()
	defer cancel()
	return application.NewInitService(repo, params, budgetRanges()).Run(ctx)
}

func readInputLists() (application.InitParams, error) {
	params := application.InitParams{}

	keys, err := fileledger.ReadLines(
		config.GetDatadirPath(config.StarknetKeysFileKey),
	)
	if err != nil {
		return params, err
	}
	params.StarknetKeys = keys

	if config.GetBool(config.UseSaltsKey) {
		if params.StarknetSalts, err = fileledger.ReadLines(
			config.GetDatadirPath(config.StarknetSaltsFileKey),
		); err != nil {
			return params, err
		}
	}
	if params.EvmKeys, err = fileledger.ReadLines(
		config.GetDatadirPath(config.EvmKeysFileKey),
	); err != nil {
		return params, err
	}
	if config.GetBool(config.UseProxyKey) {
		if params.Proxies, err = fileledger.ReadLines(
			config.GetDatadirPath(config.ProxiesFileKey),
		); err != nil {
			return params, err
		}
	}
	if params.WithdrawalAddresses, err = fileledger.ReadLines(
		config.GetDatadirPath(config.WithdrawalAddressesFileKey),
	); err != nil {
		return params, err
	}
	return params, nil
}

func budgetRanges() application.BudgetRanges {
	return application.BudgetRanges{
		Dmail:              config.GetIntRange(config.DmailTxCountRangeKey),
		NftAllowance:       config.GetIntRange(config.NftAllowanceTxCountRangeKey),
		Myswap:             config.GetIntRange(config.MyswapTxCountRangeKey),
		Jediswap:           config.GetIntRange(config.JediswapTxCountRangeKey),
		Tenkswap:           config.GetIntRange(config.TenkswapTxCountRangeKey),
		Sithswap:           config.GetIntRange(config.SithswapTxCountRangeKey),
		Avnu:               config.GetIntRange(config.AvnuTxCountRangeKey),
		MyIdentity:         config.GetIntRange(config.MyIdentityTxCountRangeKey),
		Starkverse:         config.GetIntRange(config.StarkverseTxCountRangeKey),
		Zklend:             config.GetIntRange(config.ZklendTxCountRangeKey),
		WithdrawFromZklend: config.GetBool(config.WithdrawFromZklendKey),
	}
}
