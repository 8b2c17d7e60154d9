package main

import (
	"time"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/application"
	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
	"github.com/non-fungible-user/starknet/internal/infrastructure/chain/walletrelay"
	exchangerelay "github.com/non-fungible-user/starknet/internal/infrastructure/exchange-relay"
	ethgas "github.com/non-fungible-user/starknet/internal/infrastructure/gas/ethereum"
	starkgas "github.com/non-fungible-user/starknet/internal/infrastructure/gas/starknet"
	"github.com/non-fungible-user/starknet/internal/infrastructure/oracle/coingecko"
	"github.com/non-fungible-user/starknet/internal/infrastructure/proxy"
	fileledger "github.com/non-fungible-user/starknet/internal/infrastructure/storage/file"
	"github.com/non-fungible-user/starknet/pkg/gaswatch"
	"github.com/non-fungible-user/starknet/pkg/securecipher"
)

func ledgerRepository() (domain.LedgerRepository, error) {
	cipher, err := securecipher.New(config.GetString(config.LedgerPasswordKey))
	if err != nil {
		return nil, err
	}
	path := config.GetDatadirPath(config.LedgerFileKey)
	return fileledger.NewLedgerRepositoryImpl(path, cipher), nil
}

func clientFactory() (ports.ClientFactory, error) {
	return walletrelay.NewService(
		config.GetString(config.WalletServiceAddrKey),
	)
}

func priceOracle() ports.PriceOracle {
	return coingecko.NewService(config.GetString(config.PriceAPIKey))
}

func exchangeService() ports.Exchange {
	return exchangerelay.NewService(
		config.GetString(config.ExchangeServiceAddrKey),
	)
}

func ipRotator() ports.IPRotator {
	if !config.GetBool(config.UseMobileProxyKey) {
		return nil
	}
	return proxy.NewMobileRotator(config.GetString(config.IPChangeLinkKey))
}

func starknetGasWatcher() *gaswatch.Watcher {
	pricer := starkgas.NewPricer(config.GetString(config.StarknetGasAPIKey))
	return newGasWatcher(pricer, config.StarknetGasThresholdKey)
}

func evmGasWatcher() (*gaswatch.Watcher, error) {
	pricer, err := ethgas.NewPricer(config.GetString(config.EthereumRPCKey))
	if err != nil {
		return nil, err
	}
	return newGasWatcher(pricer, config.EvmGasThresholdKey), nil
}

func newGasWatcher(pricer ports.GasPricer, thresholdKey string) *gaswatch.Watcher {
	delays := config.GetIntRange(config.GasDelayRangeKey)
	return gaswatch.NewWatcher(
		pricer,
		int64(config.GetInt(thresholdKey)),
		secs(delays.Min), secs(delays.Max),
	)
}

func aggregatorConfig() application.AggregatorConfig {
	return application.AggregatorConfig{
		SwapDeviation:        config.GetFloatRange(config.SwapDeviationRangeKey),
		RoundTo:              int32(config.GetInt(config.RoundToKey)),
		NftAllowanceAmount:   config.GetFloatRange(config.NftAllowanceAmountRangeKey),
		ZklendDepositPercent: config.GetFloatRange(config.ZklendDepositPercentRangeKey),
	}
}

func pipelineConfig() application.PipelineConfig {
	return application.PipelineConfig{
		MinEthBalance: config.GetDecimal(config.StarknetEthMinBalanceKey),
		Attempts:      config.GetInt(config.AttemptsCountKey),
		RetryDelay:    config.GetDuration(config.RetryDelayKey),
		TxDelay:       config.GetIntRange(config.TxDelayRangeKey),
	}
}

func exchangeConfig() application.ExchangeConfig {
	return application.ExchangeConfig{
		Currency:        config.GetString(config.ExchangeCurrencyKey),
		StatusAttempts:  config.GetInt(config.ExchangeStatusAttemptsKey),
		StatusInterval:  config.GetDuration(config.ExchangeStatusIntervalKey),
		ReceiveAttempts: config.GetInt(config.ExchangeReceiveAttemptsKey),
		ReceiveInterval: config.GetDuration(config.ExchangeReceiveIntervalKey),
		DepositWait:     config.GetDuration(config.ExchangeDepositWaitKey),
	}
}

func collectorOptions() application.CollectorOptions {
	return application.CollectorOptions{
		MinUsdValue: config.GetDecimal(config.MinCollectedUsdValueKey),
		UseAvnu:     config.GetBool(config.UseAvnuForCollectorKey),
		RoundTo:     int32(config.GetInt(config.RoundToKey)),
	}
}

func senderOptions() application.SenderOptions {
	return application.SenderOptions{
		KeepAmount: config.GetFloatRange(config.TransferKeepAmountRangeKey),
		RoundTo:    int32(config.GetInt(config.RoundToKey)),
	}
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}
