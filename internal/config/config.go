package config

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory storing the ledger and inputs
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// LedgerFileKey is the path of the persisted ledger, relative paths are resolved against the datadir
	LedgerFileKey = "LEDGER_FILE"
	// LedgerPasswordKey enables reversible obscuring of ledger secret fields when non-empty
	LedgerPasswordKey = "LEDGER_PASSWORD"

	// StarknetKeysFileKey is the input list of StarkNet private keys, one per line
	StarknetKeysFileKey = "STARKNET_KEYS_FILE"
	// StarknetSaltsFileKey is the input list of wallet derivation salts
	StarknetSaltsFileKey = "STARKNET_SALTS_FILE"
	// EvmKeysFileKey is the input list of counterpart-chain private keys
	EvmKeysFileKey = "EVM_KEYS_FILE"
	// ProxiesFileKey is the input list of network proxies
	ProxiesFileKey = "PROXIES_FILE"
	// WithdrawalAddressesFileKey is the input list of withdrawal destinations
	WithdrawalAddressesFileKey = "WITHDRAWAL_ADDRESSES_FILE"
	// UseProxyKey requires one proxy per account when set
	UseProxyKey = "USE_PROXY"
	// UseSaltsKey requires one derivation salt per account when set
	UseSaltsKey = "USE_SALTS"
	// UseMobileProxyKey enables the per-iteration IP rotation call
	UseMobileProxyKey = "USE_MOBILE_PROXY"
	// IPChangeLinkKey is the mobile-proxy rotation endpoint
	IPChangeLinkKey = "IP_CHANGE_LINK"

	// WalletServiceAddrKey is the address of the external wallet service that holds sessions and signs transactions
	WalletServiceAddrKey = "WALLET_SERVICE_ADDR"
	// ExchangeServiceAddrKey is the address of the exchange boundary service
	ExchangeServiceAddrKey = "EXCHANGE_SERVICE_ADDR"
	// EthereumRPCKey is the L1 RPC endpoint used for gas price polling
	EthereumRPCKey = "ETHEREUM_RPC"
	// StarknetGasAPIKey is the REST endpoint reporting StarkNet gas prices
	StarknetGasAPIKey = "STARKNET_GAS_API"
	// PriceAPIKey is the base url of the USD price oracle
	PriceAPIKey = "PRICE_API"

	// AttemptsCountKey is the retry budget around every network-calling operation
	AttemptsCountKey = "ATTEMPTS_COUNT"
	// RetryDelayKey is the pause between retry attempts
	RetryDelayKey = "RETRY_DELAY"
	// TxDelayRangeKey is the randomized pause after every chain-modifying call, in seconds
	TxDelayRangeKey = "TX_DELAY_RANGE"
	// GasDelayRangeKey is the randomized pause between gas price polls, in seconds
	GasDelayRangeKey = "GAS_DELAY_RANGE"
	// StarknetGasThresholdKey is the gwei cap above which execution waits
	StarknetGasThresholdKey = "STARKNET_GAS_THRESHOLD"
	// EvmGasThresholdKey is the L1 gwei cap above which execution waits
	EvmGasThresholdKey = "EVM_GAS_THRESHOLD"
	// RoundToKey is the decimal precision amounts are rounded or truncated to
	RoundToKey = "ROUND_TO"

	// StarknetEthMinBalanceKey is the ETH balance below which an account is routed to the error bucket
	StarknetEthMinBalanceKey = "STARKNET_ETH_MIN_BALANCE"
	// SwapDeviationRangeKey scales the native-token amount to implicitly keep a gas reserve
	SwapDeviationRangeKey = "SWAP_DEVIATION_RANGE"
	// NftAllowanceAmountRangeKey is the randomized marketplace allowance, in ETH
	NftAllowanceAmountRangeKey = "NFT_ALLOWANCE_AMOUNT_RANGE"
	// ZklendDepositPercentRangeKey is the randomized share of the balance deposited into zklend
	ZklendDepositPercentRangeKey = "ZKLEND_DEPOSIT_PERCENT_RANGE"
	// WithdrawFromZklendKey mirrors every deposit with a withdrawal when set
	WithdrawFromZklendKey = "WITHDRAW_FROM_ZKLEND"

	// DmailTxCountRangeKey and friends are the budget generation ranges
	DmailTxCountRangeKey        = "DMAIL_TX_COUNT_RANGE"
	NftAllowanceTxCountRangeKey = "NFT_ALLOWANCE_TX_COUNT_RANGE"
	MyswapTxCountRangeKey       = "MYSWAP_TX_COUNT_RANGE"
	JediswapTxCountRangeKey     = "JEDISWAP_TX_COUNT_RANGE"
	TenkswapTxCountRangeKey     = "TENKSWAP_TX_COUNT_RANGE"
	SithswapTxCountRangeKey     = "SITHSWAP_TX_COUNT_RANGE"
	AvnuTxCountRangeKey         = "AVNU_TX_COUNT_RANGE"
	MyIdentityTxCountRangeKey   = "MY_IDENTITY_TX_COUNT_RANGE"
	StarkverseTxCountRangeKey   = "STARKVERSE_TX_COUNT_RANGE"
	ZklendTxCountRangeKey       = "ZKLEND_TX_COUNT_RANGE"

	// MinCollectedUsdValueKey is the USD value below which the collector skips a token
	MinCollectedUsdValueKey = "MIN_COLLECTED_USD_VALUE"
	// UseAvnuForCollectorKey selects the collector swap venue
	UseAvnuForCollectorKey = "USE_AVNU_FOR_COLLECTOR"
	// TransferKeepAmountRangeKey is the randomized ETH reserve kept by the sender
	TransferKeepAmountRangeKey = "TRANSFER_KEEP_AMOUNT_RANGE"
	// BridgeKeepAmountRangeKey is the randomized ETH reserve kept when bridging
	BridgeKeepAmountRangeKey = "BRIDGE_KEEP_AMOUNT_RANGE"
	// WarmupGasThresholdEthKey gates the exchange withdrawal of the with-gas workflow
	WarmupGasThresholdEthKey = "WARMUP_GAS_THRESHOLD_ETH"

	// ExchangeCurrencyKey is the currency withdrawn from the exchange
	ExchangeCurrencyKey = "EXCHANGE_CURRENCY"
	// ExchangeWithdrawRangeKey is the randomized exchange withdrawal amount
	ExchangeWithdrawRangeKey = "EXCHANGE_WITHDRAW_RANGE"
	// ExchangeStatusAttemptsKey caps the withdrawal status polling loop
	ExchangeStatusAttemptsKey = "EXCHANGE_STATUS_ATTEMPTS"
	// ExchangeStatusIntervalKey is the pause between status polls
	ExchangeStatusIntervalKey = "EXCHANGE_STATUS_INTERVAL"
	// ExchangeReceiveAttemptsKey caps the destination balance polling loop
	ExchangeReceiveAttemptsKey = "EXCHANGE_RECEIVE_ATTEMPTS"
	// ExchangeReceiveIntervalKey is the pause between destination balance polls
	ExchangeReceiveIntervalKey = "EXCHANGE_RECEIVE_INTERVAL"
	// ExchangeDepositWaitKey is the pause while waiting for sub-account funds
	ExchangeDepositWaitKey = "EXCHANGE_DEPOSIT_WAIT"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("starknetd", false)

// IntRange is an inclusive [Min, Max] integer interval.
type IntRange struct {
	Min int
	Max int
}

// Draw returns a uniform sample from the interval.
func (r IntRange) Draw() int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rand.Intn(r.Max-r.Min+1)
}

// FloatRange is a [Min, Max) float interval.
type FloatRange struct {
	Min float64
	Max float64
}

// Draw returns a uniform sample from the interval.
func (r FloatRange) Draw() float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// DrawDecimal returns a uniform sample as a decimal.
func (r FloatRange) DrawDecimal() decimal.Decimal {
	return decimal.NewFromFloat(r.Draw())
}

// InitConfig sets the default values and makes every key overridable through
// the environment with the STARKNET prefix.
func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("STARKNET")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(LedgerFileKey, "ledger.json")
	vip.SetDefault(LedgerPasswordKey, "")

	vip.SetDefault(StarknetKeysFileKey, "starknet_keys.txt")
	vip.SetDefault(StarknetSaltsFileKey, "salts.txt")
	vip.SetDefault(EvmKeysFileKey, "evm_keys.txt")
	vip.SetDefault(ProxiesFileKey, "proxies.txt")
	vip.SetDefault(WithdrawalAddressesFileKey, "withdrawal_addresses.txt")
	vip.SetDefault(UseProxyKey, false)
	vip.SetDefault(UseSaltsKey, false)
	vip.SetDefault(UseMobileProxyKey, false)
	vip.SetDefault(IPChangeLinkKey, "")

	vip.SetDefault(WalletServiceAddrKey, "http://localhost:7777")
	vip.SetDefault(ExchangeServiceAddrKey, "http://localhost:7778")
	vip.SetDefault(EthereumRPCKey, "https://eth.llamarpc.com")
	vip.SetDefault(StarknetGasAPIKey, "https://alpha-mainnet.starknet.io/feeder_gateway")
	vip.SetDefault(PriceAPIKey, "https://api.coingecko.com/api/v3")

	vip.SetDefault(AttemptsCountKey, 5)
	vip.SetDefault(RetryDelayKey, 30*time.Second)
	vip.SetDefault(TxDelayRangeKey, []int{30, 120})
	vip.SetDefault(GasDelayRangeKey, []int{30, 60})
	vip.SetDefault(StarknetGasThresholdKey, 30)
	vip.SetDefault(EvmGasThresholdKey, 40)
	vip.SetDefault(RoundToKey, 6)

	vip.SetDefault(StarknetEthMinBalanceKey, 0.003)
	vip.SetDefault(SwapDeviationRangeKey, []float64{0.5, 0.85})
	vip.SetDefault(NftAllowanceAmountRangeKey, []float64{0.00001, 0.0001})
	vip.SetDefault(ZklendDepositPercentRangeKey, []float64{0.2, 0.5})
	vip.SetDefault(WithdrawFromZklendKey, true)

	vip.SetDefault(DmailTxCountRangeKey, []int{1, 3})
	vip.SetDefault(NftAllowanceTxCountRangeKey, []int{0, 2})
	vip.SetDefault(MyswapTxCountRangeKey, []int{1, 3})
	vip.SetDefault(JediswapTxCountRangeKey, []int{1, 3})
	vip.SetDefault(TenkswapTxCountRangeKey, []int{1, 3})
	vip.SetDefault(SithswapTxCountRangeKey, []int{1, 3})
	vip.SetDefault(AvnuTxCountRangeKey, []int{1, 3})
	vip.SetDefault(MyIdentityTxCountRangeKey, []int{0, 1})
	vip.SetDefault(StarkverseTxCountRangeKey, []int{0, 1})
	vip.SetDefault(ZklendTxCountRangeKey, []int{1, 2})

	vip.SetDefault(MinCollectedUsdValueKey, 3.0)
	vip.SetDefault(UseAvnuForCollectorKey, true)
	vip.SetDefault(TransferKeepAmountRangeKey, []float64{0.001, 0.002})
	vip.SetDefault(BridgeKeepAmountRangeKey, []float64{0.001, 0.002})
	vip.SetDefault(WarmupGasThresholdEthKey, 0.004)

	vip.SetDefault(ExchangeCurrencyKey, "ETH")
	vip.SetDefault(ExchangeWithdrawRangeKey, []float64{0.01, 0.02})
	vip.SetDefault(ExchangeStatusAttemptsKey, 45)
	vip.SetDefault(ExchangeStatusIntervalKey, 20*time.Second)
	vip.SetDefault(ExchangeReceiveAttemptsKey, 45)
	vip.SetDefault(ExchangeReceiveIntervalKey, 20*time.Second)
	vip.SetDefault(ExchangeDepositWaitKey, 60*time.Second)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}
	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}
	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetDecimal(key string) decimal.Decimal {
	return decimal.NewFromFloat(vip.GetFloat64(key))
}

// GetIntRange reads a [min, max] pair, either from the []int default or
// from a space-separated environment override.
func GetIntRange(key string) IntRange {
	switch raw := vip.Get(key).(type) {
	case []int:
		if len(raw) == 2 {
			return IntRange{Min: raw[0], Max: raw[1]}
		}
	case string:
		fields := strings.Fields(raw)
		if len(fields) == 2 {
			min, errMin := strconv.Atoi(fields[0])
			max, errMax := strconv.Atoi(fields[1])
			if errMin == nil && errMax == nil {
				return IntRange{Min: min, Max: max}
			}
		}
	}
	return IntRange{}
}

// GetFloatRange reads a [min, max] pair, either from the []float64 default
// or from a space-separated environment override.
func GetFloatRange(key string) FloatRange {
	switch raw := vip.Get(key).(type) {
	case []float64:
		if len(raw) == 2 {
			return FloatRange{Min: raw[0], Max: raw[1]}
		}
	case string:
		fields := strings.Fields(raw)
		if len(fields) == 2 {
			min, errMin := strconv.ParseFloat(fields[0], 64)
			max, errMax := strconv.ParseFloat(fields[1], 64)
			if errMin == nil && errMax == nil {
				return FloatRange{Min: min, Max: max}
			}
		}
	}
	return FloatRange{}
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDatadirPath resolves a possibly relative path against the datadir.
func GetDatadirPath(key string) string {
	p := GetString(key)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GetDatadir(), p)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if GetInt(AttemptsCountKey) < 1 {
		return fmt.Errorf("%s must be at least 1", AttemptsCountKey)
	}
	if GetInt(RoundToKey) < 0 {
		return fmt.Errorf("%s must not be negative", RoundToKey)
	}
	if GetBool(UseMobileProxyKey) && GetString(IPChangeLinkKey) == "" {
		return fmt.Errorf("%s requires %s", UseMobileProxyKey, IPChangeLinkKey)
	}

	ranges := []string{
		TxDelayRangeKey, GasDelayRangeKey,
		DmailTxCountRangeKey, NftAllowanceTxCountRangeKey,
		MyswapTxCountRangeKey, JediswapTxCountRangeKey,
		TenkswapTxCountRangeKey, SithswapTxCountRangeKey,
		AvnuTxCountRangeKey, MyIdentityTxCountRangeKey,
		StarkverseTxCountRangeKey, ZklendTxCountRangeKey,
	}
	for _, key := range ranges {
		r := GetIntRange(key)
		if r.Min < 0 || r.Max < r.Min {
			return fmt.Errorf("%s must be a [min, max] pair with 0 <= min <= max", key)
		}
	}
	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if _, err := os.Stat(datadir); os.IsNotExist(err) {
		return os.MkdirAll(datadir, os.ModeDir|0755)
	}
	return nil
}
