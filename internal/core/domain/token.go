package domain

// Token describes an ERC20 asset on StarkNet mainnet.
type Token struct {
	Address     string
	Symbol      string
	Decimals    int
	CoingeckoID string
}

// StarkNet mainnet token registry.
var (
	TokenETH = Token{
		Address:     "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7",
		Symbol:      "ETH",
		Decimals:    18,
		CoingeckoID: "ethereum",
	}
	TokenUSDC = Token{
		Address:     "0x053c91253bc9682c04929ca02ed00b3e423f6710d2ee7e0d5ebb06f3ecf368a8",
		Symbol:      "USDC",
		Decimals:    6,
		CoingeckoID: "usd-coin",
	}
	TokenUSDT = Token{
		Address:     "0x068f5c6a61780768455de69077e07e89787839bf8166decfbf92b645209c0fb8",
		Symbol:      "USDT",
		Decimals:    6,
		CoingeckoID: "tether",
	}
	TokenDAI = Token{
		Address:     "0x00da114221cb83fa859dbdb4c44beeaa0bb37c7537ad5ae66fe5e0efd20e6eb3",
		Symbol:      "DAI",
		Decimals:    18,
		CoingeckoID: "dai",
	}
	TokenWBTC = Token{
		Address:     "0x03fe2b97c1fd336e750087d68b9b867997fd64a2661ff3ca5a7c771641e8e7ac",
		Symbol:      "WBTC",
		Decimals:    8,
		CoingeckoID: "wrapped-bitcoin",
	}
)

// Tokens lists every asset the engine tracks when hunting for the
// max-balance input token.
var Tokens = []Token{TokenETH, TokenUSDC, TokenUSDT, TokenDAI, TokenWBTC}

// CollectorTokens are the assets the collector workflow sweeps into ETH.
var CollectorTokens = []Token{TokenUSDC, TokenUSDT, TokenDAI, TokenWBTC}

// TokenPair is an unordered tradable pair.
type TokenPair [2]Token

// Contains reports whether the pair includes the given token.
func (p TokenPair) Contains(t Token) bool {
	return p[0].Address == t.Address || p[1].Address == t.Address
}

// Other returns the side of the pair that is not the given token.
func (p TokenPair) Other(t Token) Token {
	if p[0].Address == t.Address {
		return p[1]
	}
	return p[0]
}

// SwapPairs is the configured token-pair table shared by all venues. SithSwap
// restrictions on DAI are enforced by the aggregator, not here.
var SwapPairs = []TokenPair{
	{TokenETH, TokenUSDC},
	{TokenETH, TokenUSDT},
	{TokenETH, TokenDAI},
	{TokenETH, TokenWBTC},
	{TokenUSDC, TokenUSDT},
	{TokenUSDC, TokenDAI},
}

// TokenByAddress resolves a token from the registry, ok is false for
// unknown addresses.
func TokenByAddress(address string) (Token, bool) {
	for _, t := range Tokens {
		if t.Address == address {
			return t, true
		}
	}
	return Token{}, false
}

// IsNative reports whether the token is the network gas token.
func (t Token) IsNative() bool {
	return t.Address == TokenETH.Address
}
