package domain

import "github.com/shopspring/decimal"

// OpKind enumerates every budgeted on-chain operation, one per Account
// counter. Transfer and bridge operations are not budgeted, they are the
// fixed action of their workflow.
type OpKind int

const (
	OpDmailSend OpKind = iota
	OpNftMarketplaceAllowance
	OpMyswapSwap
	OpJediswapSwap
	OpTenkswapSwap
	OpSithswapSwap
	OpAvnuSwap
	OpMyIdentityMint
	OpStarkverseMint
	OpZklendDeposit
	OpZklendWithdraw
	OpTransfer
	OpStarkgateBridge
	OpOrbiterBridge
	OpLayerswapBridge
)

func (o OpKind) String() string {
	switch o {
	case OpDmailSend:
		return "dmail_send"
	case OpNftMarketplaceAllowance:
		return "nft_marketplace_allowance"
	case OpMyswapSwap:
		return "myswap_swap"
	case OpJediswapSwap:
		return "jediswap_swap"
	case OpTenkswapSwap:
		return "tenkswap_swap"
	case OpSithswapSwap:
		return "sithswap_swap"
	case OpAvnuSwap:
		return "avnu_swap"
	case OpMyIdentityMint:
		return "my_identity_mint"
	case OpStarkverseMint:
		return "starkverse_mint"
	case OpZklendDeposit:
		return "zklend_deposit"
	case OpZklendWithdraw:
		return "zklend_withdraw"
	case OpTransfer:
		return "transfer"
	case OpStarkgateBridge:
		return "starkgate_bridge"
	case OpOrbiterBridge:
		return "orbiter_bridge"
	case OpLayerswapBridge:
		return "layerswap_bridge"
	default:
		return "unknown"
	}
}

// Venue is a swap integration eligible for a subset of token pairs.
type Venue int

const (
	VenueMyswap Venue = iota
	VenueJediswap
	VenueTenkswap
	VenueSithswap
	VenueAvnu
)

func (v Venue) String() string {
	switch v {
	case VenueMyswap:
		return "myswap"
	case VenueJediswap:
		return "jediswap"
	case VenueTenkswap:
		return "tenkswap"
	case VenueSithswap:
		return "sithswap"
	case VenueAvnu:
		return "avnu"
	default:
		return "unknown"
	}
}

// Op maps a venue to the budgeted operation it consumes.
func (v Venue) Op() OpKind {
	switch v {
	case VenueMyswap:
		return OpMyswapSwap
	case VenueJediswap:
		return OpJediswapSwap
	case VenueTenkswap:
		return OpTenkswapSwap
	case VenueSithswap:
		return OpSithswapSwap
	default:
		return OpAvnuSwap
	}
}

// ActionCategory is one of the four randomized warmup engagement kinds.
type ActionCategory int

const (
	CategorySwap ActionCategory = iota
	CategoryNFT
	CategoryMail
	CategoryLending
)

func (c ActionCategory) String() string {
	switch c {
	case CategorySwap:
		return "swap"
	case CategoryNFT:
		return "nft"
	case CategoryMail:
		return "mail"
	case CategoryLending:
		return "lending"
	default:
		return "unknown"
	}
}

// SwapParams fully parameterizes one swap on a venue.
type SwapParams struct {
	Venue    Venue
	TokenIn  Token
	TokenOut Token
	AmountIn decimal.Decimal
}

// NFTParams parameterizes one NFT mint or marketplace allowance call.
type NFTParams struct {
	Op OpKind
	// AllowanceAmount is only meaningful for OpNftMarketplaceAllowance.
	AllowanceAmount decimal.Decimal
}

// MailParams parameterizes one dmail send.
type MailParams struct {
	Recipient string
	Theme     string
}

// LendingParams parameterizes one zklend deposit or withdrawal.
type LendingParams struct {
	Op OpKind
	// DepositAmount is only meaningful for OpZklendDeposit.
	DepositAmount decimal.Decimal
}

// TransferParams parameterizes a plain token transfer.
type TransferParams struct {
	Token     Token
	Amount    decimal.Decimal
	Recipient string
}

// BridgeParams parameterizes one bridge hop between StarkNet and an EVM chain.
type BridgeParams struct {
	Op          OpKind
	Amount      decimal.Decimal
	Recipient   string
	FromEvm     bool
	SourceChain string
}

// Action is the tagged variant produced by the aggregator (or built directly
// by the fixed-action workflows) and consumed by a single dispatch in the
// batch runner. Exactly one of the parameter fields is set, according to Op.
type Action struct {
	Op       OpKind
	Swap     *SwapParams
	NFT      *NFTParams
	Mail     *MailParams
	Lending  *LendingParams
	Transfer *TransferParams
	Bridge   *BridgeParams
}

// NewSwapAction returns a swap action bound to the venue's budget counter.
func NewSwapAction(p SwapParams) Action {
	return Action{Op: p.Venue.Op(), Swap: &p}
}

func NewNFTAction(p NFTParams) Action {
	return Action{Op: p.Op, NFT: &p}
}

func NewMailAction(p MailParams) Action {
	return Action{Op: OpDmailSend, Mail: &p}
}

func NewLendingAction(p LendingParams) Action {
	return Action{Op: p.Op, Lending: &p}
}

func NewTransferAction(p TransferParams) Action {
	return Action{Op: OpTransfer, Transfer: &p}
}

func NewBridgeAction(p BridgeParams) Action {
	return Action{Op: p.Op, Bridge: &p}
}

// Budgeted returns whether the action consumes one of the account counters.
func (a Action) Budgeted() bool {
	switch a.Op {
	case OpTransfer, OpStarkgateBridge, OpOrbiterBridge, OpLayerswapBridge:
		return false
	default:
		return true
	}
}
