package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account holds the secrets, remaining-action budgets and progress flags of a
// single managed StarkNet wallet. The json tags are the persisted ledger file
// contract, secret fields are obscured by the storage layer at persist time.
type Account struct {
	ID                 string `json:"id"`
	StarknetPrivateKey string `json:"starknet_private_key"`
	StarknetWalletSalt string `json:"starknet_wallet_salt,omitempty"`
	EvmPrivateKey      string `json:"evm_private_key,omitempty"`
	Proxy              string `json:"proxy,omitempty"`
	WithdrawalAddress  string `json:"withdrawal_address,omitempty"`

	DmailTxCount                   int `json:"dmail_tx_count"`
	NftMarketplaceAllowanceTxCount int `json:"nft_marketplace_allowance_tx_count"`
	MyswapSwapTxCount              int `json:"myswap_swap_tx_count"`
	JediswapSwapTxCount            int `json:"jediswap_swap_tx_count"`
	TenkswapSwapTxCount            int `json:"tenkswap_swap_tx_count"`
	SithswapSwapTxCount            int `json:"sithswap_swap_tx_count"`
	AvnuSwapTxCount                int `json:"avnu_swap_tx_count"`
	MyIdentityMintTxCount          int `json:"my_identity_mint_tx_count"`
	StarkverseMintTxCount          int `json:"starkverse_mint_tx_count"`
	ZklendDepositTxCount           int `json:"zklend_deposit_tx_count"`
	ZklendWithdrawTxCount          int `json:"zklend_withdraw_tx_count"`

	IsOkxWithdrawCompleted bool `json:"is_okx_withdraw_completed"`
	IsBridgeCompleted      bool `json:"is_bridge_completed"`

	// VolumeAmount is a scratch value used by the volume workflows, it is
	// persisted but never authoritative.
	VolumeAmount decimal.Decimal `json:"volume_amount"`
}

// NewAccount returns an account with a fresh trace id and zeroed budgets.
func NewAccount(starknetPrivateKey string) *Account {
	return &Account{
		ID:                 uuid.NewString(),
		StarknetPrivateKey: starknetPrivateKey,
	}
}

// TotalTxCount returns the sum of all remaining-action budgets. An account
// with a zero total is complete and must never be re-selected.
func (a *Account) TotalTxCount() int {
	return a.DmailTxCount +
		a.NftMarketplaceAllowanceTxCount +
		a.MyswapSwapTxCount +
		a.JediswapSwapTxCount +
		a.TenkswapSwapTxCount +
		a.SithswapSwapTxCount +
		a.AvnuSwapTxCount +
		a.MyIdentityMintTxCount +
		a.StarkverseMintTxCount +
		a.ZklendDepositTxCount +
		a.ZklendWithdrawTxCount
}

// IsComplete returns whether all budgets reached zero.
func (a *Account) IsComplete() bool {
	return a.TotalTxCount() <= 0
}

func (a *Account) budgetRef(op OpKind) *int {
	switch op {
	case OpDmailSend:
		return &a.DmailTxCount
	case OpNftMarketplaceAllowance:
		return &a.NftMarketplaceAllowanceTxCount
	case OpMyswapSwap:
		return &a.MyswapSwapTxCount
	case OpJediswapSwap:
		return &a.JediswapSwapTxCount
	case OpTenkswapSwap:
		return &a.TenkswapSwapTxCount
	case OpSithswapSwap:
		return &a.SithswapSwapTxCount
	case OpAvnuSwap:
		return &a.AvnuSwapTxCount
	case OpMyIdentityMint:
		return &a.MyIdentityMintTxCount
	case OpStarkverseMint:
		return &a.StarkverseMintTxCount
	case OpZklendDeposit:
		return &a.ZklendDepositTxCount
	case OpZklendWithdraw:
		return &a.ZklendWithdrawTxCount
	default:
		return nil
	}
}

// Budget returns the remaining count for the given operation kind.
func (a *Account) Budget(op OpKind) int {
	ref := a.budgetRef(op)
	if ref == nil {
		return 0
	}
	return *ref
}

// DecrementBudget consumes one unit of the budget for the given operation
// kind. It fails with ErrBudgetExhausted if the counter is already zero so
// that no counter can ever go negative.
func (a *Account) DecrementBudget(op OpKind) error {
	ref := a.budgetRef(op)
	if ref == nil {
		return ErrUnknownOperation
	}
	if *ref <= 0 {
		return ErrBudgetExhausted
	}
	*ref--
	return nil
}
