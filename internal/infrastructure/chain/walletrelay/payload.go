package walletrelay

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/non-fungible-user/starknet/internal/core/domain"
)

const closeTimeout = 15 * time.Second

type sessionRequest struct {
	StarknetPrivateKey string `json:"starknet_private_key"`
	StarknetWalletSalt string `json:"starknet_wallet_salt,omitempty"`
	EvmPrivateKey      string `json:"evm_private_key,omitempty"`
	Proxy              string `json:"proxy,omitempty"`
}

type sessionResponse struct {
	ID              string `json:"id"`
	StarknetAddress string `json:"starknet_address"`
	EvmAddress      string `json:"evm_address,omitempty"`
}

type balanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type actionResponse struct {
	Accepted bool `json:"accepted"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// actionPayload is the relay wire form of a domain.Action. Op selects which
// of the optional parameter blocks is present.
type actionPayload struct {
	Op       string           `json:"op"`
	Swap     *swapPayload     `json:"swap,omitempty"`
	NFT      *nftPayload      `json:"nft,omitempty"`
	Mail     *mailPayload     `json:"mail,omitempty"`
	Lending  *lendingPayload  `json:"lending,omitempty"`
	Transfer *transferPayload `json:"transfer,omitempty"`
	Bridge   *bridgePayload   `json:"bridge,omitempty"`
}

type swapPayload struct {
	Venue    string          `json:"venue"`
	TokenIn  string          `json:"token_in"`
	TokenOut string          `json:"token_out"`
	AmountIn decimal.Decimal `json:"amount_in"`
}

type nftPayload struct {
	AllowanceAmount decimal.Decimal `json:"allowance_amount,omitempty"`
}

type mailPayload struct {
	Recipient string `json:"recipient"`
	Theme     string `json:"theme"`
}

type lendingPayload struct {
	DepositAmount decimal.Decimal `json:"deposit_amount,omitempty"`
}

type transferPayload struct {
	Token     string          `json:"token"`
	Amount    decimal.Decimal `json:"amount"`
	Recipient string          `json:"recipient"`
}

type bridgePayload struct {
	Amount      decimal.Decimal `json:"amount"`
	Recipient   string          `json:"recipient"`
	FromEvm     bool            `json:"from_evm"`
	SourceChain string          `json:"source_chain,omitempty"`
}

func encodeAction(action domain.Action) actionPayload {
	payload := actionPayload{Op: action.Op.String()}
	switch {
	case action.Swap != nil:
		payload.Swap = &swapPayload{
			Venue:    action.Swap.Venue.String(),
			TokenIn:  action.Swap.TokenIn.Address,
			TokenOut: action.Swap.TokenOut.Address,
			AmountIn: action.Swap.AmountIn,
		}
	case action.NFT != nil:
		payload.NFT = &nftPayload{
			AllowanceAmount: action.NFT.AllowanceAmount,
		}
	case action.Mail != nil:
		payload.Mail = &mailPayload{
			Recipient: action.Mail.Recipient,
			Theme:     action.Mail.Theme,
		}
	case action.Lending != nil:
		payload.Lending = &lendingPayload{
			DepositAmount: action.Lending.DepositAmount,
		}
	case action.Transfer != nil:
		payload.Transfer = &transferPayload{
			Token:     action.Transfer.Token.Address,
			Amount:    action.Transfer.Amount,
			Recipient: action.Transfer.Recipient,
		}
	case action.Bridge != nil:
		payload.Bridge = &bridgePayload{
			Amount:      action.Bridge.Amount,
			Recipient:   action.Bridge.Recipient,
			FromEvm:     action.Bridge.FromEvm,
			SourceChain: action.Bridge.SourceChain,
		}
	}
	return payload
}
