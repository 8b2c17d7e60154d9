// Package ethereum reports the current L1 gas price straight from an ethereum
// JSON-RPC node.
package ethereum

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/non-fungible-user/starknet/internal/core/ports"
)

type pricer struct {
	client *ethclient.Client
}

// NewPricer dials the given JSON-RPC endpoint and returns a ports.GasPricer
// over it.
func NewPricer(rpcURL string) (ports.GasPricer, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, err
	}
	return &pricer{client: client}, nil
}

func (p *pricer) GasPrice(ctx context.Context) (*big.Int, error) {
	return p.client.SuggestGasPrice(ctx)
}
