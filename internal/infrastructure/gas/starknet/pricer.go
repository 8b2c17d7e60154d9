// Package starknet reports the L2 gas price as carried by the latest block of
// the sequencer gateway.
package starknet

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/non-fungible-user/starknet/internal/core/ports"
	"github.com/non-fungible-user/starknet/pkg/circuitbreaker"
)

type pricer struct {
	endpoint string
	client   *http.Client
	cb       *gobreaker.CircuitBreaker
}

// NewPricer returns a ports.GasPricer reading the gas price of the latest
// block from the given gateway endpoint.
func NewPricer(endpoint string) ports.GasPricer {
	return &pricer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		cb:       circuitbreaker.NewCircuitBreaker("starknet-gas"),
	}
}

func (p *pricer) GasPrice(ctx context.Context) (*big.Int, error) {
	res, err := p.cb.Execute(func() (interface{}, error) {
		return p.fetchLastBlockGasPrice(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.(*big.Int), nil
}

func (p *pricer) fetchLastBlockGasPrice(ctx context.Context) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gas api returned status %d", resp.StatusCode)
	}

	var block struct {
		GasPrice string `json:"gas_price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&block); err != nil {
		return nil, fmt.Errorf("decoding gas api response: %w", err)
	}

	price, ok := new(big.Int).SetString(
		strings.TrimPrefix(block.GasPrice, "0x"), 16,
	)
	if !ok {
		return nil, fmt.Errorf("malformed gas price %q", block.GasPrice)
	}
	return price, nil
}
