// Package coingecko resolves USD token prices from the CoinGecko simple-price
// endpoint. Calls are rate limited to stay within the public API allowance and
// guarded by a circuit breaker so a flapping price API degrades into fast
// failures instead of hammering the remote.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	"github.com/non-fungible-user/starknet/internal/core/ports"
	"github.com/non-fungible-user/starknet/pkg/circuitbreaker"
)

// the free tier allows roughly 30 calls/min, one every 2s keeps headroom
const callsPerMinute = 20

type service struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
	limiter ratelimit.Limiter
}

// NewService returns a ports.PriceOracle backed by the CoinGecko REST API at
// the given base URL.
func NewService(baseURL string) ports.PriceOracle {
	return &service{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		cb:      circuitbreaker.NewCircuitBreaker("coingecko"),
		limiter: ratelimit.New(callsPerMinute, ratelimit.Per(time.Minute)),
	}
}

func (s *service) GetUsdPrices(
	ctx context.Context, ids []string,
) ([]decimal.Decimal, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	s.limiter.Take()

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", "usd")
	endpoint := fmt.Sprintf(
		"%s/api/v3/simple/price?%s", s.baseURL, query.Encode(),
	)

	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.fetchPrices(ctx, endpoint)
	})
	if err != nil {
		return nil, err
	}
	quotes := res.(map[string]map[string]decimal.Decimal)

	prices := make([]decimal.Decimal, 0, len(ids))
	for _, id := range ids {
		quote, ok := quotes[id]
		if !ok {
			return nil, fmt.Errorf("price api returned no quote for %s", id)
		}
		prices = append(prices, quote["usd"])
	}
	return prices, nil
}

func (s *service) fetchPrices(
	ctx context.Context, endpoint string,
) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price api returned status %d", resp.StatusCode)
	}

	quotes := make(map[string]map[string]decimal.Decimal)
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("decoding price api response: %w", err)
	}
	return quotes, nil
}
