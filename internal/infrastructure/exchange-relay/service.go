// Package exchangerelay implements ports.Exchange against the exchange
// boundary service, the external process holding the exchange API credentials.
// The engine only sees currency amounts and withdrawal states, never keys.
package exchangerelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/non-fungible-user/starknet/internal/core/ports"
)

type service struct {
	baseURL string
	client  *http.Client
}

// NewService returns a ports.Exchange talking to the boundary service at the
// given address.
func NewService(addr string) ports.Exchange {
	return &service{
		baseURL: strings.TrimSuffix(addr, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *service) Withdraw(
	ctx context.Context, currency string, amount decimal.Decimal, address string,
) (string, error) {
	payload := map[string]interface{}{
		"currency": currency,
		"amount":   amount,
		"address":  address,
	}
	var res struct {
		ID string `json:"id"`
	}
	if err := s.do(
		ctx, http.MethodPost, "/v1/withdrawals", payload, &res,
	); err != nil {
		return "", err
	}
	return res.ID, nil
}

func (s *service) WithdrawalStatus(
	ctx context.Context, withdrawalID string,
) (ports.WithdrawalState, error) {
	var res struct {
		State string `json:"state"`
	}
	if err := s.do(
		ctx, http.MethodGet, "/v1/withdrawals/"+withdrawalID, nil, &res,
	); err != nil {
		return ports.WithdrawalPending, err
	}
	switch res.State {
	case "completed":
		return ports.WithdrawalCompleted, nil
	case "cancelled":
		return ports.WithdrawalCancelled, nil
	default:
		return ports.WithdrawalPending, nil
	}
}

func (s *service) MainBalance(
	ctx context.Context, currency string,
) (decimal.Decimal, error) {
	var res struct {
		Balance decimal.Decimal `json:"balance"`
	}
	if err := s.do(
		ctx, http.MethodGet, "/v1/balances/main?currency="+currency, nil, &res,
	); err != nil {
		return decimal.Zero, err
	}
	return res.Balance, nil
}

func (s *service) SubAccountBalances(
	ctx context.Context, currency string,
) ([]ports.SubAccountBalance, error) {
	var res struct {
		Balances []struct {
			Name    string          `json:"name"`
			Balance decimal.Decimal `json:"balance"`
		} `json:"balances"`
	}
	if err := s.do(
		ctx, http.MethodGet, "/v1/balances/sub?currency="+currency, nil, &res,
	); err != nil {
		return nil, err
	}

	balances := make([]ports.SubAccountBalance, 0, len(res.Balances))
	for _, b := range res.Balances {
		balances = append(balances, ports.SubAccountBalance{
			Name:    b.Name,
			Balance: b.Balance,
		})
	}
	return balances, nil
}

func (s *service) TransferFromSubAccount(
	ctx context.Context, name, currency string, amount decimal.Decimal,
) error {
	payload := map[string]interface{}{
		"from":     name,
		"currency": currency,
		"amount":   amount,
	}
	return s.do(ctx, http.MethodPost, "/v1/transfers", payload, nil)
}

func (s *service) do(
	ctx context.Context, method, path string, in, out interface{},
) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("exchange service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var failure struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err == nil &&
			failure.Message != "" {
			return fmt.Errorf("exchange service: %s", failure.Message)
		}
		return fmt.Errorf("exchange service returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding exchange service response: %w", err)
	}
	return nil
}
