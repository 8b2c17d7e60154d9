// Package walletrelay implements the chain client ports on top of the wallet
// relay service, the external process that owns transaction building and
// signing. The engine never touches chain SDKs directly, it hands the relay a
// fully parameterized action and gets back an accepted/rejected verdict.
package walletrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
	"github.com/non-fungible-user/starknet/pkg/retry"
)

type service struct {
	baseURL string
	client  *http.Client
}

// NewService checks the relay is reachable and returns a ports.ClientFactory
// over it.
func NewService(addr string) (ports.ClientFactory, error) {
	svc := &service{
		baseURL: strings.TrimSuffix(addr, "/"),
		client:  &http.Client{Timeout: 5 * time.Minute},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := svc.status(ctx); err != nil {
		return nil, fmt.Errorf("wallet relay unreachable at %s: %w", addr, err)
	}
	return svc, nil
}

func (s *service) NewSession(
	ctx context.Context, account domain.Account,
) (ports.Session, error) {
	payload := sessionRequest{
		StarknetPrivateKey: account.StarknetPrivateKey,
		StarknetWalletSalt: account.StarknetWalletSalt,
		EvmPrivateKey:      account.EvmPrivateKey,
		Proxy:              account.Proxy,
	}

	var created sessionResponse
	if err := s.do(
		ctx, http.MethodPost, "/v1/sessions", payload, &created,
	); err != nil {
		return nil, err
	}

	return &session{
		svc:             s,
		id:              created.ID,
		starknetAddress: created.StarknetAddress,
		evmAddress:      created.EvmAddress,
	}, nil
}

func (s *service) status(ctx context.Context) error {
	return s.do(ctx, http.MethodGet, "/v1/status", nil, nil)
}

// do runs one relay call. Transport failures and 5xx responses are marked
// transient so the retry wrapper re-attempts them, 4xx responses are final.
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
		return retry.Transient(fmt.Errorf("wallet relay: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return retry.Transient(
			fmt.Errorf("wallet relay returned status %d", resp.StatusCode),
		)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var failure errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&failure); err == nil &&
			failure.Message != "" {
			return fmt.Errorf("wallet relay: %s", failure.Message)
		}
		return fmt.Errorf("wallet relay returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding wallet relay response: %w", err)
	}
	return nil
}
