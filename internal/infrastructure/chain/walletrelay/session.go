package walletrelay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/internal/core/ports"
)

type session struct {
	svc             *service
	id              string
	starknetAddress string
	evmAddress      string
}

func (s *session) Reader() ports.ChainReader {
	return &reader{session: s, chain: "starknet"}
}

func (s *session) Writer() ports.ChainWriter {
	return &writer{session: s}
}

func (s *session) EvmReader(chain string) ports.ChainReader {
	return &reader{session: s, chain: chain}
}

func (s *session) StarknetAddress() string {
	return s.starknetAddress
}

func (s *session) EvmAddress() string {
	return s.evmAddress
}

func (s *session) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return s.svc.do(
		ctx, http.MethodDelete, "/v1/sessions/"+s.id, nil, nil,
	)
}

type reader struct {
	session *session
	chain   string
}

func (r *reader) GetBalance(
	ctx context.Context, token domain.Token,
) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("chain", r.chain)
	query.Set("token", token.Address)
	path := fmt.Sprintf(
		"/v1/sessions/%s/balance?%s", r.session.id, query.Encode(),
	)

	var res balanceResponse
	if err := r.session.svc.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return decimal.Zero, err
	}
	return res.Balance, nil
}

type writer struct {
	session *session
}

func (w *writer) ExecuteAction(
	ctx context.Context, action domain.Action,
) (bool, error) {
	path := fmt.Sprintf("/v1/sessions/%s/actions", w.session.id)

	var res actionResponse
	if err := w.session.svc.do(
		ctx, http.MethodPost, path, encodeAction(action), &res,
	); err != nil {
		return false, err
	}
	return res.Accepted, nil
}
