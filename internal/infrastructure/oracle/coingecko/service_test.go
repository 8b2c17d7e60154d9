package coingecko_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/non-fungible-user/starknet/internal/infrastructure/oracle/coingecko"
)

func TestGetUsdPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v3/simple/price", r.URL.Path)
			require.Equal(t, "ethereum,dai", r.URL.Query().Get("ids"))
			require.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ethereum":{"usd":3100.42},"dai":{"usd":0.9998}}`))
		},
	))
	defer srv.Close()

	oracle := coingecko.NewService(srv.URL)
	prices, err := oracle.GetUsdPrices(
		context.Background(), []string{"ethereum", "dai"},
	)
	require.NoError(t, err)
	require.Len(t, prices, 2)
	require.Equal(t, "3100.42", prices[0].String())
	require.Equal(t, "0.9998", prices[1].String())
}

func TestGetUsdPricesMissingQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"ethereum":{"usd":3100.42}}`))
		},
	))
	defer srv.Close()

	oracle := coingecko.NewService(srv.URL)
	_, err := oracle.GetUsdPrices(
		context.Background(), []string{"ethereum", "dai"},
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "dai")
}

func TestGetUsdPricesBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
	))
	defer srv.Close()

	oracle := coingecko.NewService(srv.URL)
	_, err := oracle.GetUsdPrices(context.Background(), []string{"ethereum"})
	require.Error(t, err)
}

func TestGetUsdPricesEmptyIDs(t *testing.T) {
	oracle := coingecko.NewService("http://unused")
	prices, err := oracle.GetUsdPrices(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, prices)
}
