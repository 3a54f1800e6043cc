package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/apperror"
)

func newTestOneInch(t *testing.T, url, apiKey string) *oneInchAdapter {
	t.Helper()
	cfg := testProviderConfig()
	cfg.APIKey = apiKey
	base, err := newBase(domain.ProviderOneInch, "1inch", "🦄", url, cfg, testDeps())
	require.NoError(t, err)
	return &oneInchAdapter{base}
}

func TestOneInchRequiresAPIKey(t *testing.T) {
	a := newTestOneInch(t, "http://unused", "")
	_, err := a.Quote(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeProviderAuth))
}

func TestOneInchCrossChainUsesFusion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fusion/quoter/v1.0/quote", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, "100000000", r.URL.Query().Get("amount"))

		w.Write([]byte(`{
			"dstAmount": "99000000",
			"estimatedGas": 150000,
			"gasPrice": "20000000000",
			"protocolFee": 500000
		}`))
	}))
	defer srv.Close()

	a := newTestOneInch(t, srv.URL, "key")
	quote, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)

	// 150k gas at 20 gwei priced at 2000 USD/ETH = 6 USD; protocol
	// fee in USDC base units = 0.5 USD.
	assert.InDelta(t, 6.0, quote.GasFee, 1e-9)
	assert.InDelta(t, 0.5, quote.BridgeFee, 1e-9)
	assert.InDelta(t, 6.5, quote.TotalCost, 1e-9)
	assert.Equal(t, "1inch Fusion+", quote.Route)
	assert.Equal(t, "3-5 mins", quote.EstimatedTime)
	require.NotNil(t, quote.OutputAmount)
	assert.Equal(t, "99000000", *quote.OutputAmount)
}

func TestOneInchSameChainUsesSwapEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/swap/v5.2/1/quote", r.URL.Path)
		w.Write([]byte(`{"toAmount": "99900000", "estimatedGas": 100000, "gasPrice": "10000000000"}`))
	}))
	defer srv.Close()

	a := newTestOneInch(t, srv.URL, "key")
	req := testRequest()
	req.ToChainID = req.FromChainID
	quote, err := a.Quote(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "1inch Aggregator", quote.Route)
	assert.Equal(t, "1-2 mins", quote.EstimatedTime)
	require.NotNil(t, quote.OutputAmount)
	assert.Equal(t, "99900000", *quote.OutputAmount)
}

func TestOneInchMissingOutputAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"estimatedGas": 100000}`))
	}))
	defer srv.Close()

	a := newTestOneInch(t, srv.URL, "key")
	_, err := a.Quote(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeMalformedResponse))
}
