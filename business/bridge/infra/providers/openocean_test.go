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

func newTestOpenOcean(t *testing.T, url string) *openOceanAdapter {
	t.Helper()
	base, err := newBase(domain.ProviderOpenOcean, "OpenOcean", "🌊", url, testProviderConfig(), testDeps())
	require.NoError(t, err)
	return &openOceanAdapter{base}
}

func TestOpenOceanQuoteCostMath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Chain slug is interpolated into the path.
		assert.Equal(t, "/eth/quote", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "100000000", q.Get("amount"))
		assert.Equal(t, "100", q.Get("slippage"))
		assert.Equal(t, "5", q.Get("gasPrice"))

		w.Write([]byte(`{
			"data": {
				"outAmount": "99000000",
				"inAmount": 100000000,
				"estimatedGas": 200000,
				"price_impact": "-0.01"
			}
		}`))
	}))
	defer srv.Close()

	a := newTestOpenOcean(t, srv.URL)
	quote, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)

	// 200k gas units at 5 gwei priced at 2000 USD/ETH = 2 USD; the
	// fee is the absolute price impact over the USDC input = 1 USD.
	assert.InDelta(t, 2.0, quote.GasFee, 1e-9)
	assert.InDelta(t, 1.0, quote.BridgeFee, 1e-9)
	assert.InDelta(t, 3.0, quote.TotalCost, 1e-9)
	assert.Equal(t, "1-2 mins", quote.EstimatedTime)
	assert.Equal(t, "OpenOcean", quote.Protocol)
	require.NotNil(t, quote.OutputAmount)
	assert.Equal(t, "99000000", *quote.OutputAmount)
}

func TestOpenOceanQuoteUnmappedChain(t *testing.T) {
	a := newTestOpenOcean(t, "http://unused")
	req := testRequest()
	req.FromChainID = 100 // Gnosis has no OpenOcean slug
	_, err := a.Quote(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnsupportedRoute))
}

func TestOpenOceanQuoteMissingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": null}`))
	}))
	defer srv.Close()

	a := newTestOpenOcean(t, srv.URL)
	_, err := a.Quote(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeMalformedResponse))
}
