package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/apperror"
)

func newTestRango(t *testing.T, url string) *rangoAdapter {
	t.Helper()
	base, err := newBase(domain.ProviderRango, "Rango", "🦘", url, testProviderConfig(), testDeps())
	require.NoError(t, err)
	return &rangoAdapter{base}
}

func TestRangoQuoteUsesBlockchainNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/routing/best", r.URL.Path)
		assert.Equal(t, rangoDemoKey, r.Header.Get("API-KEY"))

		var body rangoRouteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ETH", body.From.Blockchain)
		assert.Equal(t, "POLYGON", body.To.Blockchain)
		assert.Equal(t, "USDC", body.From.Symbol)
		assert.Equal(t, "100000000", body.Amount)
		assert.Equal(t, "TestIntegrator", body.AffiliateRef)

		w.Write([]byte(`{
			"result": {
				"outputAmount": "99000000",
				"fee": {"totalFee": 1.2, "networkFee": 0.8},
				"swappers": ["Hyphen"],
				"estimatedTimeInSeconds": 240
			}
		}`))
	}))
	defer srv.Close()

	a := newTestRango(t, srv.URL)
	quote, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)

	assert.InDelta(t, 1.2, quote.BridgeFee, 1e-9)
	assert.InDelta(t, 0.8, quote.GasFee, 1e-9)
	assert.InDelta(t, 2.0, quote.TotalCost, 1e-9)
	assert.Equal(t, "4 mins", quote.EstimatedTime)
	assert.Equal(t, "Rango Route", quote.Route)
	require.NotNil(t, quote.OutputAmount)
	assert.Equal(t, "99000000", *quote.OutputAmount)
}

func TestRangoQuoteUnmappedChain(t *testing.T) {
	a := newTestRango(t, "http://unused")
	req := testRequest()
	req.ToChainID = 100 // Gnosis has no Rango blockchain name
	_, err := a.Quote(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnsupportedRoute))
}

func TestRangoQuoteMissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": null}`))
	}))
	defer srv.Close()

	a := newTestRango(t, srv.URL)
	_, err := a.Quote(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeMalformedResponse))
}
