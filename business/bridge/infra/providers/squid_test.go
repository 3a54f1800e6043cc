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

func newTestSquid(t *testing.T, url string) *squidAdapter {
	t.Helper()
	base, err := newBase(domain.ProviderSquid, "Squid", "🦑", url, testProviderConfig(), testDeps())
	require.NoError(t, err)
	return &squidAdapter{base}
}

func TestSquidQuoteCostMath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/route", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "TestIntegrator", r.Header.Get("x-integrator-id"))

		var body squidRouteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1", body.FromChain)
		assert.Equal(t, "137", body.ToChain)
		assert.Equal(t, "100000000", body.FromAmount)
		assert.Equal(t, 1.0, body.Slippage)
		assert.True(t, body.EnableBoost)

		w.Write([]byte(`{
			"route": {
				"estimate": {
					"toAmount": "99000000",
					"gasCosts": [{"amount": "2000000"}],
					"feeCosts": [{"amountUSD": "0.75"}],
					"estimatedRouteDuration": 120
				}
			}
		}`))
	}))
	defer srv.Close()

	a := newTestSquid(t, srv.URL)
	quote, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)

	// Gas arrives in USDC base units: 2000000 / 1e6 = 2 USD.
	assert.InDelta(t, 2.0, quote.GasFee, 1e-9)
	assert.InDelta(t, 0.75, quote.BridgeFee, 1e-9)
	assert.InDelta(t, 2.75, quote.TotalCost, 1e-9)
	assert.Equal(t, "2 mins", quote.EstimatedTime)
	assert.Equal(t, "Squid Router", quote.Route)
	assert.Equal(t, "Axelar", quote.Protocol)
	require.NotNil(t, quote.OutputAmount)
	assert.Equal(t, "99000000", *quote.OutputAmount)
}

func TestSquidQuoteMissingRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	a := newTestSquid(t, srv.URL)
	_, err := a.Quote(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeMalformedResponse))
}
