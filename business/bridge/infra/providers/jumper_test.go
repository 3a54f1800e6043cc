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

func newTestJumper(t *testing.T, url string) *jumperAdapter {
	t.Helper()
	base, err := newBase(domain.ProviderJumper, "Jumper", "🟪", url, testProviderConfig(), testDeps())
	require.NoError(t, err)
	return &jumperAdapter{base}
}

func TestJumperQuoteFeeBreakdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("slippage"))
		assert.Equal(t, "false", q.Get("skipSimulation"))
		assert.Equal(t, "TestIntegrator", q.Get("integrator"))

		w.Write([]byte(`{
			"toolDetails": {"key": "across", "name": "Across"},
			"estimate": {
				"toAmount": "99000000",
				"executionDuration": 60,
				"feeCosts": [{"name": "Relayer", "amountUSD": "0.5"}],
				"gasCosts": [{"amountUSD": "1.25"}]
			}
		}`))
	}))
	defer srv.Close()

	a := newTestJumper(t, srv.URL)
	quote, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)

	assert.InDelta(t, 0.5, quote.BridgeFee, 1e-9)
	assert.InDelta(t, 1.25, quote.GasFee, 1e-9)
	assert.InDelta(t, 1.75, quote.TotalCost, 1e-9)
	assert.Equal(t, "1 mins", quote.EstimatedTime)
	assert.Equal(t, "Across", quote.Route)
	// Jumper keeps the aggregator as protocol but adopts the routed
	// tool's curated security/liquidity labels.
	assert.Equal(t, "LI.FI", quote.Protocol)
	assert.Equal(t, "Optimistic Oracle", quote.Security)
	assert.Equal(t, "High", quote.Liquidity)
	require.NotNil(t, quote.OutputAmount)
	assert.Equal(t, "99000000", *quote.OutputAmount)
}

func TestJumperQuoteMissingEstimate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"toolDetails": {"key": "hop"}}`))
	}))
	defer srv.Close()

	a := newTestJumper(t, srv.URL)
	_, err := a.Quote(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeMalformedResponse))
}
