package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/apperror"
	"github.com/quotemesh/bridgequote/internal/config"
)

func testRequest() domain.CompareRequest {
	return domain.CompareRequest{
		FromChainID: 1,
		ToChainID:   137,
		Token:       "USDC",
		Amount:      "100",
		Sender:      "0x1111111111111111111111111111111111111111",
		Slippage:    "1",
	}
}

func newTestLiFi(t *testing.T, url string, cfg config.ProviderConfig) *lifiAdapter {
	t.Helper()
	base, err := newBase(domain.ProviderLiFi, "LI.FI", "🔷", url, cfg, testDeps())
	require.NoError(t, err)
	return &lifiAdapter{base}
}

func TestLiFiQuoteCostMath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("fromChain"))
		assert.Equal(t, "137", q.Get("toChain"))
		assert.Equal(t, "100000000", q.Get("fromAmount"))
		assert.Equal(t, "TestIntegrator", q.Get("integrator"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"toolDetails": {"key": "hop", "name": "Hop"},
			"estimate": {
				"toAmount": "99000000",
				"executionDuration": 120,
				"fromAmountUSD": "100",
				"toAmountUSD": "99",
				"gasCosts": [{"amountUSD": "2"}, {"amountUSD": "1"}],
				"networkFees": [{"amountUSD": "0.5"}],
				"feeCosts": [
					{"name": "LP Fee", "amountUSD": "0.25", "included": false},
					{"name": "Relayer", "amountUSD": "9", "included": true}
				]
			}
		}`))
	}))
	defer srv.Close()

	a := newTestLiFi(t, srv.URL, testProviderConfig())
	quote, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)

	// Itemized: gas 3 + network 0.5 + non-included fees 0.25 = 3.75,
	// larger than the implied USD delta of 1.
	assert.InDelta(t, 3.75, quote.TotalCost, 1e-9)
	assert.InDelta(t, 0.25, quote.BridgeFee, 1e-9)
	assert.InDelta(t, 3.5, quote.GasFee, 1e-9)
	assert.Equal(t, "2 mins", quote.EstimatedTime)
	assert.Equal(t, "Hop", quote.Route)
	// Curated metadata for the routed tool overrides the defaults.
	assert.Equal(t, "Hop Protocol", quote.Protocol)
	assert.Equal(t, "Optimistic Rollup", quote.Security)
	require.NotNil(t, quote.OutputAmount)
	assert.Equal(t, "99000000", *quote.OutputAmount)
	assert.False(t, quote.IsEstimated)
}

func TestLiFiQuoteUsesImpliedCostWhenLarger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"estimate": {"toAmount": "90000000", "fromAmountUSD": "100", "toAmountUSD": "90"}}`))
	}))
	defer srv.Close()

	a := newTestLiFi(t, srv.URL, testProviderConfig())
	quote, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)
	assert.InDelta(t, 10.0, quote.TotalCost, 1e-9)
}

func TestLiFiQuoteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "route not found", http.StatusNotFound)
	}))
	defer srv.Close()

	a := newTestLiFi(t, srv.URL, testProviderConfig())
	_, err := a.Quote(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeProviderHTTPError))
}

func TestLiFiQuoteMissingEstimate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	a := newTestLiFi(t, srv.URL, testProviderConfig())
	_, err := a.Quote(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeMalformedResponse))
}

func TestLiFiQuoteRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"estimate": {"toAmount": "1", "gasCosts": [{"amountUSD": "1"}]}}`))
	}))
	defer srv.Close()

	cfg := testProviderConfig()
	cfg.RateLimit = config.RateLimitConfig{MaxRequests: 1, Window: time.Minute}
	a := newTestLiFi(t, srv.URL, cfg)

	_, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)

	_, err = a.Quote(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeRateLimitExceeded))
}

func TestLiFiUnknownToken(t *testing.T) {
	a := newTestLiFi(t, "http://unused", testProviderConfig())
	req := testRequest()
	req.Token = "DOGE"
	_, err := a.Quote(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnsupportedToken))
}
