package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotemesh/bridgequote/business/bridge/domain"
)

func newTestSocket(t *testing.T, url string) *socketAdapter {
	t.Helper()
	base, err := newBase(domain.ProviderSocket, "Socket", "🔌", url, testProviderConfig(), testDeps())
	require.NoError(t, err)
	return &socketAdapter{base}
}

func TestSocketQuoteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, socketDemoKey, r.Header.Get("API-KEY"))
		q := r.URL.Query()
		assert.Equal(t, "output", q.Get("sort"))
		assert.Equal(t, "true", q.Get("singleTxOnly"))

		w.Write([]byte(`{"result": {"routes": [{
			"toAmount": "99000000",
			"totalGasFeesInUsd": 3,
			"bridgeFee": {"amount": 2000000},
			"serviceTime": 120,
			"usedBridgeNames": ["hop", "across"]
		}]}}`))
	}))
	defer srv.Close()

	a := newTestSocket(t, srv.URL)
	quote, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)
	assert.InDelta(t, 5.0, quote.TotalCost, 1e-9)
	assert.InDelta(t, 2.0, quote.BridgeFee, 1e-9)
	assert.Equal(t, "hop + across", quote.Route)
	assert.Equal(t, "2 mins", quote.EstimatedTime)
	assert.False(t, quote.IsEstimated)
}

func TestSocketFallsBackWhenNoRoutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": {"routes": []}}`))
	}))
	defer srv.Close()

	a := newTestSocket(t, srv.URL)
	quote, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)
	assert.True(t, quote.IsEstimated)
	assert.Equal(t, 10.0, quote.TotalCost)
	assert.Equal(t, 4.0, quote.BridgeFee)
	assert.Equal(t, 6.0, quote.GasFee)
}
