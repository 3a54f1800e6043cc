package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	json "github.com/goccy/go-json"

	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/apperror"
)

func newTestStargate(t *testing.T, url string) *stargateAdapter {
	t.Helper()
	base, err := newBase(domain.ProviderStargate, "Stargate", "⭐", url, testProviderConfig(), testDeps())
	require.NoError(t, err)
	return &stargateAdapter{base}
}

func TestStargateQuoteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body stargateQuoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 101, body.SrcChainID) // Ethereum endpoint ID
		assert.Equal(t, 109, body.DstChainID) // Polygon endpoint ID
		assert.Equal(t, 1, body.SrcPoolID)    // USDC pool
		assert.Equal(t, "100000000", body.Amount)

		w.Write([]byte(`{"fee": "2.5", "gasEstimate": "4", "expectedOutput": "99500000"}`))
	}))
	defer srv.Close()

	a := newTestStargate(t, srv.URL)
	quote, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)
	assert.InDelta(t, 6.5, quote.TotalCost, 1e-9)
	assert.Equal(t, "LayerZero", quote.Protocol)
	assert.False(t, quote.IsEstimated)
	require.NotNil(t, quote.OutputAmount)
	assert.Equal(t, "99500000", *quote.OutputAmount)
}

func TestStargateFallsBackToEstimateOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := newTestStargate(t, srv.URL)
	quote, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)
	assert.True(t, quote.IsEstimated)
	assert.Equal(t, 8.0, quote.TotalCost)
	assert.Equal(t, 3.0, quote.BridgeFee)
	assert.Equal(t, 5.0, quote.GasFee)
	assert.Equal(t, "1-3 mins", quote.EstimatedTime)
}

func TestStargateUnsupportedChainPair(t *testing.T) {
	a := newTestStargate(t, "http://unused")
	req := testRequest()
	req.ToChainID = 100 // Gnosis has no LayerZero endpoint here
	_, err := a.Quote(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnsupportedRoute))
}
