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

func newTestAcross(t *testing.T, url string) *acrossAdapter {
	t.Helper()
	base, err := newBase(domain.ProviderAcross, "Across", "🌉", url, testProviderConfig(), testDeps())
	require.NoError(t, err)
	return &acrossAdapter{base}
}

func TestAcrossQuotePctFeeMath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/suggested-fees", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("originChainId"))
		assert.Equal(t, "137", q.Get("destinationChainId"))
		assert.Equal(t, "100000000", q.Get("amount"))
		assert.Equal(t, "0x1111111111111111111111111111111111111111", q.Get("depositor"))

		w.Write([]byte(`{
			"totalRelayFee": {"pct": 0.1, "total": "100000"},
			"capitalFeePct": 0.05,
			"lpFeePct": 0.05,
			"estimatedGasCost": {"usd": 1.5},
			"estimatedFillTimeSec": 90
		}`))
	}))
	defer srv.Close()

	a := newTestAcross(t, srv.URL)
	quote, err := a.Quote(context.Background(), testRequest())
	require.NoError(t, err)

	// Fees are percentages of the 100 USDC deposit:
	// relay 0.1 + capital 0.05 + lp 0.05 = 0.2, plus 1.5 gas.
	assert.InDelta(t, 0.2, quote.BridgeFee, 1e-9)
	assert.InDelta(t, 1.5, quote.GasFee, 1e-9)
	assert.InDelta(t, 1.7, quote.TotalCost, 1e-9)
	assert.Equal(t, "2 mins", quote.EstimatedTime)
	assert.Equal(t, "Across Bridge", quote.Route)
	assert.Equal(t, "Optimistic Oracle", quote.Security)
	// Output is the deposit minus the relay fee, in units.
	require.NotNil(t, quote.OutputAmount)
	assert.Equal(t, "99900000", *quote.OutputAmount)
	assert.False(t, quote.IsEstimated)
}

func TestAcrossQuoteRejectsBadAmount(t *testing.T) {
	a := newTestAcross(t, "http://unused")
	req := testRequest()
	req.Amount = "not-a-number"
	_, err := a.Quote(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
}

func TestAcrossQuoteMissingRelayFee(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"capitalFeePct": 0.05}`))
	}))
	defer srv.Close()

	a := newTestAcross(t, srv.URL)
	_, err := a.Quote(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeMalformedResponse))
}
