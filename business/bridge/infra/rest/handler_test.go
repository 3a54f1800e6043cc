package rest_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/business/bridge/infra/rest"
	"github.com/quotemesh/bridgequote/internal/config"
	"github.com/quotemesh/bridgequote/internal/logger"
)

type stubProvider struct {
	key   domain.ProviderKey
	quote *domain.Quote
	err   error
}

func (s *stubProvider) Key() domain.ProviderKey { return s.key }
func (s *stubProvider) Name() string            { return string(s.key) }
func (s *stubProvider) Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error) {
	return s.quote, s.err
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Environment: "test"},
		Compare: config.CompareConfig{
			DefaultSlippage: "1",
			IntegratorName:  "TestIntegrator",
		},
		Providers: map[string]config.ProviderConfig{
			"lifi": {Enabled: true, Priority: 1, RateLimit: config.RateLimitConfig{MaxRequests: 30, Window: time.Minute}},
			"zerox": {
				Enabled: true, Priority: 9, RequiresAuth: true,
				RateLimit: config.RateLimitConfig{MaxRequests: 100, Window: time.Minute},
			},
			"disabled": {Enabled: false, Priority: 99, RateLimit: config.RateLimitConfig{MaxRequests: 1, Window: time.Minute}},
		},
	}
}

func newTestRouter(t *testing.T, providers []app.TierProvider) http.Handler {
	t.Helper()
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	svc := app.NewCompareService(app.StaticProviders(providers), nil, log, app.CompareOptions{
		CallTimeout: time.Second,
		Schedule:    func(tier int) time.Duration { return 0 },
	})
	h := rest.NewHandler(svc, testConfig(), log)
	return rest.NewRouter(h, config.ServerConfig{}, log)
}

func postCompare(t *testing.T, router http.Handler, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/compare", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func compareBody() map[string]any {
	return map[string]any{
		"fromChainId": 1,
		"toChainId":   137,
		"token":       "USDC",
		"amount":      "100",
		"fromAddress": "0x1111111111111111111111111111111111111111",
	}
}

func TestCompareEndpointRanksQuotes(t *testing.T) {
	router := newTestRouter(t, []app.TierProvider{
		{Priority: 1, Provider: &stubProvider{key: "lifi", quote: &domain.Quote{Name: "LI.FI", Provider: "lifi", TotalCost: 5}}},
		{Priority: 2, Provider: &stubProvider{key: "stargate", quote: &domain.Quote{Name: "Stargate", Provider: "stargate", TotalCost: 8}}},
		{Priority: 3, Provider: &stubProvider{key: "socket", quote: &domain.Quote{Name: "Socket", Provider: "socket", TotalCost: 12}}},
	})

	rec := postCompare(t, router, compareBody())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Bridges []struct {
			Name    string   `json:"name"`
			IsBest  bool     `json:"isBest"`
			Savings *float64 `json:"savings"`
		} `json:"bridges"`
		Summary struct {
			BestPrice          *float64 `json:"bestPrice"`
			ProvidersQueried   int      `json:"providersQueried"`
			ProvidersResponded int      `json:"providersResponded"`
		} `json:"summary"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	require.Len(t, resp.Bridges, 3)
	assert.True(t, resp.Bridges[0].IsBest)
	assert.Equal(t, "LI.FI", resp.Bridges[0].Name)
	// Savings are against the costliest quote, which itself saves 0.
	assert.Equal(t, 4.0, *resp.Bridges[1].Savings)
	assert.Equal(t, 0.0, *resp.Bridges[2].Savings)
	assert.Equal(t, 5.0, *resp.Summary.BestPrice)
	assert.Equal(t, 3, resp.Summary.ProvidersQueried)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestCompareEndpointValidationError(t *testing.T) {
	router := newTestRouter(t, nil)

	body := compareBody()
	body["toChainId"] = 1
	rec := postCompare(t, router, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Source and destination chains must be different", resp["error"])
}

func TestCompareEndpointAllProvidersFail(t *testing.T) {
	router := newTestRouter(t, []app.TierProvider{
		{Priority: 1, Provider: &stubProvider{key: "lifi", err: errors.New("down")}},
	})

	rec := postCompare(t, router, compareBody())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool           `json:"success"`
		Error   string         `json:"error"`
		Bridges []domain.Quote `json:"bridges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "No providers responded", resp.Error)
	assert.NotNil(t, resp.Bridges)
	assert.Empty(t, resp.Bridges)
}

func TestCompareEndpointInvalidJSON(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/compare", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status    string `json:"status"`
		Providers map[string]struct {
			Status    string `json:"status"`
			Priority  int    `json:"priority"`
			RateLimit string `json:"rateLimit"`
		} `json:"providers"`
		Settings map[string]string `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "operational", resp.Status)
	assert.Equal(t, "Active", resp.Providers["lifi"].Status)
	assert.Equal(t, "30 req/1m0s", resp.Providers["lifi"].RateLimit)
	assert.Equal(t, "Disabled (no key)", resp.Providers["zerox"].Status)
	assert.Equal(t, "Disabled", resp.Providers["disabled"].Status)
	assert.Equal(t, "TestIntegrator", resp.Settings["integrator"])
}

func TestProvidersEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/providers", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count     int `json:"count"`
		Providers []struct {
			Name           string `json:"name"`
			Status         string `json:"status"`
			AuthConfigured bool   `json:"authConfigured"`
		} `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// The disabled provider is excluded; keyless auth providers show as
	// Limited rather than vanishing.
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "lifi", resp.Providers[0].Name)
	assert.Equal(t, "Active", resp.Providers[0].Status)
	assert.Equal(t, "zerox", resp.Providers[1].Name)
	assert.Equal(t, "Limited", resp.Providers[1].Status)
	assert.False(t, resp.Providers[1].AuthConfigured)
}

func TestRequestIDHeaderEchoed(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}
