// Package providers implements the bridge provider adapters behind the
// app.BridgeProvider port. Each adapter owns its rate limiter and HTTP
// client and maps one upstream wire format into the normalized Quote.
package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/apperror"
	"github.com/quotemesh/bridgequote/internal/chainindex"
	"github.com/quotemesh/bridgequote/internal/circuitbreaker"
	"github.com/quotemesh/bridgequote/internal/config"
	"github.com/quotemesh/bridgequote/internal/httpclient"
	"github.com/quotemesh/bridgequote/internal/logger"
	"github.com/quotemesh/bridgequote/internal/ratelimit"
	"github.com/quotemesh/bridgequote/internal/unitconv"
)

// Fallback figures when an upstream omits a value.
const (
	defaultGasEstimateUSD = 5.0
	retryAttempts         = 3
	retryInitialInterval  = 500 * time.Millisecond
)

// Deps carries the shared infrastructure adapters are built with.
type Deps struct {
	Logger  logger.LoggerInterface
	Compare config.CompareConfig
}

// integrator returns the integrator name advertised to upstreams.
func (d Deps) integrator() string {
	if d.Compare.IntegratorName != "" {
		return d.Compare.IntegratorName
	}
	return "BridgeAggregator"
}

// baseAdapter holds the plumbing common to every provider adapter.
// Concrete adapters embed it and implement Quote.
type baseAdapter struct {
	key     domain.ProviderKey
	name    string
	icon    string
	limiter *ratelimit.Limiter
	client  httpclient.Client
	apiKey  string
	deps    Deps
}

func newBase(key domain.ProviderKey, name, icon, baseURL string, cfg config.ProviderConfig, deps Deps) (baseAdapter, error) {
	timeout := deps.Compare.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName(string(key)),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithCircuitBreaker(),
		httpclient.WithRetry(retryAttempts, retryInitialInterval),
	)
	if err != nil {
		return baseAdapter{}, err
	}
	return baseAdapter{
		key:     key,
		name:    name,
		icon:    icon,
		limiter: ratelimit.New(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window),
		client:  client,
		apiKey:  cfg.APIKey,
		deps:    deps,
	}, nil
}

func (b *baseAdapter) Key() domain.ProviderKey { return b.key }

func (b *baseAdapter) Name() string { return b.name }

func (b *baseAdapter) checkRateLimit() error { return b.limiter.Allow() }

// newQuote returns a quote skeleton carrying the adapter identity and
// conservative defaults; adapters overwrite what their upstream
// actually reports.
func (b *baseAdapter) newQuote() domain.Quote {
	return domain.Quote{
		Name:          b.name,
		Icon:          b.icon,
		Provider:      string(b.key),
		TotalCost:     defaultGasEstimateUSD,
		BridgeFee:     0,
		GasFee:        defaultGasEstimateUSD,
		EstimatedTime: "5-10 mins",
		Security:      "Verified",
		Liquidity:     "Medium",
		Route:         b.name + " Route",
		Protocol:      b.name,
	}
}

// tokenRoute resolves the token's deployments on both chains and the
// request amount in fixed-point units.
type tokenRoute struct {
	fromToken common.Address
	toToken   common.Address
	decimals  int
	units     string
}

func (b *baseAdapter) resolveRoute(req domain.CompareRequest) (tokenRoute, error) {
	token, ok := chainindex.TokenBySymbol(req.Token)
	if !ok {
		return tokenRoute{}, apperror.New(apperror.CodeUnsupportedToken,
			apperror.WithContext(fmt.Sprintf("%s: unknown token %s", b.name, req.Token)))
	}
	fromToken, ok := chainindex.TokenAddress(req.Token, req.FromChainID)
	if !ok {
		return tokenRoute{}, apperror.New(apperror.CodeUnsupportedRoute,
			apperror.WithContext(fmt.Sprintf("%s: no %s address on chain %d", b.name, req.Token, req.FromChainID)))
	}
	toToken, ok := chainindex.TokenAddress(req.Token, req.ToChainID)
	if !ok {
		return tokenRoute{}, apperror.New(apperror.CodeUnsupportedRoute,
			apperror.WithContext(fmt.Sprintf("%s: no %s address on chain %d", b.name, req.Token, req.ToChainID)))
	}
	return tokenRoute{
		fromToken: fromToken,
		toToken:   toToken,
		decimals:  token.Decimals,
		units:     unitconv.ToFixedPointUnits(req.Amount, token.Decimals),
	}, nil
}

// httpError converts a non-2xx upstream response into a typed error,
// keeping the first part of the body for diagnostics.
func (b *baseAdapter) httpError(resp *httpclient.Response) error {
	body := resp.String()
	if len(body) > 200 {
		body = body[:200]
	}
	return apperror.New(apperror.CodeProviderHTTPError,
		apperror.WithMessage(fmt.Sprintf("%s: HTTP %d", b.name, resp.StatusCode)),
		apperror.WithContext(body))
}

// transportError classifies a failed HTTP round trip.
func (b *baseAdapter) transportError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.New(apperror.CodeProviderTimeout,
			apperror.WithContext(b.name), apperror.WithCause(err))
	case circuitbreaker.IsOpen(err):
		return apperror.New(apperror.CodeCircuitOpen,
			apperror.WithContext(b.name), apperror.WithCause(err))
	default:
		return apperror.New(apperror.CodeProviderHTTPError,
			apperror.WithMessage(fmt.Sprintf("%s: network error", b.name)),
			apperror.WithCause(err))
	}
}

// malformed flags a response that decoded but misses required fields.
func (b *baseAdapter) malformed(detail string) error {
	return apperror.New(apperror.CodeMalformedResponse,
		apperror.WithContext(fmt.Sprintf("%s: %s", b.name, detail)))
}

// slippagePct parses the configured slippage as a percentage float,
// defaulting to 1.
func (b *baseAdapter) slippagePct() float64 {
	if v, err := strconv.ParseFloat(b.deps.Compare.DefaultSlippage, 64); err == nil && v > 0 {
		return v
	}
	return 1
}

// flexFloat decodes JSON numbers that upstreams emit either as numbers
// or as strings. Undecodable values fail soft to zero, matching how
// the normalization treats absent fees.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

func (f flexFloat) value() float64 { return float64(f) }

// roundUSD rounds to display cents.
func roundUSD(v float64) float64 {
	return math.Round(v*100) / 100
}

// minutesFrom converts a duration in seconds into the "N mins" label
// used across quotes, with a fallback for missing durations.
func minutesFrom(seconds float64, fallbackSeconds float64) string {
	if seconds <= 0 {
		seconds = fallbackSeconds
	}
	return fmt.Sprintf("%d mins", int(math.Ceil(seconds/60)))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
