package providers

import (
	"context"
	"math"
	"strconv"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/config"
)

// squidAdapter quotes the Squid router, which settles through Axelar.
type squidAdapter struct {
	baseAdapter
}

func newSquid(cfg config.ProviderConfig, deps Deps) (app.BridgeProvider, error) {
	base, err := newBase(domain.ProviderSquid, "Squid", "🦑", "https://api.0xsquid.com/v1", cfg, deps)
	if err != nil {
		return nil, err
	}
	return &squidAdapter{base}, nil
}

type squidRouteRequest struct {
	FromChain   string  `json:"fromChain"`
	ToChain     string  `json:"toChain"`
	FromToken   string  `json:"fromToken"`
	ToToken     string  `json:"toToken"`
	FromAmount  string  `json:"fromAmount"`
	FromAddress string  `json:"fromAddress"`
	ToAddress   string  `json:"toAddress"`
	Slippage    float64 `json:"slippage"`
	EnableBoost bool    `json:"enableBoost"`
}

type squidCost struct {
	Amount    flexFloat `json:"amount"`
	AmountUSD flexFloat `json:"amountUSD"`
}

type squidRouteResponse struct {
	Route *struct {
		Estimate struct {
			ToAmount               string      `json:"toAmount"`
			GasCosts               []squidCost `json:"gasCosts"`
			FeeCosts               []squidCost `json:"feeCosts"`
			EstimatedRouteDuration float64     `json:"estimatedRouteDuration"`
		} `json:"estimate"`
	} `json:"route"`
}

func (a *squidAdapter) Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error) {
	if err := a.checkRateLimit(); err != nil {
		return nil, err
	}
	route, err := a.resolveRoute(req)
	if err != nil {
		return nil, err
	}

	body := squidRouteRequest{
		FromChain:   strconv.FormatInt(req.FromChainID, 10),
		ToChain:     strconv.FormatInt(req.ToChainID, 10),
		FromToken:   route.fromToken.Hex(),
		ToToken:     route.toToken.Hex(),
		FromAmount:  route.units,
		FromAddress: req.Sender,
		ToAddress:   req.Sender,
		Slippage:    a.slippagePct(),
		EnableBoost: true,
	}

	var out squidRouteResponse
	resp, err := a.client.NewRequest().
		SetHeader("Accept", "application/json").
		SetHeader("x-integrator-id", a.deps.integrator()).
		SetBody(body).
		SetResult(&out).
		Post(ctx, "/route")
	if err != nil {
		return nil, a.transportError(err)
	}
	if resp.IsError() {
		return nil, a.httpError(resp)
	}
	if out.Route == nil {
		return nil, a.malformed("missing route")
	}

	est := out.Route.Estimate
	var gasCostUSD float64
	for _, c := range est.GasCosts {
		// Squid reports gas in USDC base units.
		gasCostUSD += c.Amount.value() / 1e6
	}
	var feeCostUSD float64
	if len(est.FeeCosts) > 0 {
		feeCostUSD = est.FeeCosts[0].AmountUSD.value()
	}

	q := a.newQuote()
	q.TotalCost = roundUSD(gasCostUSD + feeCostUSD)
	q.BridgeFee = roundUSD(feeCostUSD)
	q.GasFee = roundUSD(gasCostUSD)
	if est.EstimatedRouteDuration > 0 {
		q.EstimatedTime = strconv.Itoa(int(math.Ceil(est.EstimatedRouteDuration/60))) + " mins"
	}
	q.Route = "Squid Router"
	q.Protocol = "Axelar"
	if est.ToAmount != "" {
		output := est.ToAmount
		q.OutputAmount = &output
	}
	q.Meta = map[string]any{
		"tool":                   "squid",
		"estimatedRouteDuration": est.EstimatedRouteDuration,
	}
	return &q, nil
}
