package providers

import (
	"context"
	"strconv"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/chainindex"
	"github.com/quotemesh/bridgequote/internal/config"
)

// jumperAdapter quotes through li.quest the way the Jumper frontend
// does: simulation enabled, caller slippage honored, and the full fee
// breakdown surfaced in meta.
type jumperAdapter struct {
	baseAdapter
}

func newJumper(cfg config.ProviderConfig, deps Deps) (app.BridgeProvider, error) {
	base, err := newBase(domain.ProviderJumper, "Jumper", "🟪", "https://li.quest/v1", cfg, deps)
	if err != nil {
		return nil, err
	}
	return &jumperAdapter{base}, nil
}

func (a *jumperAdapter) Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error) {
	if err := a.checkRateLimit(); err != nil {
		return nil, err
	}
	route, err := a.resolveRoute(req)
	if err != nil {
		return nil, err
	}

	slippage := firstNonEmpty(req.Slippage, a.deps.Compare.DefaultSlippage, "0.01")
	r := a.client.NewRequest().
		SetQueryParams(map[string]string{
			"fromChain":      strconv.FormatInt(req.FromChainID, 10),
			"toChain":        strconv.FormatInt(req.ToChainID, 10),
			"fromToken":      route.fromToken.Hex(),
			"toToken":        route.toToken.Hex(),
			"fromAmount":     route.units,
			"fromAddress":    req.Sender,
			"slippage":       slippage,
			"integrator":     a.deps.integrator(),
			"skipSimulation": "false",
		}).
		SetHeader("Accept", "application/json")
	if a.apiKey != "" {
		r.SetHeader("x-lifi-api-key", a.apiKey)
	}

	var out liQuestQuote
	resp, err := r.SetResult(&out).Get(ctx, "/quote")
	if err != nil {
		return nil, a.transportError(err)
	}
	if resp.IsError() {
		return nil, a.httpError(resp)
	}
	if out.Estimate == nil {
		return nil, a.malformed("missing estimate")
	}

	est := out.Estimate
	var feeCostUSD float64
	for _, f := range est.FeeCosts {
		feeCostUSD += f.AmountUSD.value()
	}
	gasCostUSD := sumCostsUSD(est.GasCosts)

	q := a.newQuote()
	q.TotalCost = roundUSD(feeCostUSD + gasCostUSD)
	q.BridgeFee = roundUSD(feeCostUSD)
	q.GasFee = roundUSD(gasCostUSD)
	q.EstimatedTime = minutesFrom(est.ExecutionDuration, 300)
	q.Route = firstNonEmpty(out.ToolDetails.Name, "Best Route")
	q.Protocol = "LI.FI"
	tool := firstNonEmpty(out.ToolDetails.Key, est.Tool)
	if chainindex.KnownProtocol(tool) {
		info := chainindex.ProtocolByTool(tool)
		q.Security = info.Security
		q.Liquidity = info.Liquidity
	}
	if est.ToAmount != "" {
		amount := est.ToAmount
		q.OutputAmount = &amount
	}
	q.Meta = map[string]any{
		"tool":              est.Tool,
		"toolKey":           out.ToolDetails.Key,
		"toolName":          out.ToolDetails.Name,
		"toolLogoURI":       out.ToolDetails.LogoURI,
		"approvalAddress":   est.ApprovalAddress,
		"toAmountMin":       est.ToAmountMin,
		"fromAmount":        est.FromAmount,
		"executionDuration": est.ExecutionDuration,
		"fromAmountUSD":     est.FromAmountUSD.value(),
		"toAmountUSD":       est.ToAmountUSD.value(),
	}
	return &q, nil
}
