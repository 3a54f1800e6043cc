package providers

import (
	"context"
	"math"
	"strconv"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/chainindex"
	"github.com/quotemesh/bridgequote/internal/config"
)

// lifiAdapter quotes through the li.quest aggregation API.
type lifiAdapter struct {
	baseAdapter
}

func newLiFi(cfg config.ProviderConfig, deps Deps) (app.BridgeProvider, error) {
	base, err := newBase(domain.ProviderLiFi, "LI.FI", "🔷", "https://li.quest/v1", cfg, deps)
	if err != nil {
		return nil, err
	}
	return &lifiAdapter{base}, nil
}

// Wire types shared with the Jumper adapter, which fronts the same API.
type liQuestQuote struct {
	Estimate    *liQuestEstimate `json:"estimate"`
	ToolDetails liQuestTool      `json:"toolDetails"`
}

type liQuestTool struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	LogoURI string `json:"logoURI"`
}

type liQuestEstimate struct {
	Tool              string           `json:"tool"`
	FromAmount        string           `json:"fromAmount"`
	ToAmount          string           `json:"toAmount"`
	ToAmountMin       string           `json:"toAmountMin"`
	ApprovalAddress   string           `json:"approvalAddress"`
	FromAmountUSD     flexFloat        `json:"fromAmountUSD"`
	ToAmountUSD       flexFloat        `json:"toAmountUSD"`
	ExecutionDuration float64          `json:"executionDuration"`
	GasCosts          []liQuestCost    `json:"gasCosts"`
	NetworkFees       []liQuestCost    `json:"networkFees"`
	FeeCosts          []liQuestFeeCost `json:"feeCosts"`
}

type liQuestCost struct {
	AmountUSD flexFloat `json:"amountUSD"`
}

type liQuestFeeCost struct {
	Name      string    `json:"name"`
	AmountUSD flexFloat `json:"amountUSD"`
	Included  bool      `json:"included"`
}

func sumCostsUSD(costs []liQuestCost) float64 {
	var s float64
	for _, c := range costs {
		s += c.AmountUSD.value()
	}
	return s
}

func (a *lifiAdapter) Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error) {
	if err := a.checkRateLimit(); err != nil {
		return nil, err
	}
	route, err := a.resolveRoute(req)
	if err != nil {
		return nil, err
	}

	r := a.client.NewRequest().
		SetQueryParams(map[string]string{
			"fromChain":   strconv.FormatInt(req.FromChainID, 10),
			"toChain":     strconv.FormatInt(req.ToChainID, 10),
			"fromToken":   route.fromToken.Hex(),
			"toToken":     route.toToken.Hex(),
			"fromAmount":  route.units,
			"fromAddress": req.Sender,
			"slippage":    a.deps.Compare.DefaultSlippage,
			"integrator":  a.deps.integrator(),
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
	gasCostUSD := sumCostsUSD(est.GasCosts)
	networkFeeUSD := sumCostsUSD(est.NetworkFees)
	var feeCostUSD float64
	for _, f := range est.FeeCosts {
		if !f.Included {
			feeCostUSD += f.AmountUSD.value()
		}
	}
	summedCostsUSD := gasCostUSD + networkFeeUSD + feeCostUSD

	// Sanity check against LI.FI's own USD in/out valuation: the
	// itemized costs occasionally miss a leg, so take the larger.
	impliedCostUSD := math.Max(0, est.FromAmountUSD.value()-est.ToAmountUSD.value())
	totalCostUSD := math.Max(summedCostsUSD, impliedCostUSD)

	tool := firstNonEmpty(out.ToolDetails.Key, est.Tool)

	q := a.newQuote()
	q.TotalCost = totalCostUSD
	q.BridgeFee = feeCostUSD
	q.GasFee = gasCostUSD + networkFeeUSD
	q.EstimatedTime = minutesFrom(est.ExecutionDuration, 300)
	q.Security = "Audited"
	q.Liquidity = "High"
	if chainindex.KnownProtocol(tool) {
		info := chainindex.ProtocolByTool(tool)
		q.Security = info.Security
		q.Liquidity = info.Liquidity
		q.Protocol = info.Name
	}
	q.Route = firstNonEmpty(out.ToolDetails.Name, "Best Route")
	if est.ToAmount != "" {
		amount := est.ToAmount
		q.OutputAmount = &amount
	}
	q.Meta = map[string]any{
		"fromToken":      route.fromToken.Hex(),
		"toToken":        route.toToken.Hex(),
		"fromUsd":        est.FromAmountUSD.value(),
		"toUsd":          est.ToAmountUSD.value(),
		"gasCostUSD":     gasCostUSD,
		"networkFeeUSD":  networkFeeUSD,
		"feeCostUSD":     feeCostUSD,
		"summedCostsUSD": summedCostsUSD,
		"impliedCostUSD": impliedCostUSD,
		"tool":           firstNonEmpty(tool, out.ToolDetails.Name),
	}
	return &q, nil
}
