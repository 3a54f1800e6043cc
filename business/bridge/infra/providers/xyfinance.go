package providers

import (
	"context"
	"math"
	"strconv"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/config"
)

// xyFinanceAdapter quotes the XY Finance open API.
type xyFinanceAdapter struct {
	baseAdapter
}

func newXYFinance(cfg config.ProviderConfig, deps Deps) (app.BridgeProvider, error) {
	base, err := newBase(domain.ProviderXYFinance, "XY Finance", "⚡", "https://open-api.xy.finance/v1", cfg, deps)
	if err != nil {
		return nil, err
	}
	return &xyFinanceAdapter{base}, nil
}

type xyFee struct {
	Amount flexFloat `json:"amount"`
}

type xyRoute struct {
	DstQuoteTokenAmount string  `json:"dstQuoteTokenAmount"`
	BridgeFee           *xyFee  `json:"bridgeFee"`
	GasFee              *xyFee  `json:"gasFee"`
	EstimatedTime       float64 `json:"estimatedTime"`
}

type xyQuoteResponse struct {
	Success bool      `json:"success"`
	Routes  []xyRoute `json:"routes"`
}

func (a *xyFinanceAdapter) Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error) {
	if err := a.checkRateLimit(); err != nil {
		return nil, err
	}
	route, err := a.resolveRoute(req)
	if err != nil {
		return nil, err
	}

	var out xyQuoteResponse
	resp, err := a.client.NewRequest().
		SetQueryParams(map[string]string{
			"srcChainId":           strconv.FormatInt(req.FromChainID, 10),
			"srcQuoteTokenAddress": route.fromToken.Hex(),
			"srcQuoteTokenAmount":  route.units,
			"dstChainId":           strconv.FormatInt(req.ToChainID, 10),
			"dstQuoteTokenAddress": route.toToken.Hex(),
			"slippage":             a.deps.Compare.DefaultSlippage,
			"receiver":             req.Sender,
		}).
		SetHeader("Accept", "application/json").
		SetResult(&out).
		Get(ctx, "/quote")
	if err != nil {
		return nil, a.transportError(err)
	}
	if resp.IsError() {
		return nil, a.httpError(resp)
	}
	if !out.Success || len(out.Routes) == 0 {
		return nil, a.malformed("no route available")
	}

	best := out.Routes[0]
	var feeUSD float64
	if best.BridgeFee != nil {
		// Fee amount arrives in USDC base units.
		feeUSD = best.BridgeFee.Amount.value() / 1e6
	}
	var gasUSD float64
	if best.GasFee != nil {
		// Gas arrives in wei; price it at a flat ETH reference rate.
		gasUSD = best.GasFee.Amount.value() / 1e18 * 2000
	}
	seconds := best.EstimatedTime
	if seconds == 0 {
		seconds = 180
	}

	q := a.newQuote()
	q.TotalCost = roundUSD(feeUSD + gasUSD)
	q.BridgeFee = roundUSD(feeUSD)
	q.GasFee = roundUSD(gasUSD)
	q.EstimatedTime = strconv.Itoa(int(math.Ceil(seconds/60))) + " mins"
	q.Route = "XY Finance"
	q.Protocol = "Y Pool"
	if best.DstQuoteTokenAmount != "" {
		output := best.DstQuoteTokenAmount
		q.OutputAmount = &output
	}
	return &q, nil
}
