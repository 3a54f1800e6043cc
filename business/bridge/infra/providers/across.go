package providers

import (
	"context"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/apperror"
	"github.com/quotemesh/bridgequote/internal/config"
)

// acrossAdapter quotes the Across suggested-fees endpoint. Across
// reports fees as percentages of the deposit, so the USD figures are
// derived from the request amount with decimal arithmetic.
type acrossAdapter struct {
	baseAdapter
}

func newAcross(cfg config.ProviderConfig, deps Deps) (app.BridgeProvider, error) {
	base, err := newBase(domain.ProviderAcross, "Across", "🌉", "https://app.across.to/api", cfg, deps)
	if err != nil {
		return nil, err
	}
	return &acrossAdapter{base}, nil
}

type acrossFee struct {
	Pct   flexFloat `json:"pct"`
	Total string    `json:"total"`
}

type acrossGasCost struct {
	USD flexFloat `json:"usd"`
}

type acrossFeesResponse struct {
	TotalRelayFee        *acrossFee     `json:"totalRelayFee"`
	CapitalFeePct        flexFloat      `json:"capitalFeePct"`
	LpFeePct             flexFloat      `json:"lpFeePct"`
	EstimatedGasCost     *acrossGasCost `json:"estimatedGasCost"`
	EstimatedFillTimeSec float64        `json:"estimatedFillTimeSec"`
}

func (a *acrossAdapter) Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error) {
	if err := a.checkRateLimit(); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.Sign() <= 0 {
		return nil, apperror.Validation(apperror.CodeInvalidInput, "Across: invalid amount "+req.Amount)
	}

	route, err := a.resolveRoute(req)
	if err != nil {
		return nil, err
	}

	var out acrossFeesResponse
	resp, err := a.client.NewRequest().
		SetQueryParams(map[string]string{
			"originChainId":      strconv.FormatInt(req.FromChainID, 10),
			"destinationChainId": strconv.FormatInt(req.ToChainID, 10),
			"token":              route.fromToken.Hex(),
			"amount":             route.units,
			"depositor":          req.Sender,
			"recipient":          req.Sender,
		}).
		SetHeader("Accept", "application/json").
		SetResult(&out).
		Get(ctx, "/suggested-fees")
	if err != nil {
		return nil, a.transportError(err)
	}
	if resp.IsError() {
		return nil, a.httpError(resp)
	}
	if out.TotalRelayFee == nil {
		return nil, a.malformed("missing totalRelayFee")
	}

	pctOfAmount := func(pct float64) float64 {
		fee := amount.Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100))
		return fee.InexactFloat64()
	}
	relayFeeUSD := pctOfAmount(out.TotalRelayFee.Pct.value())
	capitalFeeUSD := pctOfAmount(out.CapitalFeePct.value())
	lpFeeUSD := pctOfAmount(out.LpFeePct.value())

	var gasCostUSD float64
	if out.EstimatedGasCost != nil {
		gasCostUSD = out.EstimatedGasCost.USD.value()
	}
	bridgeFeeUSD := relayFeeUSD + capitalFeeUSD + lpFeeUSD

	q := a.newQuote()
	q.TotalCost = roundUSD(bridgeFeeUSD + gasCostUSD)
	q.BridgeFee = roundUSD(bridgeFeeUSD)
	q.GasFee = roundUSD(gasCostUSD)
	q.Security = "Optimistic Oracle"
	q.Liquidity = "High"
	q.Route = "Across Bridge"
	q.Protocol = "Across"
	if out.EstimatedFillTimeSec > 0 {
		q.EstimatedTime = minutesFrom(out.EstimatedFillTimeSec, 0)
	} else {
		q.EstimatedTime = "2-4 mins"
	}

	// Output is the deposit minus the relay fee, both in units.
	if out.TotalRelayFee.Total != "" {
		fromUnits, okFrom := new(big.Int).SetString(route.units, 10)
		feeUnits, okFee := new(big.Int).SetString(out.TotalRelayFee.Total, 10)
		if okFrom && okFee {
			output := new(big.Int).Sub(fromUnits, feeUnits).String()
			q.OutputAmount = &output
		}
	}

	q.Meta = map[string]any{
		"fromToken":     route.fromToken.Hex(),
		"toToken":       route.toToken.Hex(),
		"fromAmountUSD": roundUSD(amount.InexactFloat64()),
		"toAmountUSD":   roundUSD(amount.InexactFloat64() - bridgeFeeUSD),
		"fees": []map[string]any{
			{"name": "Relay Fee", "amount": roundUSD(relayFeeUSD)},
			{"name": "Capital Fee", "amount": roundUSD(capitalFeeUSD)},
			{"name": "LP Fee", "amount": roundUSD(lpFeeUSD)},
			{"name": "Gas Costs", "amount": roundUSD(gasCostUSD)},
		},
		"relayFeePct":   roundUSD(out.TotalRelayFee.Pct.value()),
		"capitalFeePct": roundUSD(out.CapitalFeePct.value()),
		"lpFeePct":      roundUSD(out.LpFeePct.value()),
	}
	return &q, nil
}
