package providers

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/apperror"
	"github.com/quotemesh/bridgequote/internal/chainindex"
	"github.com/quotemesh/bridgequote/internal/config"
)

// Public demo key from Rango's docs, used when no key is configured.
const rangoDemoKey = "c6381a79-2817-4602-83bf-6a641a409e32"

// rangoAdapter quotes the Rango Exchange routing API. Rango addresses
// chains by symbolic blockchain names rather than chain IDs.
type rangoAdapter struct {
	baseAdapter
}

func newRango(cfg config.ProviderConfig, deps Deps) (app.BridgeProvider, error) {
	base, err := newBase(domain.ProviderRango, "Rango", "🦘", "https://api.rango.exchange", cfg, deps)
	if err != nil {
		return nil, err
	}
	return &rangoAdapter{base}, nil
}

var rangoBlockchains = map[int64]string{
	chainindex.Ethereum:  "ETH",
	chainindex.Optimism:  "OPTIMISM",
	chainindex.BSC:       "BSC",
	chainindex.Polygon:   "POLYGON",
	chainindex.Fantom:    "FANTOM",
	chainindex.Base:      "BASE",
	chainindex.Arbitrum:  "ARBITRUM",
	chainindex.Avalanche: "AVAX_CCHAIN",
}

type rangoAsset struct {
	Blockchain string `json:"blockchain"`
	Symbol     string `json:"symbol"`
	Address    string `json:"address"`
}

type rangoRouteRequest struct {
	From         rangoAsset `json:"from"`
	To           rangoAsset `json:"to"`
	Amount       string     `json:"amount"`
	Slippage     string     `json:"slippage"`
	AffiliateRef string     `json:"affiliateRef"`
}

type rangoRouteResponse struct {
	Result *struct {
		OutputAmount string `json:"outputAmount"`
		Fee          struct {
			TotalFee   flexFloat `json:"totalFee"`
			NetworkFee flexFloat `json:"networkFee"`
		} `json:"fee"`
		Swappers               []string `json:"swappers"`
		EstimatedTimeInSeconds float64  `json:"estimatedTimeInSeconds"`
	} `json:"result"`
}

func (a *rangoAdapter) Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error) {
	if err := a.checkRateLimit(); err != nil {
		return nil, err
	}

	fromBlockchain, fromOK := rangoBlockchains[req.FromChainID]
	toBlockchain, toOK := rangoBlockchains[req.ToChainID]
	if !fromOK || !toOK {
		return nil, apperror.New(apperror.CodeUnsupportedRoute,
			apperror.WithContext(fmt.Sprintf("Rango: chain pair %d->%d not supported", req.FromChainID, req.ToChainID)))
	}

	route, err := a.resolveRoute(req)
	if err != nil {
		return nil, err
	}

	body := rangoRouteRequest{
		From:         rangoAsset{Blockchain: fromBlockchain, Symbol: req.Token, Address: route.fromToken.Hex()},
		To:           rangoAsset{Blockchain: toBlockchain, Symbol: req.Token, Address: route.toToken.Hex()},
		Amount:       route.units,
		Slippage:     a.deps.Compare.DefaultSlippage,
		AffiliateRef: a.deps.integrator(),
	}

	var out rangoRouteResponse
	resp, err := a.client.NewRequest().
		SetHeader("Accept", "application/json").
		SetHeader("API-KEY", firstNonEmpty(a.apiKey, rangoDemoKey)).
		SetBody(body).
		SetResult(&out).
		Post(ctx, "/routing/best")
	if err != nil {
		return nil, a.transportError(err)
	}
	if resp.IsError() {
		return nil, a.httpError(resp)
	}
	if out.Result == nil {
		return nil, a.malformed("no route in result")
	}

	result := out.Result
	feeUSD := result.Fee.TotalFee.value()
	gasUSD := result.Fee.NetworkFee.value()
	seconds := result.EstimatedTimeInSeconds
	if seconds == 0 {
		seconds = 300
	}

	q := a.newQuote()
	q.TotalCost = roundUSD(feeUSD + gasUSD)
	q.BridgeFee = roundUSD(feeUSD)
	q.GasFee = roundUSD(gasUSD)
	q.EstimatedTime = strconv.Itoa(int(math.Ceil(seconds/60))) + " mins"
	q.Route = "Rango Route"
	q.Protocol = "Rango"
	if result.OutputAmount != "" {
		output := result.OutputAmount
		q.OutputAmount = &output
	}
	q.Meta = map[string]any{
		"tool":                   "rango",
		"swappers":               result.Swappers,
		"estimatedTimeInSeconds": result.EstimatedTimeInSeconds,
	}
	return &q, nil
}
