package providers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/chainindex"
	"github.com/quotemesh/bridgequote/internal/config"
)

// rubicAdapter quotes the Rubic multi-bridge aggregator. Rubic's API is
// unstable enough that this adapter never returns an error: every
// failure mode maps to an unavailable quote explaining what happened,
// so the provider still shows up in the comparison.
type rubicAdapter struct {
	baseAdapter
}

func newRubic(cfg config.ProviderConfig, deps Deps) (app.BridgeProvider, error) {
	base, err := newBase(domain.ProviderRubic, "Rubic", "💎", "https://api-v2.rubic.exchange/api", cfg, deps)
	if err != nil {
		return nil, err
	}
	return &rubicAdapter{base}, nil
}

var rubicBlockchains = map[int64]string{
	chainindex.Ethereum:  "ETH",
	chainindex.Optimism:  "OPTIMISM",
	chainindex.BSC:       "BSC",
	chainindex.Polygon:   "POLYGON",
	chainindex.Fantom:    "FANTOM",
	chainindex.Base:      "BASE",
	chainindex.Arbitrum:  "ARBITRUM",
	chainindex.Avalanche: "AVALANCHE",
}

type rubicRouteRequest struct {
	SrcTokenAddress    string `json:"srcTokenAddress"`
	SrcTokenAmount     string `json:"srcTokenAmount"`
	SrcTokenBlockchain string `json:"srcTokenBlockchain"`
	DstTokenAddress    string `json:"dstTokenAddress"`
	DstTokenBlockchain string `json:"dstTokenBlockchain"`
	FromAddress        string `json:"fromAddress"`
}

type rubicTrade struct {
	Type        string    `json:"type"`
	PriceImpact flexFloat `json:"priceImpact"`
	GasPrice    flexFloat `json:"gasPrice"`
	GasCost     *struct {
		USD flexFloat `json:"usd"`
	} `json:"gasCost"`
	EstimatedTime float64 `json:"estimatedTime"`
	To            *struct {
		TokenAmount string `json:"tokenAmount"`
	} `json:"to"`
}

type rubicRoutesResponse struct {
	BestTrade *rubicTrade `json:"bestTrade"`
}

// unavailableQuote builds the quote-shaped placeholder returned when
// Rubic cannot serve the route.
func (a *rubicAdapter) unavailableQuote(route, reason, details string) *domain.Quote {
	q := a.newQuote()
	q.EstimatedTime = "N/A"
	q.Security = "Multi-Bridge"
	q.Liquidity = "Aggregated"
	q.Route = route
	q.Unavailable = true
	q.UnavailableReason = reason
	q.UnavailableDetails = details
	return &q
}

func (a *rubicAdapter) serviceError() *domain.Quote {
	return a.unavailableQuote("Temporarily Unavailable", "Service error",
		"Rubic encountered an unexpected error. Please try again later.")
}

func (a *rubicAdapter) blockchainName(chainID int64) string {
	if name, ok := rubicBlockchains[chainID]; ok {
		return name
	}
	a.deps.Logger.Warn(context.Background(), "rubic: unmapped chain, defaulting to ETH",
		"chainId", chainID)
	return "ETH"
}

func (a *rubicAdapter) Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error) {
	if err := a.checkRateLimit(); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return a.serviceError(), nil
	}
	route, err := a.resolveRoute(req)
	if err != nil {
		return a.serviceError(), nil
	}

	body := rubicRouteRequest{
		SrcTokenAddress:    route.fromToken.Hex(),
		SrcTokenAmount:     route.units,
		SrcTokenBlockchain: a.blockchainName(req.FromChainID),
		DstTokenAddress:    route.toToken.Hex(),
		DstTokenBlockchain: a.blockchainName(req.ToChainID),
		FromAddress:        req.Sender,
	}

	var out rubicRoutesResponse
	resp, err := a.client.NewRequest().
		SetHeader("Accept", "application/json").
		SetBody(body).
		SetResult(&out).
		Post(ctx, "/routes/")
	if err != nil {
		return a.serviceError(), nil
	}
	if resp.IsError() {
		switch {
		case resp.StatusCode >= http.StatusInternalServerError:
			return a.unavailableQuote("API Unavailable", "API experiencing issues",
				"Rubic's API is currently experiencing internal errors. Please try again in a few minutes."), nil
		case resp.StatusCode == http.StatusNotFound || strings.Contains(resp.String(), "No route"):
			return a.unavailableQuote("No Route Found", "No route available",
				"Rubic couldn't find a route for this token pair. Try different tokens or chains."), nil
		default:
			return a.serviceError(), nil
		}
	}
	if out.BestTrade == nil {
		return a.serviceError(), nil
	}

	trade := out.BestTrade
	priceImpactPct := trade.PriceImpact.value()
	priceImpactUSD := priceImpactPct / 100 * amount.InexactFloat64()
	gasUSD := trade.GasPrice.value()
	if gasUSD <= 0 && trade.GasCost != nil {
		gasUSD = trade.GasCost.USD.value()
	}
	if gasUSD <= 0 {
		gasUSD = defaultGasEstimateUSD
	}
	seconds := trade.EstimatedTime
	if seconds == 0 {
		seconds = 600
	}

	q := a.newQuote()
	q.TotalCost = roundUSD(priceImpactUSD + gasUSD)
	q.BridgeFee = roundUSD(priceImpactUSD)
	q.GasFee = roundUSD(gasUSD)
	q.EstimatedTime = strconv.Itoa(int(math.Ceil(seconds/60))) + " mins"
	q.Security = "Multi-Bridge"
	q.Liquidity = "Aggregated"
	q.Route = firstNonEmpty(trade.Type, "Rubic Route")
	if trade.To != nil && trade.To.TokenAmount != "" {
		output := trade.To.TokenAmount
		q.OutputAmount = &output
	}
	q.Meta = map[string]any{
		"tradeType":      trade.Type,
		"priceImpactPct": priceImpactPct,
		"fees": []map[string]any{
			{"name": "Price Impact", "amountUSD": roundUSD(priceImpactUSD)},
			{"name": "Gas", "amountUSD": roundUSD(gasUSD)},
		},
	}
	return &q, nil
}
