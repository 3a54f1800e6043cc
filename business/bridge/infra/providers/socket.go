package providers

import (
	"context"
	"strconv"
	"strings"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/config"
)

// Public demo key Socket hands out for evaluation traffic; replaced by
// the configured key when one is set.
const socketDemoKey = "72a5b4b0-e727-48be-8aa1-5da9d62fe635"

// socketAdapter quotes the Socket (Bungee) meta-aggregator. Like
// Stargate, failures degrade to an estimated quote.
type socketAdapter struct {
	baseAdapter
}

func newSocket(cfg config.ProviderConfig, deps Deps) (app.BridgeProvider, error) {
	base, err := newBase(domain.ProviderSocket, "Socket", "🔌", "https://api.socket.tech/v2", cfg, deps)
	if err != nil {
		return nil, err
	}
	return &socketAdapter{base}, nil
}

type socketBridgeFee struct {
	Amount flexFloat `json:"amount"`
}

type socketRoute struct {
	ToAmount          string           `json:"toAmount"`
	TotalGasFeesInUsd flexFloat        `json:"totalGasFeesInUsd"`
	BridgeFee         *socketBridgeFee `json:"bridgeFee"`
	ServiceTime       float64          `json:"serviceTime"`
	UsedBridgeNames   []string         `json:"usedBridgeNames"`
}

type socketQuoteResponse struct {
	Result *struct {
		Routes []socketRoute `json:"routes"`
	} `json:"result"`
}

func (a *socketAdapter) estimatedQuote() *domain.Quote {
	q := a.newQuote()
	q.TotalCost = 10
	q.BridgeFee = 4
	q.GasFee = 6
	q.EstimatedTime = "5-10 mins"
	q.Security = "Multi-Bridge"
	q.Liquidity = "Aggregated"
	q.Route = "Socket Route"
	q.Protocol = "Socket/Bungee"
	q.IsEstimated = true
	return &q
}

func (a *socketAdapter) Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error) {
	if err := a.checkRateLimit(); err != nil {
		return nil, err
	}
	route, err := a.resolveRoute(req)
	if err != nil {
		return nil, err
	}

	apiKey := firstNonEmpty(a.apiKey, socketDemoKey)
	var out socketQuoteResponse
	resp, err := a.client.NewRequest().
		SetQueryParams(map[string]string{
			"fromChainId":          strconv.FormatInt(req.FromChainID, 10),
			"toChainId":            strconv.FormatInt(req.ToChainID, 10),
			"fromTokenAddress":     route.fromToken.Hex(),
			"toTokenAddress":       route.toToken.Hex(),
			"fromAmount":           route.units,
			"userAddress":          req.Sender,
			"uniqueRoutesPerBridge": "true",
			"sort":                 "output",
			"singleTxOnly":         "true",
		}).
		SetHeader("Accept", "application/json").
		SetHeader("API-KEY", apiKey).
		SetResult(&out).
		Get(ctx, "/quote")
	if err != nil || resp.IsError() || out.Result == nil || len(out.Result.Routes) == 0 {
		return a.estimatedQuote(), nil
	}

	best := out.Result.Routes[0]
	gasFeesUSD := best.TotalGasFeesInUsd.value()
	if gasFeesUSD == 0 {
		gasFeesUSD = defaultGasEstimateUSD
	}
	var bridgeFee float64
	if best.BridgeFee != nil {
		// Socket reports the fee in USDC base units.
		bridgeFee = best.BridgeFee.Amount.value() / 1e6
	}

	q := a.newQuote()
	q.TotalCost = gasFeesUSD + bridgeFee
	q.BridgeFee = bridgeFee
	q.GasFee = gasFeesUSD
	if best.ServiceTime > 0 {
		q.EstimatedTime = minutesFrom(best.ServiceTime, 0)
	}
	q.Security = "Multi-Bridge"
	q.Liquidity = "Aggregated"
	q.Protocol = "Socket/Bungee"
	if len(best.UsedBridgeNames) > 0 {
		q.Route = strings.Join(best.UsedBridgeNames, " + ")
	} else {
		q.Route = "Socket Route"
	}
	if best.ToAmount != "" {
		output := best.ToAmount
		q.OutputAmount = &output
	}
	return &q, nil
}
