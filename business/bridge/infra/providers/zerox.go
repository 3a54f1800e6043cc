package providers

import (
	"context"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/apperror"
	"github.com/quotemesh/bridgequote/internal/config"
)

// zeroXAdapter quotes the 0x swap API. 0x only serves same-chain swaps,
// so cross-chain requests are rejected up front.
type zeroXAdapter struct {
	baseAdapter
}

func newZeroX(cfg config.ProviderConfig, deps Deps) (app.BridgeProvider, error) {
	base, err := newBase(domain.ProviderZeroX, "0x", "🔷", "https://api.0x.org", cfg, deps)
	if err != nil {
		return nil, err
	}
	return &zeroXAdapter{base}, nil
}

type zeroXQuoteResponse struct {
	Price        string    `json:"price"`
	BuyAmount    string    `json:"buyAmount"`
	EstimatedGas flexFloat `json:"estimatedGas"`
	GasPrice     flexFloat `json:"gasPrice"`
	ProtocolFee  flexFloat `json:"protocolFee"`
	Sources      []struct {
		Name       string `json:"name"`
		Proportion string `json:"proportion"`
	} `json:"sources"`
}

func (a *zeroXAdapter) Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error) {
	if err := a.checkRateLimit(); err != nil {
		return nil, err
	}
	if req.FromChainID != req.ToChainID {
		return nil, apperror.New(apperror.CodeUnsupportedRoute,
			apperror.WithContext("0x: cross-chain not supported"))
	}
	route, err := a.resolveRoute(req)
	if err != nil {
		return nil, err
	}

	var out zeroXQuoteResponse
	resp, err := a.client.NewRequest().
		SetQueryParams(map[string]string{
			"sellToken":    route.fromToken.Hex(),
			"buyToken":     route.toToken.Hex(),
			"sellAmount":   route.units,
			"takerAddress": req.Sender,
		}).
		SetHeader("Accept", "application/json").
		SetHeader("0x-api-key", a.apiKey).
		SetResult(&out).
		Get(ctx, "/swap/v1/quote")
	if err != nil {
		return nil, a.transportError(err)
	}
	if resp.IsError() {
		return nil, a.httpError(resp)
	}
	if out.Price == "" {
		return nil, a.malformed("missing price")
	}

	gasUSD := out.EstimatedGas.value() * out.GasPrice.value() * 2000 / 1e18
	feeUSD := out.ProtocolFee.value() / 1e6

	q := a.newQuote()
	q.TotalCost = roundUSD(gasUSD + feeUSD)
	q.BridgeFee = roundUSD(feeUSD)
	q.GasFee = roundUSD(gasUSD)
	q.EstimatedTime = "1-2 mins"
	q.Route = "0x Protocol"
	q.Protocol = "0x"
	if out.BuyAmount != "" {
		output := out.BuyAmount
		q.OutputAmount = &output
	}
	sources := make([]string, 0, len(out.Sources))
	for _, s := range out.Sources {
		if s.Proportion != "" && s.Proportion != "0" {
			sources = append(sources, s.Name)
		}
	}
	q.Meta = map[string]any{
		"tool":         "0x",
		"price":        out.Price,
		"estimatedGas": out.EstimatedGas.value(),
		"sources":      sources,
	}
	return &q, nil
}
