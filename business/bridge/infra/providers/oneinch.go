package providers

import (
	"context"
	"strconv"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/apperror"
	"github.com/quotemesh/bridgequote/internal/config"
)

// oneInchAdapter quotes the 1inch developer API. Same-chain swaps go
// through the classic aggregation endpoint; cross-chain requests use
// Fusion+. An API key is mandatory for both.
type oneInchAdapter struct {
	baseAdapter
}

func newOneInch(cfg config.ProviderConfig, deps Deps) (app.BridgeProvider, error) {
	base, err := newBase(domain.ProviderOneInch, "1inch", "🦄", "https://api.1inch.dev", cfg, deps)
	if err != nil {
		return nil, err
	}
	return &oneInchAdapter{base}, nil
}

type oneInchQuoteResponse struct {
	ToAmount     string    `json:"toAmount"`
	DstAmount    string    `json:"dstAmount"`
	EstimatedGas flexFloat `json:"estimatedGas"`
	GasPrice     flexFloat `json:"gasPrice"`
	ProtocolFee  flexFloat `json:"protocolFee"`
}

func (a *oneInchAdapter) Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error) {
	if err := a.checkRateLimit(); err != nil {
		return nil, err
	}
	if a.apiKey == "" {
		return nil, apperror.New(apperror.CodeProviderAuth,
			apperror.WithContext("1inch: API key required"))
	}
	route, err := a.resolveRoute(req)
	if err != nil {
		return nil, err
	}

	crossChain := req.FromChainID != req.ToChainID
	path := "/swap/v5.2/" + strconv.FormatInt(req.FromChainID, 10) + "/quote"
	if crossChain {
		path = "/fusion/quoter/v1.0/quote"
	}

	var out oneInchQuoteResponse
	resp, err := a.client.NewRequest().
		SetQueryParams(map[string]string{
			"src":      route.fromToken.Hex(),
			"dst":      route.toToken.Hex(),
			"amount":   route.units,
			"from":     req.Sender,
			"slippage": strconv.FormatFloat(a.slippagePct()*100, 'f', -1, 64),
		}).
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Bearer "+a.apiKey).
		SetResult(&out).
		Get(ctx, path)
	if err != nil {
		return nil, a.transportError(err)
	}
	if resp.IsError() {
		return nil, a.httpError(resp)
	}
	outputAmount := firstNonEmpty(out.ToAmount, out.DstAmount)
	if outputAmount == "" {
		return nil, a.malformed("missing output amount")
	}

	// Gas in gas units at the quoted wei price, priced at a flat ETH
	// reference rate.
	gasUSD := out.EstimatedGas.value() * out.GasPrice.value() * 2000 / 1e18
	feeUSD := out.ProtocolFee.value() / 1e6

	q := a.newQuote()
	q.TotalCost = roundUSD(gasUSD + feeUSD)
	q.BridgeFee = roundUSD(feeUSD)
	q.GasFee = roundUSD(gasUSD)
	q.Protocol = "1inch"
	if crossChain {
		q.EstimatedTime = "3-5 mins"
		q.Route = "1inch Fusion+"
	} else {
		q.EstimatedTime = "1-2 mins"
		q.Route = "1inch Aggregator"
	}
	q.OutputAmount = &outputAmount
	return &q, nil
}
