package providers

import (
	"context"
	"fmt"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/apperror"
	"github.com/quotemesh/bridgequote/internal/chainindex"
	"github.com/quotemesh/bridgequote/internal/config"
)

// stargateAdapter quotes the Stargate pool-transfer API. Stargate's
// endpoint is flaky, so any HTTP or transport failure degrades to a
// conservative estimated quote instead of dropping the provider from
// the comparison.
type stargateAdapter struct {
	baseAdapter
}

func newStargate(cfg config.ProviderConfig, deps Deps) (app.BridgeProvider, error) {
	base, err := newBase(domain.ProviderStargate, "Stargate", "⭐", "https://api.stargate.finance/v1", cfg, deps)
	if err != nil {
		return nil, err
	}
	return &stargateAdapter{base}, nil
}

// LayerZero endpoint IDs for the chains Stargate serves.
var layerZeroChainIDs = map[int64]int{
	chainindex.Ethereum:  101,
	chainindex.BSC:       102,
	chainindex.Avalanche: 106,
	chainindex.Polygon:   109,
	chainindex.Arbitrum:  110,
	chainindex.Optimism:  111,
	chainindex.Fantom:    112,
	chainindex.Base:      184,
}

// Stargate pool IDs per token.
var stargatePoolIDs = map[string]int{
	"USDC": 1,
	"USDT": 2,
	"DAI":  3,
	"WETH": 13,
	"ETH":  13,
}

type stargateQuoteRequest struct {
	SrcChainID   int    `json:"srcChainId"`
	DstChainID   int    `json:"dstChainId"`
	SrcPoolID    int    `json:"srcPoolId"`
	DstPoolID    int    `json:"dstPoolId"`
	Amount       string `json:"amount"`
	AmountOutMin string `json:"amountOutMin"`
	Wallet       string `json:"wallet"`
	Slippage     int    `json:"slippage"`
}

type stargateQuoteResponse struct {
	Fee            flexFloat `json:"fee"`
	GasEstimate    flexFloat `json:"gasEstimate"`
	ExpectedOutput string    `json:"expectedOutput"`
}

// estimatedQuote is the degraded answer when the API is unreachable.
func (a *stargateAdapter) estimatedQuote() *domain.Quote {
	q := a.newQuote()
	q.TotalCost = 8
	q.BridgeFee = 3
	q.GasFee = 5
	q.EstimatedTime = "1-3 mins"
	q.Security = "LayerZero"
	q.Liquidity = "High"
	q.Route = "Stargate Bridge"
	q.Protocol = "LayerZero"
	q.IsEstimated = true
	return &q
}

func (a *stargateAdapter) Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error) {
	if err := a.checkRateLimit(); err != nil {
		return nil, err
	}

	srcChainID, srcOK := layerZeroChainIDs[req.FromChainID]
	dstChainID, dstOK := layerZeroChainIDs[req.ToChainID]
	if !srcOK || !dstOK {
		return nil, apperror.New(apperror.CodeUnsupportedRoute,
			apperror.WithContext(fmt.Sprintf("Stargate: chain pair %d->%d not supported", req.FromChainID, req.ToChainID)))
	}

	route, err := a.resolveRoute(req)
	if err != nil {
		return nil, err
	}

	poolID, ok := stargatePoolIDs[req.Token]
	if !ok {
		poolID = 1
	}

	body := stargateQuoteRequest{
		SrcChainID:   srcChainID,
		DstChainID:   dstChainID,
		SrcPoolID:    poolID,
		DstPoolID:    poolID,
		Amount:       route.units,
		AmountOutMin: "0",
		Wallet:       req.Sender,
		Slippage:     int(a.slippagePct() * 100),
	}

	var out stargateQuoteResponse
	resp, err := a.client.NewRequest().
		SetHeader("Accept", "application/json").
		SetBody(body).
		SetResult(&out).
		Post(ctx, "/quote")
	if err != nil || resp.IsError() {
		return a.estimatedQuote(), nil
	}

	fee := out.Fee.value()
	if fee == 0 {
		fee = 3
	}
	gasEstimate := out.GasEstimate.value()
	if gasEstimate == 0 {
		gasEstimate = 5
	}

	q := a.newQuote()
	q.TotalCost = fee + gasEstimate
	q.BridgeFee = fee
	q.GasFee = gasEstimate
	q.EstimatedTime = "1-3 mins"
	q.Security = "LayerZero"
	q.Liquidity = "High"
	q.Route = "Stargate Bridge"
	q.Protocol = "LayerZero"
	if out.ExpectedOutput != "" {
		output := out.ExpectedOutput
		q.OutputAmount = &output
	}
	return &q, nil
}
