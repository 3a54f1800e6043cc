// Package domain holds the bridge comparison domain model: quotes,
// ranking, and the compare request contract.
package domain

// ProviderKey identifies a bridge provider in config, factory table and
// wire responses.
type ProviderKey string

const (
	ProviderLiFi      ProviderKey = "lifi"
	ProviderStargate  ProviderKey = "stargate"
	ProviderSocket    ProviderKey = "socket"
	ProviderSquid     ProviderKey = "squid"
	ProviderRango     ProviderKey = "rango"
	ProviderXYFinance ProviderKey = "xyfinance"
	ProviderRubic     ProviderKey = "rubic"
	ProviderOpenOcean ProviderKey = "openocean"
	ProviderZeroX     ProviderKey = "zerox"
	ProviderOneInch   ProviderKey = "oneinch"
	ProviderAcross    ProviderKey = "across"
	ProviderJumper    ProviderKey = "jumper"
)

// Quote is the normalized result of one provider's estimate. All
// monetary figures are USD. Unavailable marks a quote-shaped
// placeholder a provider returns when it cannot serve the route.
type Quote struct {
	Name               string         `json:"name"`
	Icon               string         `json:"icon"`
	Provider           string         `json:"provider"`
	TotalCost          float64        `json:"totalCost"`
	BridgeFee          float64        `json:"bridgeFee"`
	GasFee             float64        `json:"gasFee"`
	EstimatedTime      string         `json:"estimatedTime"`
	Security           string         `json:"security"`
	Liquidity          string         `json:"liquidity"`
	Route              string         `json:"route"`
	OutputAmount       *string        `json:"outputAmount"`
	Protocol           string         `json:"protocol"`
	IsEstimated        bool           `json:"isEstimated"`
	Unavailable        bool           `json:"unavailable,omitempty"`
	UnavailableReason  string         `json:"unavailableReason,omitempty"`
	UnavailableDetails string         `json:"unavailableDetails,omitempty"`
	Meta               map[string]any `json:"meta,omitempty"`
}

// RankedQuote is a Quote annotated with its place in the comparison.
// Position, Savings and URL are nil for unavailable quotes.
type RankedQuote struct {
	Quote
	Position *int     `json:"position"`
	IsBest   bool     `json:"isBest"`
	Savings  *float64 `json:"savings"`
	URL      *string  `json:"url"`
}

// ProviderFailure records one provider that produced no quote.
type ProviderFailure struct {
	Provider string `json:"provider"`
	Error    string `json:"error"`
}

// Summary aggregates price statistics over the ranked quotes.
type Summary struct {
	BestPrice            *float64          `json:"bestPrice"`
	WorstPrice           *float64          `json:"worstPrice"`
	AveragePrice         *float64          `json:"averagePrice"`
	ProvidersQueried     int               `json:"providersQueried"`
	ProvidersResponded   int               `json:"providersResponded"`
	ProvidersUnavailable int               `json:"providersUnavailable"`
	Failures             []ProviderFailure `json:"failures,omitempty"`
}
