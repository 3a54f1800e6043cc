// Package app contains application services and port definitions for the bridge context.
package app

import (
	"context"

	"github.com/quotemesh/bridgequote/business/bridge/domain"
)

// BridgeProvider defines the interface for bridge quote providers.
type BridgeProvider interface {
	// Key returns the provider's registry key.
	Key() domain.ProviderKey

	// Name returns the provider's display name.
	Name() string

	// Quote retrieves a normalized quote for the given comparison
	// request. Implementations own their rate limiting and fallback
	// policy; a nil error always carries a non-nil quote.
	Quote(ctx context.Context, req domain.CompareRequest) (*domain.Quote, error)
}

// TierProvider pairs a provider with its fan-out priority.
type TierProvider struct {
	Priority int
	Provider BridgeProvider
}
