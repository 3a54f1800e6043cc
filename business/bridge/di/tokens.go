// Package di contains dependency injection tokens for the bridge context.
package di

import (
	stddi "github.com/quotemesh/bridgequote/internal/di"

	"github.com/quotemesh/bridgequote/business/bridge/app"
)

// Tokens for the bridge module's services.
var (
	Providers      = stddi.NewToken[app.ProviderSource]("bridge.Providers")
	CompareService = stddi.NewToken[*app.CompareService]("bridge.CompareService")
)
