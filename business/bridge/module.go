// Package bridge implements the bridge comparison bounded context:
// provider adapters, the fan-out service and the HTTP surface.
package bridge

import (
	"context"
	"net/http"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	bridgedi "github.com/quotemesh/bridgequote/business/bridge/di"
	"github.com/quotemesh/bridgequote/business/bridge/infra/providers"
	"github.com/quotemesh/bridgequote/business/bridge/infra/rest"
	"github.com/quotemesh/bridgequote/internal/chainindex"
	"github.com/quotemesh/bridgequote/internal/config"
	"github.com/quotemesh/bridgequote/internal/di"
	"github.com/quotemesh/bridgequote/internal/logger"
	"github.com/quotemesh/bridgequote/internal/monolith"
)

// Module wires the bridge context into the application.
type Module struct {
	server *http.Server
}

// RegisterServices registers the bridge services with the DI container.
// The provider token holds a source that builds fresh adapter instances
// for each comparison, so no adapter state crosses requests.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, bridgedi.Providers, func(sr di.ServiceRegistry) app.ProviderSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return func() ([]app.TierProvider, error) {
			return providers.BuildAll(cfg.Providers, providers.Deps{
				Logger:  log,
				Compare: cfg.Compare,
			})
		}
	})

	di.RegisterToken(c, bridgedi.CompareService, func(sr di.ServiceRegistry) *app.CompareService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		source := di.GetToken(sr, bridgedi.Providers)
		referralID := cfg.Compare.ReferralID()
		return app.NewCompareService(source,
			func(provider string) string {
				return chainindex.ReferralURL(provider, referralID)
			},
			log,
			app.CompareOptions{
				DefaultSender:   cfg.Compare.QuoteFromAddress,
				DefaultSlippage: cfg.Compare.DefaultSlippage,
				CallTimeout:     cfg.Compare.RequestTimeout,
				Schedule:        app.DefaultStagger(cfg.Compare.StaggerStep),
			})
	})

	return nil
}

// Startup builds the HTTP server and starts serving in the background.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()

	service := di.GetToken(mono.Services(), bridgedi.CompareService)
	handler := rest.NewHandler(service, cfg, log)
	router := rest.NewRouter(handler, cfg.Server, log)
	m.server = rest.NewServer(router, cfg.Server)

	// Build the adapter set once up front to surface configuration
	// errors at startup instead of on the first request.
	source := di.GetToken(mono.Services(), bridgedi.Providers)
	tiers, err := source()
	if err != nil {
		return err
	}
	log.Info(ctx, "bridge module starting",
		"addr", cfg.Server.Addr,
		"providers", len(tiers))

	go func() {
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "http server stopped", "error", err.Error())
		}
	}()
	return nil
}

// Shutdown drains in-flight requests before stopping the server.
func (m *Module) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
