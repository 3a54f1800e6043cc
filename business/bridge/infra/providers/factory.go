package providers

import (
	"context"
	"sort"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/apperror"
	"github.com/quotemesh/bridgequote/internal/config"
)

// BuilderFunc constructs one provider adapter from its configuration.
type BuilderFunc func(cfg config.ProviderConfig, deps Deps) (app.BridgeProvider, error)

// builders is the compile-time adapter registry. A config key with no
// entry here is a wiring mistake, not a runtime condition.
var builders = map[domain.ProviderKey]BuilderFunc{
	domain.ProviderLiFi:      newLiFi,
	domain.ProviderStargate:  newStargate,
	domain.ProviderSocket:    newSocket,
	domain.ProviderSquid:     newSquid,
	domain.ProviderRango:     newRango,
	domain.ProviderXYFinance: newXYFinance,
	domain.ProviderRubic:     newRubic,
	domain.ProviderOpenOcean: newOpenOcean,
	domain.ProviderZeroX:     newZeroX,
	domain.ProviderOneInch:   newOneInch,
	domain.ProviderAcross:    newAcross,
	domain.ProviderJumper:    newJumper,
}

// SupportedProviders returns the registered adapter keys.
func SupportedProviders() []domain.ProviderKey {
	keys := make([]domain.ProviderKey, 0, len(builders))
	for k := range builders {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// BuildAll constructs adapters for every enabled provider, ordered by
// ascending priority. Providers that require auth but have no API key
// configured are skipped rather than failed. An enabled provider with
// no registered builder is a configuration error.
func BuildAll(cfgs map[string]config.ProviderConfig, deps Deps) ([]app.TierProvider, error) {
	out := make([]app.TierProvider, 0, len(cfgs))
	for key, pc := range cfgs {
		if !pc.Enabled {
			continue
		}
		if pc.RequiresAuth && pc.APIKey == "" {
			deps.Logger.Info(context.Background(), "skipping provider: API key required",
				"provider", key)
			continue
		}
		build, ok := builders[domain.ProviderKey(key)]
		if !ok {
			return nil, apperror.New(apperror.CodeConfigurationError,
				apperror.WithContext("no adapter registered for provider "+key))
		}
		p, err := build(pc, deps)
		if err != nil {
			return nil, err
		}
		out = append(out, app.TierProvider{Priority: pc.Priority, Provider: p})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}
