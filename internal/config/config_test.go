package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "1", cfg.Compare.DefaultSlippage)
	assert.Equal(t, 10*time.Second, cfg.Compare.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Compare.StaggerStep)

	require.Contains(t, cfg.Providers, "lifi")
	assert.Equal(t, 1, cfg.Providers["lifi"].Priority)
	assert.Equal(t, 30, cfg.Providers["lifi"].RateLimit.MaxRequests)
	assert.Equal(t, time.Minute, cfg.Providers["lifi"].RateLimit.Window)

	// 1inch has a per-second budget, everything else per-minute.
	assert.Equal(t, time.Second, cfg.Providers["oneinch"].RateLimit.Window)
	assert.True(t, cfg.Providers["zerox"].RequiresAuth)
}

func TestEnabledProvidersSortedAndFiltered(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	keys := cfg.EnabledProviders()
	require.NotEmpty(t, keys)
	assert.Equal(t, "lifi", keys[0])

	// Auth providers without keys never appear.
	for _, key := range keys {
		pc := cfg.Providers[key]
		if pc.RequiresAuth {
			assert.NotEmpty(t, pc.APIKey)
		}
	}

	for i := 1; i < len(keys); i++ {
		assert.LessOrEqual(t, cfg.Providers[keys[i-1]].Priority, cfg.Providers[keys[i]].Priority)
	}
}

func TestReferralIDFallbackChain(t *testing.T) {
	c := CompareConfig{}
	assert.Equal(t, "bridgeaggregator", c.ReferralID())

	c.IntegratorName = "MyApp"
	assert.Equal(t, "MyApp", c.ReferralID())

	c.FeeReceiver = "0xabc"
	assert.Equal(t, "0xabc", c.ReferralID())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Server.Addr = ""
	assert.Error(t, cfg.Validate())

	cfg, _ = Load("")
	cfg.Compare.QuoteFromAddress = "not-an-address"
	assert.Error(t, cfg.Validate())

	cfg, _ = Load("")
	pc := cfg.Providers["lifi"]
	pc.RateLimit.MaxRequests = 0
	cfg.Providers["lifi"] = pc
	assert.Error(t, cfg.Validate())
}
