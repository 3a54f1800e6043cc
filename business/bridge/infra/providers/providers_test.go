package providers

import (
	"io"
	"time"

	"github.com/quotemesh/bridgequote/internal/config"
	"github.com/quotemesh/bridgequote/internal/logger"
)

func testDeps() Deps {
	return Deps{
		Logger: logger.New(io.Discard, logger.LevelError, "test", nil),
		Compare: config.CompareConfig{
			DefaultSlippage: "1",
			RequestTimeout:  2 * time.Second,
			IntegratorName:  "TestIntegrator",
		},
	}
}

func testProviderConfig() config.ProviderConfig {
	return config.ProviderConfig{
		Enabled: true,
		RateLimit: config.RateLimitConfig{
			MaxRequests: 100,
			Window:      time.Minute,
		},
	}
}
