// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig                 `mapstructure:"app"`
	Server    ServerConfig              `mapstructure:"server"`
	Compare   CompareConfig             `mapstructure:"compare"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
	Telemetry TelemetryConfig           `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	ThrottleRPS     float64       `mapstructure:"throttle_rps"`
	ThrottleBurst   int           `mapstructure:"throttle_burst"`
}

// CompareConfig holds quote comparison settings.
type CompareConfig struct {
	DefaultSlippage  string        `mapstructure:"default_slippage"`
	QuoteFromAddress string        `mapstructure:"quote_from_address"`
	IntegratorName   string        `mapstructure:"integrator_name"`
	FeeReceiver      string        `mapstructure:"fee_receiver"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	StaggerStep      time.Duration `mapstructure:"stagger_step"`
}

// ReferralID returns the identifier used in outbound referral links.
func (c *CompareConfig) ReferralID() string {
	if c.FeeReceiver != "" {
		return c.FeeReceiver
	}
	if c.IntegratorName != "" {
		return c.IntegratorName
	}
	return "bridgeaggregator"
}

// RateLimitConfig holds a provider's fixed request budget.
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// ProviderConfig holds one bridge provider's settings.
type ProviderConfig struct {
	Enabled      bool            `mapstructure:"enabled"`
	Priority     int             `mapstructure:"priority"`
	RequiresAuth bool            `mapstructure:"requires_auth"`
	APIKey       string          `mapstructure:"api_key"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "BRIDGE_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "BRIDGE_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "BRIDGE_LOG_LEVEL", "LOG_LEVEL")

	// Server
	v.BindEnv("server.addr", "BRIDGE_SERVER_ADDR", "SERVER_ADDR")

	// Compare
	v.BindEnv("compare.quote_from_address", "BRIDGE_QUOTE_FROM_ADDRESS", "QUOTE_FROM_ADDRESS")
	v.BindEnv("compare.integrator_name", "BRIDGE_INTEGRATOR_NAME", "INTEGRATOR_NAME")
	v.BindEnv("compare.fee_receiver", "BRIDGE_FEE_RECEIVER", "FEE_RECEIVER_ADDRESS")

	// Provider API keys come from the environment, never the file.
	v.BindEnv("providers.zerox.api_key", "BRIDGE_ZEROX_API_KEY", "ZEROX_API_KEY")
	v.BindEnv("providers.oneinch.api_key", "BRIDGE_ONEINCH_API_KEY", "ONEINCH_API_KEY")
	v.BindEnv("providers.socket.api_key", "BRIDGE_SOCKET_API_KEY", "SOCKET_API_KEY")
	v.BindEnv("providers.squid.api_key", "BRIDGE_SQUID_API_KEY", "SQUID_API_KEY")
	v.BindEnv("providers.rango.api_key", "BRIDGE_RANGO_API_KEY", "RANGO_API_KEY")

	// Telemetry
	v.BindEnv("telemetry.enabled", "BRIDGE_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "BRIDGE_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.trace_provider", "BRIDGE_TRACE_PROVIDER", "TRACE_PROVIDER")
	v.BindEnv("telemetry.otlp_endpoint", "BRIDGE_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.otlp_headers", "BRIDGE_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "bridge-quote")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.throttle_rps", 50.0)
	v.SetDefault("server.throttle_burst", 100)

	// Compare defaults
	v.SetDefault("compare.default_slippage", "1")
	v.SetDefault("compare.request_timeout", "10s")
	v.SetDefault("compare.stagger_step", "500ms")

	// Provider defaults mirror the upstream rate budgets published by
	// each API. Priority orders the fan-out tiers.
	setProviderDefaults(v, "lifi", 1, false, 30, time.Minute)
	setProviderDefaults(v, "stargate", 2, false, 100, time.Minute)
	setProviderDefaults(v, "socket", 3, false, 50, time.Minute)
	setProviderDefaults(v, "squid", 4, false, 30, time.Minute)
	setProviderDefaults(v, "rango", 5, false, 60, time.Minute)
	setProviderDefaults(v, "xyfinance", 6, false, 30, time.Minute)
	setProviderDefaults(v, "rubic", 7, false, 10, time.Minute)
	setProviderDefaults(v, "openocean", 8, false, 30, time.Minute)
	setProviderDefaults(v, "zerox", 9, true, 100, time.Minute)
	setProviderDefaults(v, "oneinch", 10, true, 30, time.Second)
	setProviderDefaults(v, "across", 11, false, 30, time.Minute)
	setProviderDefaults(v, "jumper", 12, false, 30, time.Minute)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "bridge-quote")
	v.SetDefault("telemetry.trace_provider", "EMPTY_PROVIDER")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 9091)
}

func setProviderDefaults(v *viper.Viper, key string, priority int, auth bool, maxRequests int, window time.Duration) {
	prefix := "providers." + key
	v.SetDefault(prefix+".enabled", true)
	v.SetDefault(prefix+".priority", priority)
	v.SetDefault(prefix+".requires_auth", auth)
	v.SetDefault(prefix+".rate_limit.max_requests", maxRequests)
	v.SetDefault(prefix+".rate_limit.window", window.String())
}

// EnabledProviders returns the enabled provider keys sorted by
// ascending priority. Providers that require auth but have no API key
// are excluded.
func (c *Config) EnabledProviders() []string {
	keys := make([]string, 0, len(c.Providers))
	for key, pc := range c.Providers {
		if !pc.Enabled {
			continue
		}
		if pc.RequiresAuth && pc.APIKey == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := c.Providers[keys[i]].Priority, c.Providers[keys[j]].Priority
		if pi != pj {
			return pi < pj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Compare.RequestTimeout <= 0 {
		return fmt.Errorf("compare.request_timeout must be positive")
	}
	if c.Compare.StaggerStep < 0 {
		return fmt.Errorf("compare.stagger_step cannot be negative")
	}
	if c.Compare.QuoteFromAddress != "" && !common.IsHexAddress(c.Compare.QuoteFromAddress) {
		return fmt.Errorf("invalid compare.quote_from_address: %s", c.Compare.QuoteFromAddress)
	}
	for key, pc := range c.Providers {
		if pc.RateLimit.MaxRequests <= 0 {
			return fmt.Errorf("providers.%s.rate_limit.max_requests must be positive", key)
		}
		if pc.RateLimit.Window <= 0 {
			return fmt.Errorf("providers.%s.rate_limit.window must be positive", key)
		}
	}
	return nil
}
