// Package main is the entry point for the bridge quote aggregation
// service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/quotemesh/bridgequote/business/bridge"
	bridgedi "github.com/quotemesh/bridgequote/business/bridge/di"
	"github.com/quotemesh/bridgequote/internal/apm"
	"github.com/quotemesh/bridgequote/internal/config"
	"github.com/quotemesh/bridgequote/internal/di"
	"github.com/quotemesh/bridgequote/internal/health"
	"github.com/quotemesh/bridgequote/internal/logger"
	"github.com/quotemesh/bridgequote/internal/metrics"
	"github.com/quotemesh/bridgequote/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("bridged %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	log.Info(ctx, "starting bridge quote service",
		"version", version,
		"environment", cfg.App.Environment,
	)

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}
		if cfg.Telemetry.OTLPHeaders != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_HEADERS", cfg.Telemetry.OTLPHeaders)
		}

		traceProvider = apm.NewTraceProvider(log,
			apm.WithProvider(apm.Provider(cfg.Telemetry.TraceProvider), log))
		log.Info(ctx, "tracing initialized", "provider", cfg.Telemetry.TraceProvider)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthServer := health.NewServer(cfg.Telemetry.HealthPort, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.Telemetry.HealthPort)
	}
	defer healthServer.Stop(ctx)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}

	bridgeModule := &bridge.Module{}
	modules := []monolith.Module{bridgeModule}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	healthServer.RegisterCheck("providers", func(ctx context.Context) (bool, string) {
		source := di.GetToken(mono.Services(), bridgedi.Providers)
		tiers, err := source()
		if err != nil {
			return false, err.Error()
		}
		if len(tiers) == 0 {
			return false, "no providers enabled"
		}
		return true, fmt.Sprintf("%d providers active", len(tiers))
	})

	log.Info(ctx, "all modules started", "addr", cfg.Server.Addr)

	<-ctx.Done()

	log.Info(ctx, "shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := bridgeModule.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "error stopping http server", "error", err)
	}
	return nil
}
