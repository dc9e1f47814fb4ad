package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/expense-dashboard-bfa/internal/config"
	"github.com/boddenberg/expense-dashboard-bfa/internal/handler"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/cache"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/client"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/observability"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/resilience"
	"github.com/boddenberg/expense-dashboard-bfa/internal/port"
	"github.com/boddenberg/expense-dashboard-bfa/internal/service"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()
	registry := config.NewRegistry(config.DefaultDatasets())

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.Validate(registry); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("csv_cache_ttl", cfg.CSVCacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.String("default_dataset", cfg.DefaultDataset),
		zap.Int("page_size", cfg.PageSize),
		zap.Bool("remote_proxy", cfg.ProxyBaseURL != ""),
	)
	if missing := registry.MissingSources(); len(missing) > 0 {
		logger.Warn("csv sources not configured", zap.Strings("variables", missing))
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "expense-dashboard-bfa")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	csvCache := cache.New[string](cfg.CSVCacheTTL)
	defer csvCache.Close()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	onBreakerChange := func(name string, from, to gobreaker.State) {
		logger.Warn("circuit breaker state changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	upstream := client.NewUpstreamClient(httpClient, resilience.NewCircuitBreaker("csv-upstream", onBreakerChange), resilienceCfg)

	// --- Services ---
	proxy := service.NewCSVProxy(
		upstream,
		registry,
		csvCache,
		resilience.NewBulkhead(cfg.MaxConcurrency),
		metrics,
		logger,
	)

	var source port.CSVSource = proxy
	if cfg.ProxyBaseURL != "" {
		logger.Info("reading csv sources from remote proxy", zap.String("proxy_base_url", cfg.ProxyBaseURL))
		source = client.NewCSVClient(httpClient, cfg.ProxyBaseURL, resilience.NewCircuitBreaker("csv-proxy", onBreakerChange), resilienceCfg)
	}

	dashboard := service.NewDashboardService(source, registry, cfg.DefaultDataset, cfg.PageSize, metrics, logger)

	// --- Initial load ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout)
		defer cancel()

		if _, err := dashboard.Reload(ctx, cfg.DefaultDataset); err != nil {
			logger.Warn("initial dashboard load failed", zap.String("dataset", cfg.DefaultDataset), zap.Error(err))
		}
		if cfg.WarmOnStart {
			// the reload above already refreshed the default region
			var others []string
			for _, region := range registry.Regions() {
				if region != cfg.DefaultDataset {
					others = append(others, region)
				}
			}
			if err := proxy.Warm(ctx, others); err != nil {
				logger.Warn("cache warm-up incomplete", zap.Error(err))
			}
		}
	}()

	// --- Router ---
	router := handler.NewRouter(proxy, dashboard, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2*cfg.HTTPTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
