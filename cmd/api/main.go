package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carescout/discovery/internal/adapters/cache"
	"github.com/carescout/discovery/internal/adapters/database"
	"github.com/carescout/discovery/internal/adapters/providers/billing"
	"github.com/carescout/discovery/internal/adapters/providers/places"
	"github.com/carescout/discovery/internal/adapters/search"
	"github.com/carescout/discovery/internal/api/handlers"
	"github.com/carescout/discovery/internal/api/middleware"
	"github.com/carescout/discovery/internal/api/routes"
	"github.com/carescout/discovery/internal/application/services"
	domainproviders "github.com/carescout/discovery/internal/domain/providers"
	"github.com/carescout/discovery/internal/domain/repositories"
	"github.com/carescout/discovery/internal/infrastructure/clients/postgres"
	"github.com/carescout/discovery/internal/infrastructure/clients/redis"
	"github.com/carescout/discovery/internal/infrastructure/clients/typesense"
	"github.com/carescout/discovery/internal/infrastructure/observability"
	"github.com/carescout/discovery/pkg/config"
	"github.com/carescout/discovery/pkg/normalize"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger("discovery-api", os.Getenv("APP_ENV"))
	logger := observability.GetLogger()

	if err := normalize.Validate(); err != nil {
		log.Fatalf("Invalid alias tables: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Redis is optional; without it provider-level and HTTP caching are off
	var cacheProvider domainproviders.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, continuing without provider cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Typesense is optional; without it discovered providers are not indexed
	var indexRepo repositories.DiscoveryIndexRepository
	if cfg.Typesense.Enabled {
		typesenseClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			logger.Warn().Err(err).Msg("typesense unavailable, continuing without index")
		} else if err := typesenseClient.InitSchema(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to init typesense schema")
		} else {
			indexRepo = search.NewTypesenseAdapter(typesenseClient)
		}
	}

	cacheRepo := database.NewCacheAdapter(pgClient)
	ledgerRepo := database.NewCostLedgerAdapter(pgClient)
	historyRepo := database.NewSearchHistoryAdapter(sqlx.NewDb(pgClient.DB(), "postgres"))

	var placesProvider domainproviders.PlacesProvider
	if cfg.Places.Provider == "mock" || cfg.Places.APIKey == "" {
		logger.Warn().Msg("using mock places provider")
		placesProvider = places.NewMockPlacesProvider()
	} else {
		placesProvider = places.NewGooglePlacesProvider(cfg.Places.APIKey, cacheProvider, cfg.Places.Timeout, cfg.Discovery.DetailsCacheDays)
	}

	costSources := []domainproviders.CostSource{}
	if cfg.Budget.BillingAPIURL != "" {
		costSources = append(costSources, billing.NewHTTPSource("billing", cfg.Budget.BillingAPIURL, nil))
	}
	if cfg.Budget.MonitoringAPIURL != "" {
		costSources = append(costSources, billing.NewHTTPSource("monitoring", cfg.Budget.MonitoringAPIURL, nil))
	}
	costSources = append(costSources, billing.NewLedgerSource(ledgerRepo))
	costChain := billing.NewChain(cfg.Budget.SourceStaleAfter, costSources...)

	planner := services.NewCoveragePlanner(services.DefaultRegions(), cfg.Discovery.GridSizeMeters, cfg.Discovery.WardCatchmentKm)
	dedupService := services.NewSearchDedupService(historyRepo, services.DefaultRegions(), cfg.Discovery.FreshnessWindow)
	budgetService := services.NewBudgetGuardService(ledgerRepo, costChain, &cfg.Budget, metrics)
	discoveryService := services.NewDiscoveryService(planner, dedupService, budgetService, cacheRepo, placesProvider, indexRepo, metrics, &cfg.Discovery)

	discoveryHandler := handlers.NewDiscoveryHandler(discoveryService, dedupService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	cacheHandler := handlers.NewCacheHandler(cacheRepo)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	router := routes.NewRouter(discoveryHandler, budgetHandler, cacheHandler, cacheMiddleware, metrics)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
