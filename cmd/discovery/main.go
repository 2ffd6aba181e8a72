package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"

	"github.com/carescout/discovery/internal/adapters/cache"
	"github.com/carescout/discovery/internal/adapters/database"
	"github.com/carescout/discovery/internal/adapters/providers/billing"
	"github.com/carescout/discovery/internal/adapters/providers/places"
	"github.com/carescout/discovery/internal/adapters/search"
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

// Batch discovery runner: probes one or more regions for one or more
// categories, then prints the run summaries. SIGINT stops between probes
// and keeps everything collected so far.
func main() {
	var (
		regionsFlag    = flag.String("regions", "tokyo", "comma-separated regions to probe")
		categoriesFlag = flag.String("categories", "cardiology", "comma-separated provider categories")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger("discovery-runner", os.Getenv("APP_ENV"))
	logger := observability.GetLogger()

	if err := normalize.Validate(); err != nil {
		log.Fatalf("Invalid alias tables: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Warn().Msg("signal received, stopping after current probe")
		cancel()
	}()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	var cacheProvider domainproviders.CacheProvider
	if redisClient, err := redis.NewClient(&cfg.Redis); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, continuing without provider cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var indexRepo repositories.DiscoveryIndexRepository
	if cfg.Typesense.Enabled {
		if typesenseClient, err := typesense.NewClient(&cfg.Typesense); err != nil {
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
	budgetService := services.NewBudgetGuardService(ledgerRepo, costChain, &cfg.Budget, nil)
	discoveryService := services.NewDiscoveryService(planner, dedupService, budgetService, cacheRepo, placesProvider, indexRepo, nil, &cfg.Discovery)

	regions := splitList(*regionsFlag)
	categories := splitList(*categoriesFlag)

	for _, region := range regions {
		for _, category := range categories {
			summary, err := discoveryService.RunRegion(ctx, region, category)
			if err != nil {
				logger.Error().Err(err).Str("region", region).Str("category", category).
					Msg("discovery run failed")
				continue
			}

			logger.Info().
				Str("region", summary.Region).
				Str("category", category).
				Str("status", string(summary.Status)).
				Int("probes_planned", summary.ProbesPlanned).
				Int("probes_run", summary.ProbesRun).
				Int("skipped_deduped", summary.ProbesSkippedDeduped).
				Int("cache_hits", summary.CacheHits).
				Int("new_items", summary.NewItems).
				Float64("cost_spent_usd", summary.CostSpentUSD).
				Str("stop_reason", summary.StopReason).
				Msg("discovery run summary")
		}
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
