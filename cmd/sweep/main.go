package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carescout/discovery/internal/adapters/database"
	"github.com/carescout/discovery/internal/infrastructure/clients/postgres"
	"github.com/carescout/discovery/internal/infrastructure/observability"
	"github.com/carescout/discovery/pkg/config"
)

// Maintenance sweep: deletes expired cache rows and, optionally, search
// history older than a retention period. Intended to run from cron.
func main() {
	var historyRetentionDays = flag.Int("history-retention-days", 0, "purge search history older than this many days (0 keeps everything)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger("discovery-sweep", os.Getenv("APP_ENV"))
	logger := observability.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	cacheRepo := database.NewCacheAdapter(pgClient)
	removed, err := cacheRepo.CleanupExpired(ctx)
	if err != nil {
		log.Fatalf("Cache sweep failed: %v", err)
	}
	logger.Info().Int64("removed", removed).Msg("expired cache entries removed")

	if *historyRetentionDays > 0 {
		historyRepo := database.NewSearchHistoryAdapter(sqlx.NewDb(pgClient.DB(), "postgres"))
		cutoff := time.Now().AddDate(0, 0, -*historyRetentionDays)
		purged, err := historyRepo.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			log.Fatalf("History purge failed: %v", err)
		}
		logger.Info().Int64("removed", purged).Time("cutoff", cutoff).Msg("old search history purged")
	}
}
