package database

import (
	"context"

	"github.com/carescout/discovery/internal/infrastructure/clients/postgres"
	apperrors "github.com/carescout/discovery/pkg/errors"
)

// schemaStatements create the discovery stores. All stores share one
// physical database; each adapter serializes its own writes.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS response_cache (
		cache_key  TEXT NOT NULL,
		cache_type TEXT NOT NULL,
		payload    BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		hit_count  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (cache_key, cache_type)
	)`,
	`CREATE TABLE IF NOT EXISTS processed_places (
		place_id     TEXT PRIMARY KEY,
		region       TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL DEFAULT '',
		processed_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cost_events (
		id             TEXT PRIMARY KEY,
		request_class  TEXT NOT NULL,
		unit_cost      DOUBLE PRECISION NOT NULL,
		cached         BOOLEAN NOT NULL DEFAULT FALSE,
		correlation_id TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cost_events_created_at ON cost_events (created_at)`,
	`CREATE TABLE IF NOT EXISTS daily_cost_rollups (
		day           DATE NOT NULL,
		request_class TEXT NOT NULL,
		request_count INTEGER NOT NULL DEFAULT 0,
		total_cost    DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (day, request_class)
	)`,
	`CREATE TABLE IF NOT EXISTS search_history (
		id                TEXT PRIMARY KEY,
		fingerprint       TEXT NOT NULL,
		region            TEXT NOT NULL,
		category          TEXT NOT NULL,
		method            TEXT NOT NULL,
		radius_meters     INTEGER NOT NULL DEFAULT 0,
		keywords          TEXT NOT NULL DEFAULT '',
		results_count     INTEGER NOT NULL DEFAULT 0,
		new_items_found   INTEGER NOT NULL DEFAULT 0,
		duplicates_found  INTEGER NOT NULL DEFAULT 0,
		api_calls_used    INTEGER NOT NULL DEFAULT 0,
		execution_time_ms INTEGER NOT NULL DEFAULT 0,
		coverage_area     TEXT NOT NULL DEFAULT '',
		searched_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_history_fingerprint ON search_history (fingerprint, searched_at DESC)`,
}

// EnsureSchema creates the discovery tables when they do not exist yet
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	for _, stmt := range schemaStatements {
		if _, err := client.DB().ExecContext(ctx, stmt); err != nil {
			return apperrors.NewInternalError("failed to ensure discovery schema", err)
		}
	}
	return nil
}
