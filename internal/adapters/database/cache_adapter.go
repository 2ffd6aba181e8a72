package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/domain/repositories"
	"github.com/carescout/discovery/internal/infrastructure/clients/postgres"
	apperrors "github.com/carescout/discovery/pkg/errors"
)

const (
	cacheTable     = "response_cache"
	processedTable = "processed_places"
)

// CacheAdapter implements the CacheRepository interface on the shared
// Postgres database. Writes are serialized with a per-store mutex.
type CacheAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	mu     sync.Mutex
	now    func() time.Time
}

// NewCacheAdapter creates a new cache adapter
func NewCacheAdapter(client *postgres.Client) repositories.CacheRepository {
	return &CacheAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		now:    time.Now,
	}
}

// Get retrieves a live payload by (key, type). Expired rows are deleted on
// read and reported as not found.
func (a *CacheAdapter) Get(ctx context.Context, key, cacheType string) ([]byte, error) {
	query, args, err := a.db.Select("payload", "expires_at").
		From(cacheTable).
		Where(goqu.Ex{"cache_key": key, "cache_type": cacheType}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build cache query", err)
	}

	entry := entities.CacheEntry{Key: key, Type: cacheType}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&entry.Payload, &entry.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("cache entry %s/%s not found", cacheType, key))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read cache entry", err)
	}

	if !entry.ExpiresAt.After(a.now()) {
		if err := a.Delete(ctx, key, cacheType); err != nil {
			return nil, err
		}
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("cache entry %s/%s expired", cacheType, key))
	}

	update, args, err := a.db.Update(cacheTable).
		Set(goqu.Record{"hit_count": goqu.L("hit_count + 1")}).
		Where(goqu.Ex{"cache_key": key, "cache_type": cacheType}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build hit count update", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, update, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to update cache hit count", err)
	}

	return entry.Payload, nil
}

// Set overwrites the entry for (key, type). The hit counter resets and
// expires_at becomes now + ttl; ttl is in fractional days.
func (a *CacheAdapter) Set(ctx context.Context, key string, payload []byte, cacheType string, ttlDays float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	expiresAt := now.Add(time.Duration(ttlDays * 24 * float64(time.Hour)))

	record := goqu.Record{
		"cache_key":  key,
		"cache_type": cacheType,
		"payload":    payload,
		"created_at": now,
		"expires_at": expiresAt,
		"hit_count":  0,
	}

	query, args, err := a.db.Insert(cacheTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("cache_key, cache_type", goqu.Record{
			"payload":    payload,
			"created_at": now,
			"expires_at": expiresAt,
			"hit_count":  0,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build cache upsert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to set cache entry", err)
	}
	return nil
}

// Delete removes an entry
func (a *CacheAdapter) Delete(ctx context.Context, key, cacheType string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	query, args, err := a.db.Delete(cacheTable).
		Where(goqu.Ex{"cache_key": key, "cache_type": cacheType}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build cache delete", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete cache entry", err)
	}
	return nil
}

// CleanupExpired deletes all expired rows and returns the count removed
func (a *CacheAdapter) CleanupExpired(ctx context.Context) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	query, args, err := a.db.Delete(cacheTable).
		Where(goqu.C("expires_at").Lt(a.now())).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build cache sweep", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to sweep expired cache entries", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to get rows affected", err)
	}
	return removed, nil
}

// Stats reports cache occupancy
func (a *CacheAdapter) Stats(ctx context.Context) (*entities.CacheStats, error) {
	query, args, err := a.db.Select("cache_type", goqu.COUNT("*").As("entries")).
		From(cacheTable).
		GroupBy("cache_type").
		Order(goqu.I("cache_type").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build cache stats query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read cache stats", err)
	}
	defer rows.Close()

	stats := &entities.CacheStats{EntriesByType: map[string]int{}}
	for rows.Next() {
		var cacheType string
		var entries int
		if err := rows.Scan(&cacheType, &entries); err != nil {
			return nil, apperrors.NewInternalError("failed to scan cache stats", err)
		}
		stats.EntriesByType[cacheType] = entries
		stats.TotalEntries += entries
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read cache stats", err)
	}

	expiredQuery, args, err := a.db.Select(goqu.COUNT("*")).
		From(cacheTable).
		Where(goqu.C("expires_at").Lt(a.now())).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build expired count query", err)
	}
	if err := a.client.DB().QueryRowContext(ctx, expiredQuery, args...).Scan(&stats.ExpiredEntries); err != nil {
		return nil, apperrors.NewInternalError("failed to count expired cache entries", err)
	}

	return stats, nil
}

// IsProcessed reports whether a place marker exists newer than the threshold
func (a *CacheAdapter) IsProcessed(ctx context.Context, placeID string, daysThreshold int) (bool, error) {
	query, args, err := a.db.Select("processed_at").
		From(processedTable).
		Where(goqu.Ex{"place_id": placeID}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build processed query", err)
	}

	var processedAt time.Time
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&processedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to read processed marker", err)
	}

	cutoff := a.now().AddDate(0, 0, -daysThreshold)
	return processedAt.After(cutoff), nil
}

// MarkProcessed upserts the processed marker for a place
func (a *CacheAdapter) MarkProcessed(ctx context.Context, marker *entities.ProcessedPlace) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if marker.ProcessedAt.IsZero() {
		marker.ProcessedAt = a.now()
	}

	query, args, err := a.db.Insert(processedTable).
		Rows(goqu.Record{
			"place_id":     marker.PlaceID,
			"region":       marker.Region,
			"category":     marker.Category,
			"processed_at": marker.ProcessedAt,
		}).
		OnConflict(goqu.DoUpdate("place_id", goqu.Record{
			"region":       marker.Region,
			"category":     marker.Category,
			"processed_at": marker.ProcessedAt,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build processed upsert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to mark place processed", err)
	}
	return nil
}
