package repositories

import (
	"context"

	"github.com/carescout/discovery/internal/domain/entities"
)

// CacheRepository defines the persistent response cache.
//
// Get has a three-way contract: a live entry returns its payload and bumps
// the hit counter; an expired entry is deleted and reported as not found;
// a missing entry is reported as not found. A payload whose expiry has
// passed is never returned.
type CacheRepository interface {
	// Get retrieves a live payload by (key, type)
	Get(ctx context.Context, key, cacheType string) ([]byte, error)

	// Set overwrites the entry for (key, type), resetting the hit counter.
	// TTL is in fractional days to support sub-day lifetimes.
	Set(ctx context.Context, key string, payload []byte, cacheType string, ttlDays float64) error

	// Delete removes an entry
	Delete(ctx context.Context, key, cacheType string) error

	// CleanupExpired deletes all expired rows and returns the count removed
	CleanupExpired(ctx context.Context) (int64, error)

	// Stats reports cache occupancy
	Stats(ctx context.Context) (*entities.CacheStats, error)

	// IsProcessed reports whether a place marker exists newer than the threshold
	IsProcessed(ctx context.Context, placeID string, daysThreshold int) (bool, error)

	// MarkProcessed upserts the processed marker for a place
	MarkProcessed(ctx context.Context, marker *entities.ProcessedPlace) error
}
