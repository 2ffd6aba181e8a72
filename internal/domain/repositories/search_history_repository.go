package repositories

import (
	"context"
	"time"

	"github.com/carescout/discovery/internal/domain/entities"
)

// SearchHistoryRepository defines the append-only search fingerprint store.
type SearchHistoryRepository interface {
	// Insert appends a history record; history is never upserted
	Insert(ctx context.Context, record *entities.SearchHistoryRecord) error

	// LatestByFingerprint returns the newest record for a fingerprint,
	// or a not found error when none exists
	LatestByFingerprint(ctx context.Context, fingerprint string) (*entities.SearchHistoryRecord, error)

	// FreshFingerprints returns the set of fingerprints searched at or after since
	FreshFingerprints(ctx context.Context, since time.Time) (map[string]struct{}, error)

	// DeleteOlderThan removes records older than the cutoff and returns the count
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
