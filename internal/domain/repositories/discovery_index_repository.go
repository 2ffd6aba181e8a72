package repositories

import (
	"context"

	"github.com/carescout/discovery/internal/domain/entities"
)

// DiscoveryIndexRepository indexes discovered providers for downstream lookup.
// Indexing is best effort; the orchestrator logs failures and continues.
type DiscoveryIndexRepository interface {
	// Index upserts a discovered place into the index
	Index(ctx context.Context, region, category string, place *entities.PlaceStub) error

	// Delete removes a place from the index
	Delete(ctx context.Context, placeID string) error
}
