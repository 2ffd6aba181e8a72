package search

import (
	"context"
	"fmt"
	"time"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/domain/repositories"
	tsclient "github.com/carescout/discovery/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter indexes discovered providers into Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
	now    func() time.Time
}

var _ repositories.DiscoveryIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client, now: time.Now}
}

// Index upserts a discovered place into the providers collection
func (a *TypesenseAdapter) Index(ctx context.Context, region, category string, place *entities.PlaceStub) error {
	document := map[string]interface{}{
		"id":            place.PlaceID,
		"name":          place.Name,
		"region":        region,
		"category":      category,
		"location":      []float64{place.Location.Latitude, place.Location.Longitude},
		"address":       place.Address,
		"rating":        place.Rating,
		"discovered_at": a.now().Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.ProvidersCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index discovered provider: %w", err)
	}

	return nil
}

// Delete removes a provider from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, placeID string) error {
	_, err := a.client.Client().Collection(tsclient.ProvidersCollection).Document(placeID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete provider from index: %w", err)
	}
	return nil
}
