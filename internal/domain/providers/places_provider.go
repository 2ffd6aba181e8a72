package providers

import (
	"context"

	"github.com/carescout/discovery/internal/domain/entities"
)

// PlacesSearchRequest describes one search against the places collaborator.
type PlacesSearchRequest struct {
	Query        string
	Method       string
	Location     *entities.GeoPoint
	RadiusMeters int
	PageToken    string
}

// PlacesProvider is the external places collaborator. Every non-cached call
// is a paid request and must be gated by the budget guard first.
type PlacesProvider interface {
	// Search runs a nearby or text search and returns one page of results
	Search(ctx context.Context, req PlacesSearchRequest) (*entities.PlaceSearchResult, error)

	// GetDetails fetches full details for a place. With forceRefresh set the
	// provider-level cache is bypassed.
	GetDetails(ctx context.Context, placeID string, forceRefresh bool) (*entities.PlaceDetails, error)
}
