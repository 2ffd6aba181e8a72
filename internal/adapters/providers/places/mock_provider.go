package places

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/domain/providers"
)

// MockPlacesProvider generates deterministic results for dry runs and tests.
// The same request always produces the same places, so dedup and cache
// behavior can be exercised without paid API calls.
type MockPlacesProvider struct {
	ResultsPerPage int
}

// NewMockPlacesProvider creates a new mock places provider
func NewMockPlacesProvider() providers.PlacesProvider {
	return &MockPlacesProvider{ResultsPerPage: 5}
}

// Search returns deterministic stub places derived from the request
func (m *MockPlacesProvider) Search(ctx context.Context, req providers.PlacesSearchRequest) (*entities.PlaceSearchResult, error) {
	count := m.ResultsPerPage
	if count <= 0 {
		count = 5
	}

	seed := m.seed(req)
	result := &entities.PlaceSearchResult{Results: make([]entities.PlaceStub, 0, count)}

	center := entities.GeoPoint{}
	if req.Location != nil {
		center = *req.Location
	}

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("mock-%08x-%d", seed, i)
		// Spread results a few hundred meters around the probe center
		offset := float64(i+1) * 0.002
		result.Results = append(result.Results, entities.PlaceStub{
			PlaceID: id,
			Name:    fmt.Sprintf("Mock Clinic %08x-%d", seed, i),
			Address: fmt.Sprintf("%d Mock Street", i+1),
			Location: entities.GeoPoint{
				Latitude:  center.Latitude + offset,
				Longitude: center.Longitude - offset,
			},
			Types:  []string{"doctor", "health"},
			Rating: 3.5 + float64(i%3)*0.5,
		})
	}

	return result, nil
}

// GetDetails synthesizes details from the place ID
func (m *MockPlacesProvider) GetDetails(ctx context.Context, placeID string, forceRefresh bool) (*entities.PlaceDetails, error) {
	if placeID == "" {
		return nil, fmt.Errorf("place id is required")
	}
	return &entities.PlaceDetails{
		PlaceID:          placeID,
		Name:             fmt.Sprintf("Mock Clinic %s", placeID),
		FormattedAddress: "1 Mock Street",
		PhoneNumber:      "+81-3-0000-0000",
		Website:          "https://example.com/" + placeID,
		Rating:           4.0,
		UserRatingsTotal: 12,
		Types:            []string{"doctor", "health"},
	}, nil
}

func (m *MockPlacesProvider) seed(req providers.PlacesSearchRequest) uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%d", req.Query, req.Method, req.RadiusMeters)
	if req.Location != nil {
		fmt.Fprintf(h, "|%.5f,%.5f", req.Location.Latitude, req.Location.Longitude)
	}
	return h.Sum32()
}
