package places

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/domain/providers"
)

const (
	googlePlacesBaseURL    = "https://maps.googleapis.com/maps/api"
	nearbySearchPath       = "/place/nearbysearch/json"
	textSearchPath         = "/place/textsearch/json"
	detailsPath            = "/place/details/json"
	defaultDetailsCacheTTL = 60 * 60 * 12
	defaultHTTPTimeout     = 8 * time.Second

	detailsFields = "place_id,name,formatted_address,formatted_phone_number,website,geometry,rating,user_ratings_total,types"
)

var _ providers.PlacesProvider = (*GooglePlacesProvider)(nil)

// GooglePlacesProvider implements the PlacesProvider using the Google Places APIs.
// Detail lookups go through a provider-level cache so repeated enrichment of the
// same place does not burn paid requests.
type GooglePlacesProvider struct {
	apiKey            string
	httpClient        *http.Client
	cache             providers.CacheProvider
	baseURL           string
	detailsTTLSeconds int
}

// NewGooglePlacesProvider creates a new Google places provider. The request
// timeout and detail-cache TTL come from configuration; zero values keep the
// defaults.
func NewGooglePlacesProvider(apiKey string, cache providers.CacheProvider, timeout time.Duration, detailsCacheDays float64) *GooglePlacesProvider {
	provider := NewGooglePlacesProviderWithOptions(apiKey, cache, googlePlacesBaseURL, nil)
	if timeout > 0 {
		provider.httpClient.Timeout = timeout
	}
	if detailsCacheDays > 0 {
		provider.detailsTTLSeconds = int(detailsCacheDays * 24 * 60 * 60)
	}
	return provider
}

// NewGooglePlacesProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGooglePlacesProviderWithOptions(apiKey string, cache providers.CacheProvider, baseURL string, httpClient *http.Client) *GooglePlacesProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googlePlacesBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GooglePlacesProvider{
		apiKey:            apiKey,
		httpClient:        httpClient,
		cache:             cache,
		baseURL:           strings.TrimSuffix(baseURL, "/"),
		detailsTTLSeconds: defaultDetailsCacheTTL,
	}
}

// Search runs a nearby or text search and returns one page of results.
func (g *GooglePlacesProvider) Search(ctx context.Context, req providers.PlacesSearchRequest) (*entities.PlaceSearchResult, error) {
	params := url.Values{}
	path := textSearchPath

	switch req.Method {
	case entities.SearchMethodNearby:
		if req.Location == nil {
			return nil, fmt.Errorf("nearby search requires a location")
		}
		path = nearbySearchPath
		params.Set("location", fmt.Sprintf("%f,%f", req.Location.Latitude, req.Location.Longitude))
		params.Set("radius", fmt.Sprintf("%d", req.RadiusMeters))
		if req.Query != "" {
			params.Set("keyword", req.Query)
		}
	case entities.SearchMethodText:
		if strings.TrimSpace(req.Query) == "" {
			return nil, fmt.Errorf("text search requires a query")
		}
		params.Set("query", req.Query)
		if req.Location != nil {
			params.Set("location", fmt.Sprintf("%f,%f", req.Location.Latitude, req.Location.Longitude))
			if req.RadiusMeters > 0 {
				params.Set("radius", fmt.Sprintf("%d", req.RadiusMeters))
			}
		}
	default:
		return nil, fmt.Errorf("unsupported search method: %s", req.Method)
	}

	if req.PageToken != "" {
		params.Set("pagetoken", req.PageToken)
	}

	var payload googlePlacesSearchResponse
	if err := g.doRequest(ctx, path, params, &payload); err != nil {
		return nil, err
	}

	if payload.Status == "ZERO_RESULTS" {
		return &entities.PlaceSearchResult{Results: []entities.PlaceStub{}}, nil
	}
	if payload.Status != "OK" {
		return nil, statusError("places search", payload.Status, payload.ErrorMessage)
	}

	result := &entities.PlaceSearchResult{
		Results:       make([]entities.PlaceStub, 0, len(payload.Results)),
		NextPageToken: payload.NextPageToken,
	}
	for _, r := range payload.Results {
		address := r.FormattedAddress
		if address == "" {
			address = r.Vicinity
		}
		result.Results = append(result.Results, entities.PlaceStub{
			PlaceID: r.PlaceID,
			Name:    r.Name,
			Address: address,
			Location: entities.GeoPoint{
				Latitude:  r.Geometry.Location.Lat,
				Longitude: r.Geometry.Location.Lng,
			},
			Types:  r.Types,
			Rating: r.Rating,
		})
	}

	return result, nil
}

// GetDetails fetches full details for a place. With forceRefresh set the
// provider-level cache is bypassed and the fresh response overwrites it.
func (g *GooglePlacesProvider) GetDetails(ctx context.Context, placeID string, forceRefresh bool) (*entities.PlaceDetails, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, fmt.Errorf("place id is required")
	}

	cacheKey := "places:v1:details:" + hashKey(placeID)
	if g.cache != nil && !forceRefresh {
		if cached, err := g.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var details entities.PlaceDetails
			if err := json.Unmarshal(cached, &details); err == nil && details.PlaceID != "" {
				return &details, nil
			}
		}
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)

	var payload googlePlacesDetailsResponse
	if err := g.doRequest(ctx, detailsPath, params, &payload); err != nil {
		return nil, err
	}

	if payload.Status == "NOT_FOUND" || payload.Status == "ZERO_RESULTS" {
		return nil, fmt.Errorf("place %s not found", placeID)
	}
	if payload.Status != "OK" {
		return nil, statusError("place details", payload.Status, payload.ErrorMessage)
	}

	r := payload.Result
	details := &entities.PlaceDetails{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		PhoneNumber:      r.FormattedPhoneNumber,
		Website:          r.Website,
		Location: entities.GeoPoint{
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
		},
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		Types:            r.Types,
	}

	if g.cache != nil {
		if payload, err := json.Marshal(details); err == nil {
			_ = g.cache.Set(ctx, cacheKey, payload, g.detailsTTLSeconds)
		}
	}

	return details, nil
}

func (g *GooglePlacesProvider) doRequest(ctx context.Context, path string, params url.Values, out interface{}) error {
	if g.apiKey == "" {
		return fmt.Errorf("google places api key is required")
	}

	params.Set("key", g.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", g.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build places request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("places request returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode places response: %w", err)
	}
	return nil
}

func statusError(op, status, message string) error {
	if message != "" {
		return fmt.Errorf("%s failed: %s - %s", op, status, message)
	}
	return fmt.Errorf("%s failed: %s", op, status)
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

type googlePlacesSearchResponse struct {
	Status        string               `json:"status"`
	ErrorMessage  string               `json:"error_message,omitempty"`
	Results       []googlePlacesResult `json:"results"`
	NextPageToken string               `json:"next_page_token,omitempty"`
}

type googlePlacesResult struct {
	PlaceID          string         `json:"place_id"`
	Name             string         `json:"name"`
	Vicinity         string         `json:"vicinity,omitempty"`
	FormattedAddress string         `json:"formatted_address,omitempty"`
	Geometry         googleGeometry `json:"geometry"`
	Types            []string       `json:"types,omitempty"`
	Rating           float64        `json:"rating,omitempty"`
}

type googlePlacesDetailsResponse struct {
	Status       string              `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Result       googleDetailsResult `json:"result"`
}

type googleDetailsResult struct {
	PlaceID              string         `json:"place_id"`
	Name                 string         `json:"name"`
	FormattedAddress     string         `json:"formatted_address,omitempty"`
	FormattedPhoneNumber string         `json:"formatted_phone_number,omitempty"`
	Website              string         `json:"website,omitempty"`
	Geometry             googleGeometry `json:"geometry"`
	Rating               float64        `json:"rating,omitempty"`
	UserRatingsTotal     int            `json:"user_ratings_total,omitempty"`
	Types                []string       `json:"types,omitempty"`
}

type googleGeometry struct {
	Location googleLocation `json:"location"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
