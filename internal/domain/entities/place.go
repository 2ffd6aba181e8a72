package entities

// PlaceStub is the minimal result returned by a places search.
type PlaceStub struct {
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Address  string   `json:"address,omitempty"`
	Location GeoPoint `json:"location"`
	Types    []string `json:"types,omitempty"`
	Rating   float64  `json:"rating,omitempty"`
}

// PlaceSearchResult is one page of search results.
type PlaceSearchResult struct {
	Results       []PlaceStub `json:"results"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

// PlaceDetails is the full detail record for a single place.
type PlaceDetails struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	PhoneNumber      string   `json:"phone_number,omitempty"`
	Website          string   `json:"website,omitempty"`
	Location         GeoPoint `json:"location"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	Types            []string `json:"types,omitempty"`
}
