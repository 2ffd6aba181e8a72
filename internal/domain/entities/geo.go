package entities

// GeoPoint is an immutable coordinate pair in floating-point degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchGrid is one lattice probe point produced by the coverage planner.
// Identity is the ID alone; grids are generated on demand and never persisted.
type SearchGrid struct {
	ID           string   `json:"id"`
	Center       GeoPoint `json:"center"`
	RadiusMeters int      `json:"radius_meters"`
	Region       string   `json:"region"`
	Ward         string   `json:"ward,omitempty"`
}

// ProbePoint is one probe circle in a hex-packed overlap pattern.
type ProbePoint struct {
	Center       GeoPoint `json:"center"`
	RadiusMeters int      `json:"radius_meters"`
	Ring         int      `json:"ring"`
	AngleDegrees int      `json:"angle_degrees"`
}

// District is a named sub-area of a region with an optional known center.
type District struct {
	Name   string    `json:"name"`
	Center *GeoPoint `json:"center,omitempty"`
}

// Region is one entry of the static coverage reference table.
type Region struct {
	Name             string     `json:"name"`
	Center           GeoPoint   `json:"center"`
	CoverageRadiusKm float64    `json:"coverage_radius_km"`
	TopTier          bool       `json:"top_tier"`
	Districts        []District `json:"districts,omitempty"`
}

// DistrictProbe is a deterministic keyword or coordinate probe for a district.
type DistrictProbe struct {
	Region   string    `json:"region"`
	District string    `json:"district"`
	Category string    `json:"category"`
	Query    string    `json:"query,omitempty"`
	Point    *GeoPoint `json:"point,omitempty"`
}
