package entities

import (
	"time"
)

// Search methods understood by the deduplicator and the places collaborator.
const (
	SearchMethodNearby = "nearby"
	SearchMethodText   = "text"
)

// SearchQuery identifies one prospective search. It is never persisted
// directly; it only exists to derive a fingerprint.
type SearchQuery struct {
	Region       string   `json:"region"`
	Category     string   `json:"category"`
	Method       string   `json:"method"`
	RadiusMeters int      `json:"radius_meters,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
}

// SearchHistoryRecord is the append-only audit record of one completed probe.
type SearchHistoryRecord struct {
	ID              string    `json:"id" db:"id"`
	Fingerprint     string    `json:"fingerprint" db:"fingerprint"`
	Region          string    `json:"region" db:"region"`
	Category        string    `json:"category" db:"category"`
	Method          string    `json:"method" db:"method"`
	RadiusMeters    int       `json:"radius_meters" db:"radius_meters"`
	Keywords        string    `json:"keywords" db:"keywords"`
	ResultsCount    int       `json:"results_count" db:"results_count"`
	NewItemsFound   int       `json:"new_items_found" db:"new_items_found"`
	DuplicatesFound int       `json:"duplicates_found" db:"duplicates_found"`
	APICallsUsed    int       `json:"api_calls_used" db:"api_calls_used"`
	ExecutionTimeMs int       `json:"execution_time_ms" db:"execution_time_ms"`
	CoverageArea    string    `json:"coverage_area" db:"coverage_area"`
	SearchedAt      time.Time `json:"searched_at" db:"searched_at"`
}

// CoverageGap is a region/category combination without a fresh search record.
type CoverageGap struct {
	Region   string `json:"region"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}
