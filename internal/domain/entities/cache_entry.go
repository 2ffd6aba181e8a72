package entities

import (
	"time"
)

// Cache entry type tags. Entries are keyed by (key, type).
const (
	CacheTypeSearch  = "search"
	CacheTypeDetails = "details"
)

// CacheEntry is one persisted cache row. The payload is an opaque blob;
// deserialization happens at the collaborator boundary, never in the store.
type CacheEntry struct {
	Key       string    `json:"key" db:"cache_key"`
	Type      string    `json:"type" db:"cache_type"`
	Payload   []byte    `json:"payload" db:"payload"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	HitCount  int       `json:"hit_count" db:"hit_count"`
}

// ProcessedPlace marks a place as already handled. Unlike search history this
// marker is idempotent; re-marking refreshes the timestamp.
type ProcessedPlace struct {
	PlaceID     string    `json:"place_id" db:"place_id"`
	Region      string    `json:"region" db:"region"`
	Category    string    `json:"category" db:"category"`
	ProcessedAt time.Time `json:"processed_at" db:"processed_at"`
}

// CacheStats summarizes cache occupancy for the API and sweep reporting.
type CacheStats struct {
	TotalEntries   int            `json:"total_entries"`
	EntriesByType  map[string]int `json:"entries_by_type"`
	ExpiredEntries int            `json:"expired_entries"`
}
