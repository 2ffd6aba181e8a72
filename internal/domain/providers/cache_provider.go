package providers

import (
	"context"
)

// CacheProvider is a byte-blob cache used for provider-level response
// caching (cache-aside inside API clients). The persistent response cache
// with TTL bookkeeping lives behind repositories.CacheRepository instead.
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}
