package handlers

import (
	"net/http"

	"github.com/carescout/discovery/internal/domain/repositories"
)

// CacheHandler exposes cache statistics and the expiry sweep
type CacheHandler struct {
	cache repositories.CacheRepository
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(cache repositories.CacheRepository) *CacheHandler {
	return &CacheHandler{cache: cache}
}

// GetStats handles GET /api/cache/stats
func (h *CacheHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cache.Stats(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// Cleanup handles POST /api/cache/cleanup
func (h *CacheHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	removed, err := h.cache.CleanupExpired(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"removed": removed,
	})
}
