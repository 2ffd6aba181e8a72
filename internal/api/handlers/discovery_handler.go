package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/carescout/discovery/internal/application/services"
)

// DiscoveryHandler handles discovery planning and run requests
type DiscoveryHandler struct {
	discovery *services.DiscoveryService
	dedup     *services.SearchDedupService
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(discovery *services.DiscoveryService, dedup *services.SearchDedupService) *DiscoveryHandler {
	return &DiscoveryHandler{
		discovery: discovery,
		dedup:     dedup,
	}
}

// PlanRegion handles GET /api/discovery/plan?region=tokyo
func (h *DiscoveryHandler) PlanRegion(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if region == "" {
		respondWithError(w, http.StatusBadRequest, "region is required")
		return
	}

	grids := h.discovery.PlanRegion(region)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"region": region,
		"grids":  grids,
		"count":  len(grids),
	})
}

type runRequest struct {
	Region   string `json:"region"`
	Category string `json:"category"`
}

// RunDiscovery handles POST /api/discovery/run
func (h *DiscoveryHandler) RunDiscovery(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Region == "" || req.Category == "" {
		respondWithError(w, http.StatusBadRequest, "region and category are required")
		return
	}

	summary, err := h.discovery.RunRegion(r.Context(), req.Region, req.Category)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// CoverageGaps handles GET /api/discovery/gaps?regions=tokyo,osaka&categories=cardiology
func (h *DiscoveryHandler) CoverageGaps(w http.ResponseWriter, r *http.Request) {
	regions := splitParam(r.URL.Query().Get("regions"))
	categories := splitParam(r.URL.Query().Get("categories"))
	if len(regions) == 0 || len(categories) == 0 {
		respondWithError(w, http.StatusBadRequest, "regions and categories are required")
		return
	}

	gaps, err := h.dedup.CoverageGaps(r.Context(), regions, categories)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"gaps":  gaps,
		"count": len(gaps),
	})
}

type purgeRequest struct {
	Days int `json:"days"`
}

// PurgeHistory handles POST /api/history/purge
func (h *DiscoveryHandler) PurgeHistory(w http.ResponseWriter, r *http.Request) {
	var req purgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Days <= 0 {
		respondWithError(w, http.StatusBadRequest, "days must be positive")
		return
	}

	removed, err := h.dedup.PurgeOlderThan(r.Context(), req.Days)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"removed": removed,
	})
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
