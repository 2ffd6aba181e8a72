package routes

import (
	"net/http"

	"github.com/carescout/discovery/internal/api/handlers"
	"github.com/carescout/discovery/internal/api/middleware"
	"github.com/carescout/discovery/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	discoveryHandler *handlers.DiscoveryHandler
	budgetHandler    *handlers.BudgetHandler
	cacheHandler     *handlers.CacheHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	discoveryHandler *handlers.DiscoveryHandler,
	budgetHandler *handlers.BudgetHandler,
	cacheHandler *handlers.CacheHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		discoveryHandler: discoveryHandler,
		budgetHandler:    budgetHandler,
		cacheHandler:     cacheHandler,
		cacheMiddleware:  cacheMiddleware,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Discovery endpoints
	r.mux.HandleFunc("GET /api/discovery/plan", r.discoveryHandler.PlanRegion)
	r.mux.HandleFunc("POST /api/discovery/run", r.discoveryHandler.RunDiscovery)
	r.mux.HandleFunc("GET /api/discovery/gaps", r.discoveryHandler.CoverageGaps)
	r.mux.HandleFunc("POST /api/history/purge", r.discoveryHandler.PurgeHistory)

	// Budget and cache endpoints
	r.mux.HandleFunc("GET /api/budget", r.budgetHandler.GetBudget)
	r.mux.HandleFunc("GET /api/cache/stats", r.cacheHandler.GetStats)
	r.mux.HandleFunc("POST /api/cache/cleanup", r.cacheHandler.Cleanup)

	var handler http.Handler = r.mux
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
