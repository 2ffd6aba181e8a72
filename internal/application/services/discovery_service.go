package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/domain/providers"
	"github.com/carescout/discovery/internal/domain/repositories"
	"github.com/carescout/discovery/internal/infrastructure/observability"
	"github.com/carescout/discovery/pkg/config"
	apperrors "github.com/carescout/discovery/pkg/errors"
)

// DiscoveryService orchestrates a discovery run over a region. Probes run
// sequentially: one collaborator, one request at a time, with a fixed delay
// between paid calls. Cancellation is honored between probes, never inside
// one.
type DiscoveryService struct {
	planner *CoveragePlanner
	dedup   *SearchDedupService
	budget  *BudgetGuardService
	cache   repositories.CacheRepository
	places  providers.PlacesProvider
	index   repositories.DiscoveryIndexRepository
	metrics *observability.Metrics
	cfg     *config.DiscoveryConfig
	sleep   func(ctx context.Context, d time.Duration)
}

// NewDiscoveryService creates a new discovery orchestrator. The index
// repository is optional; pass nil to skip indexing.
func NewDiscoveryService(
	planner *CoveragePlanner,
	dedup *SearchDedupService,
	budget *BudgetGuardService,
	cache repositories.CacheRepository,
	places providers.PlacesProvider,
	index repositories.DiscoveryIndexRepository,
	metrics *observability.Metrics,
	cfg *config.DiscoveryConfig,
) *DiscoveryService {
	return &DiscoveryService{
		planner: planner,
		dedup:   dedup,
		budget:  budget,
		cache:   cache,
		places:  places,
		index:   index,
		metrics: metrics,
		cfg:     cfg,
		sleep:   sleepWithContext,
	}
}

// PlanRegion returns the grid plan for a region without running anything
func (s *DiscoveryService) PlanRegion(region string) []entities.SearchGrid {
	return s.planner.GenerateGrid(region)
}

// RunRegion executes the probe plan for a region and category. The summary
// is returned for both terminal states; THROTTLED keeps everything collected
// so far.
func (s *DiscoveryService) RunRegion(ctx context.Context, region, category string) (*entities.RunSummary, error) {
	logger := observability.LoggerFromContext(ctx)
	runID := uuid.New().String()

	grids := s.planner.GenerateGrid(region)
	summary := &entities.RunSummary{
		Region:        region,
		Status:        entities.RunStatusComplete,
		ProbesPlanned: len(grids),
	}

	logger.Info().
		Str("run_id", runID).
		Str("region", region).
		Str("category", category).
		Int("probes_planned", len(grids)).
		Msg("discovery run planned, probing")

	for i, grid := range grids {
		select {
		case <-ctx.Done():
			summary.Status = entities.RunStatusThrottled
			summary.StopReason = "run cancelled"
			summary.ProbesRemaining = len(grids) - i
			logger.Warn().Str("run_id", runID).Int("probes_remaining", summary.ProbesRemaining).
				Msg("discovery run cancelled between probes")
			return summary, nil
		default:
		}

		query := entities.SearchQuery{
			Region:       grid.Region,
			Category:     category,
			Method:       entities.SearchMethodNearby,
			RadiusMeters: grid.RadiusMeters,
			Keywords:     []string{grid.ID},
		}

		ok, reason, err := s.dedup.ShouldSearch(ctx, query)
		if err != nil {
			return nil, err
		}
		if !ok {
			summary.ProbesSkippedDeduped++
			logger.Debug().Str("grid", grid.ID).Str("reason", reason).Msg("probe skipped by dedup")
			continue
		}

		ok, reason, err = s.budget.CanProceed(ctx, entities.RequestClassSearch, 1)
		if err != nil {
			return nil, err
		}
		if !ok {
			summary.Status = entities.RunStatusThrottled
			summary.StopReason = reason
			summary.ProbesRemaining = len(grids) - i
			logger.Warn().Str("run_id", runID).Str("reason", reason).
				Msg("discovery run throttled by budget guard")
			return summary, nil
		}

		summary.ProbesRun++
		if err := s.runProbe(ctx, runID, grid, category, query, summary); err != nil {
			// Store writes are the run's audit trail; losing one means paid
			// spend goes uncounted and probes get re-paid on the next run.
			logger.Error().Err(err).Str("run_id", runID).Str("grid", grid.ID).
				Msg("store write failed, aborting run")
			return summary, err
		}
	}

	logger.Info().
		Str("run_id", runID).
		Str("status", string(summary.Status)).
		Int("probes_run", summary.ProbesRun).
		Int("cache_hits", summary.CacheHits).
		Int("new_items", summary.NewItems).
		Float64("cost_spent_usd", summary.CostSpentUSD).
		Msg("discovery run finished")

	return summary, nil
}

// runProbe executes a single grid probe: cache first, then the paid
// collaborator call. Collaborator failures are absorbed into the summary;
// a returned error is a store write failure and fatal to the run.
func (s *DiscoveryService) runProbe(ctx context.Context, runID string, grid entities.SearchGrid, category string, query entities.SearchQuery, summary *entities.RunSummary) error {
	logger := observability.LoggerFromContext(ctx)
	cacheKey := grid.ID + ":" + category
	started := time.Now()

	if payload, err := s.cache.Get(ctx, cacheKey, entities.CacheTypeSearch); err == nil {
		var result entities.PlaceSearchResult
		if err := json.Unmarshal(payload, &result); err == nil {
			summary.CacheHits++
			observability.RecordCacheHit(ctx, s.metrics, entities.CacheTypeSearch)
			observability.RecordProbe(ctx, s.metrics, grid.Region, "cache_hit")
			if err := s.budget.LogRequest(ctx, entities.RequestClassSearch, true, runID); err != nil {
				return err
			}
			return s.collectResults(ctx, grid, category, query, &result, 0, started, summary)
		}
		logger.Warn().Str("grid", grid.ID).Msg("cache payload unreadable, refetching")
	} else if !apperrors.IsNotFound(err) {
		return err
	}
	observability.RecordCacheMiss(ctx, s.metrics, entities.CacheTypeSearch)

	probeCtx := ctx
	if s.cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, s.cfg.ProbeTimeout)
		defer cancel()
	}

	center := grid.Center
	result, err := s.places.Search(probeCtx, providers.PlacesSearchRequest{
		Query:        category,
		Method:       entities.SearchMethodNearby,
		Location:     &center,
		RadiusMeters: grid.RadiusMeters,
	})
	if err != nil {
		// The paid call may or may not have been billed upstream; the
		// ledger records what we were charged for, so failures cost nothing.
		// The courtesy delay still applies so a flapping collaborator is
		// not hammered at full speed.
		summary.ProbesRun--
		summary.ProbesFailed++
		logger.Warn().Err(err).Str("grid", grid.ID).Msg("probe failed, continuing")
		if s.cfg.ProbeDelay > 0 {
			s.sleep(ctx, s.cfg.ProbeDelay)
		}
		return nil
	}

	if err := s.budget.LogRequest(ctx, entities.RequestClassSearch, false, runID); err != nil {
		return err
	}
	if price, err := s.budget.UnitPrice(entities.RequestClassSearch); err == nil {
		summary.CostSpentUSD += price
	}

	if payload, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, cacheKey, payload, entities.CacheTypeSearch, s.cfg.SearchCacheDays); err != nil {
			return err
		}
	}

	if err := s.collectResults(ctx, grid, category, query, result, 1, started, summary); err != nil {
		return err
	}
	observability.RecordProbe(ctx, s.metrics, grid.Region, "paid")

	if s.cfg.ProbeDelay > 0 {
		s.sleep(ctx, s.cfg.ProbeDelay)
	}
	return nil
}

// collectResults counts new versus already-processed places, marks them,
// indexes new ones best-effort, and appends the audit record. Marker and
// history writes are store I/O and propagate; only indexing is best-effort.
func (s *DiscoveryService) collectResults(ctx context.Context, grid entities.SearchGrid, category string, query entities.SearchQuery, result *entities.PlaceSearchResult, apiCalls int, started time.Time, summary *entities.RunSummary) error {
	logger := observability.LoggerFromContext(ctx)
	freshnessDays := int(s.cfg.FreshnessWindow / (24 * time.Hour))
	if freshnessDays <= 0 {
		freshnessDays = 7
	}

	newItems := 0
	duplicates := 0
	for i := range result.Results {
		place := &result.Results[i]
		processed, err := s.cache.IsProcessed(ctx, place.PlaceID, freshnessDays)
		if err != nil {
			return err
		}
		if processed {
			duplicates++
			continue
		}
		newItems++

		if err := s.cache.MarkProcessed(ctx, &entities.ProcessedPlace{
			PlaceID:  place.PlaceID,
			Region:   grid.Region,
			Category: category,
		}); err != nil {
			return err
		}

		if s.index != nil {
			if err := s.index.Index(ctx, grid.Region, category, place); err != nil {
				logger.Warn().Err(err).Str("place_id", place.PlaceID).Msg("failed to index place")
			}
		}
	}

	summary.NewItems += newItems

	if _, err := s.dedup.RecordSearch(ctx, query, SearchOutcome{
		ResultsCount:    len(result.Results),
		NewItemsFound:   newItems,
		DuplicatesFound: duplicates,
		APICallsUsed:    apiCalls,
		ExecutionTimeMs: int(time.Since(started).Milliseconds()),
		CoverageArea:    grid.ID,
	}); err != nil {
		return err
	}
	return nil
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
