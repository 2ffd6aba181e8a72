package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/pkg/config"
)

type discoveryFixture struct {
	service *DiscoveryService
	history *fakeHistoryRepo
	cache   *fakeCacheRepo
	ledger  *fakeLedgerRepo
	places  *fakePlacesProvider
	index   *fakeIndexRepo
	now     time.Time
}

func newDiscoveryFixture(t *testing.T, budgetCfg *config.BudgetConfig) *discoveryFixture {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	if budgetCfg == nil {
		budgetCfg = testBudgetConfig()
	}

	history := newFakeHistoryRepo()
	cache := newFakeCacheRepo(clock)
	ledger := newFakeLedgerRepo(clock)
	places := &fakePlacesProvider{
		results: []entities.PlaceStub{
			{PlaceID: "place-a", Name: "Alpha Clinic"},
			{PlaceID: "place-b", Name: "Beta Clinic"},
		},
	}
	index := &fakeIndexRepo{}

	planner := testCityPlanner()
	dedup := NewSearchDedupService(history, DefaultRegions(), 7*24*time.Hour)
	dedup.now = clock
	budget := NewBudgetGuardService(ledger, nil, budgetCfg, nil)
	budget.now = clock

	cfg := &config.DiscoveryConfig{
		GridSizeMeters:  1000,
		WardCatchmentKm: 5.0,
		FreshnessWindow: 7 * 24 * time.Hour,
		ProbeTimeout:    5 * time.Second,
		SearchCacheDays: 7,
	}

	service := NewDiscoveryService(planner, dedup, budget, cache, places, index, nil, cfg)
	service.sleep = func(ctx context.Context, d time.Duration) {}

	return &discoveryFixture{
		service: service,
		history: history,
		cache:   cache,
		ledger:  ledger,
		places:  places,
		index:   index,
		now:     now,
	}
}

func TestRunRegion_Complete(t *testing.T) {
	f := newDiscoveryFixture(t, nil)

	summary, err := f.service.RunRegion(context.Background(), "TestCity", "cardiology")
	require.NoError(t, err)

	assert.Equal(t, entities.RunStatusComplete, summary.Status)
	assert.Equal(t, 5, summary.ProbesPlanned)
	assert.Equal(t, 5, summary.ProbesRun)
	assert.Zero(t, summary.ProbesSkippedDeduped)
	assert.Zero(t, summary.ProbesFailed)
	assert.Zero(t, summary.ProbesRemaining)
	assert.Empty(t, summary.StopReason)

	// The same two places come back from every probe; only the first probe
	// finds them new.
	assert.Equal(t, 2, summary.NewItems)
	assert.Equal(t, []string{"place-a", "place-b"}, f.index.indexed)

	// Every probe paid for one search
	assert.Equal(t, 5, f.places.searchCount())
	assert.InDelta(t, 5*0.032, summary.CostSpentUSD, 1e-9)
	assert.Len(t, f.history.records, 5)
}

func TestRunRegion_SecondRunIsFullyDeduped(t *testing.T) {
	f := newDiscoveryFixture(t, nil)
	ctx := context.Background()

	first, err := f.service.RunRegion(ctx, "TestCity", "cardiology")
	require.NoError(t, err)
	require.Equal(t, 5, first.ProbesRun)

	second, err := f.service.RunRegion(ctx, "TestCity", "cardiology")
	require.NoError(t, err)

	assert.Equal(t, entities.RunStatusComplete, second.Status)
	assert.Equal(t, 5, second.ProbesSkippedDeduped)
	assert.Zero(t, second.ProbesRun)
	assert.Zero(t, second.CostSpentUSD)
	assert.Equal(t, 5, f.places.searchCount())
}

func TestRunRegion_CacheHitCostsNothing(t *testing.T) {
	f := newDiscoveryFixture(t, nil)
	ctx := context.Background()

	// Pre-populate the cache for the center grid
	payload, err := json.Marshal(&entities.PlaceSearchResult{
		Results: []entities.PlaceStub{{PlaceID: "cached-place", Name: "Cached Clinic"}},
	})
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(ctx, "testcity_0_0:cardiology", payload, entities.CacheTypeSearch, 7))

	summary, err := f.service.RunRegion(ctx, "TestCity", "cardiology")
	require.NoError(t, err)

	assert.Equal(t, entities.RunStatusComplete, summary.Status)
	assert.Equal(t, 1, summary.CacheHits)
	assert.Equal(t, 5, summary.ProbesRun)
	// Only four probes hit the collaborator
	assert.Equal(t, 4, f.places.searchCount())
	assert.InDelta(t, 4*0.032, summary.CostSpentUSD, 1e-9)
	// The cached place still counts as discovered
	assert.Contains(t, f.index.indexed, "cached-place")

	// Cached probe logged a zero-cost event
	spent, err := f.ledger.SumSince(ctx, f.now.Add(-time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 4*0.032, spent, 1e-9)
}

func TestRunRegion_ThrottledByBudget(t *testing.T) {
	// Two searches fit under a $0.07 daily limit; the third is denied
	f := newDiscoveryFixture(t, &config.BudgetConfig{
		DailyLimitUSD:   0.07,
		MonthlyLimitUSD: 150,
		SearchPriceUSD:  0.032,
		DetailsPriceUSD: 0.017,
		PhotoPriceUSD:   0.007,
	})

	summary, err := f.service.RunRegion(context.Background(), "TestCity", "cardiology")
	require.NoError(t, err)

	assert.Equal(t, entities.RunStatusThrottled, summary.Status)
	assert.Equal(t, 2, summary.ProbesRun)
	assert.Equal(t, 3, summary.ProbesRemaining)
	assert.Contains(t, summary.StopReason, "daily budget exceeded")
	// Collected results are kept
	assert.Equal(t, 2, summary.NewItems)
	assert.Len(t, f.history.records, 2)
}

func TestRunRegion_CancelledBetweenProbes(t *testing.T) {
	f := newDiscoveryFixture(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := f.service.RunRegion(ctx, "TestCity", "cardiology")
	require.NoError(t, err)

	assert.Equal(t, entities.RunStatusThrottled, summary.Status)
	assert.Equal(t, "run cancelled", summary.StopReason)
	assert.Equal(t, 5, summary.ProbesRemaining)
	assert.Zero(t, summary.ProbesRun)
	assert.Zero(t, f.places.searchCount())
}

func TestRunRegion_FailedProbeDoesNotStopRun(t *testing.T) {
	f := newDiscoveryFixture(t, nil)
	f.places.err = errors.New("collaborator unavailable")

	summary, err := f.service.RunRegion(context.Background(), "TestCity", "cardiology")
	require.NoError(t, err)

	assert.Equal(t, entities.RunStatusComplete, summary.Status)
	assert.Equal(t, 5, summary.ProbesFailed)
	assert.Zero(t, summary.ProbesRun)
	assert.Zero(t, summary.NewItems)
	// Failed probes are not billed
	assert.Zero(t, summary.CostSpentUSD)
}

func TestRunRegion_HistoryWriteFailureAbortsRun(t *testing.T) {
	f := newDiscoveryFixture(t, nil)
	storeErr := errors.New("history insert failed")
	f.history.insertErr = storeErr

	summary, err := f.service.RunRegion(context.Background(), "TestCity", "cardiology")
	require.ErrorIs(t, err, storeErr)
	require.NotNil(t, summary)

	// The run stops on the first probe; a silently lost audit record would
	// mean re-paying the same probe on every future run.
	assert.Equal(t, 1, summary.ProbesRun)
	assert.Equal(t, 1, f.places.searchCount())
	assert.Empty(t, f.history.records)

	// The paid call itself was still billed before the abort
	assert.InDelta(t, 0.032, summary.CostSpentUSD, 1e-9)
	assert.Len(t, f.ledger.events, 1)
}

func TestRunRegion_LedgerWriteFailureAbortsRun(t *testing.T) {
	f := newDiscoveryFixture(t, nil)
	storeErr := errors.New("ledger append failed")
	f.ledger.appendErr = storeErr

	summary, err := f.service.RunRegion(context.Background(), "TestCity", "cardiology")
	require.ErrorIs(t, err, storeErr)
	require.NotNil(t, summary)

	// Unrecorded spend must not let the run keep approving paid calls
	assert.Equal(t, 1, f.places.searchCount())
	assert.Zero(t, summary.CostSpentUSD)
	assert.Empty(t, f.ledger.events)
}

func TestRunRegion_CacheWriteFailureAbortsRun(t *testing.T) {
	f := newDiscoveryFixture(t, nil)
	storeErr := errors.New("cache write failed")
	f.cache.setErr = storeErr

	summary, err := f.service.RunRegion(context.Background(), "TestCity", "cardiology")
	require.ErrorIs(t, err, storeErr)
	require.NotNil(t, summary)

	assert.Equal(t, 1, f.places.searchCount())
	assert.Empty(t, f.history.records)
}

func TestRunRegion_FailedProbeStillDelays(t *testing.T) {
	f := newDiscoveryFixture(t, nil)
	f.places.err = errors.New("collaborator unavailable")
	f.service.cfg.ProbeDelay = time.Second

	var sleeps int
	f.service.sleep = func(ctx context.Context, d time.Duration) { sleeps++ }

	summary, err := f.service.RunRegion(context.Background(), "TestCity", "cardiology")
	require.NoError(t, err)

	assert.Equal(t, 5, summary.ProbesFailed)
	assert.Equal(t, 5, sleeps)
}

func TestRunRegion_UnknownRegionCompletesEmpty(t *testing.T) {
	f := newDiscoveryFixture(t, nil)

	summary, err := f.service.RunRegion(context.Background(), "Atlantis", "cardiology")
	require.NoError(t, err)

	assert.Equal(t, entities.RunStatusComplete, summary.Status)
	assert.Zero(t, summary.ProbesPlanned)
	assert.Zero(t, summary.ProbesRun)
}

func TestRunRegion_IndexFailureIsBestEffort(t *testing.T) {
	f := newDiscoveryFixture(t, nil)
	f.index.err = errors.New("typesense down")

	summary, err := f.service.RunRegion(context.Background(), "TestCity", "cardiology")
	require.NoError(t, err)

	assert.Equal(t, entities.RunStatusComplete, summary.Status)
	assert.Equal(t, 2, summary.NewItems)
}
