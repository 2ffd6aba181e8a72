package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/domain/providers"
	apperrors "github.com/carescout/discovery/pkg/errors"
)

// In-memory fakes shared by the service tests.

type fakeHistoryRepo struct {
	mu        sync.Mutex
	records   []*entities.SearchHistoryRecord
	insertErr error
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (f *fakeHistoryRepo) Insert(ctx context.Context, record *entities.SearchHistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	if record.ID == "" {
		record.ID = fmt.Sprintf("rec-%d", len(f.records)+1)
	}
	clone := *record
	f.records = append(f.records, &clone)
	return nil
}

func (f *fakeHistoryRepo) LatestByFingerprint(ctx context.Context, fingerprint string) (*entities.SearchHistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *entities.SearchHistoryRecord
	for _, record := range f.records {
		if record.Fingerprint != fingerprint {
			continue
		}
		if latest == nil || record.SearchedAt.After(latest.SearchedAt) {
			latest = record
		}
	}
	if latest == nil {
		return nil, apperrors.NewNotFoundError("no search history for fingerprint " + fingerprint)
	}
	clone := *latest
	return &clone, nil
}

func (f *fakeHistoryRepo) FreshFingerprints(ctx context.Context, since time.Time) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fresh := map[string]struct{}{}
	for _, record := range f.records {
		if !record.SearchedAt.Before(since) {
			fresh[record.Fingerprint] = struct{}{}
		}
	}
	return fresh, nil
}

func (f *fakeHistoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.records[:0]
	var removed int64
	for _, record := range f.records {
		if record.SearchedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	f.records = kept
	return removed, nil
}

type cacheItem struct {
	payload   []byte
	expiresAt time.Time
	hitCount  int
}

type fakeCacheRepo struct {
	mu        sync.Mutex
	items     map[string]*cacheItem
	processed map[string]time.Time
	now       func() time.Time
	setErr    error
}

func newFakeCacheRepo(now func() time.Time) *fakeCacheRepo {
	return &fakeCacheRepo{
		items:     map[string]*cacheItem{},
		processed: map[string]time.Time{},
		now:       now,
	}
}

func cacheItemKey(key, cacheType string) string {
	return cacheType + "/" + key
}

func (f *fakeCacheRepo) Get(ctx context.Context, key, cacheType string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[cacheItemKey(key, cacheType)]
	if !ok {
		return nil, apperrors.NewNotFoundError("cache entry not found")
	}
	if !item.expiresAt.After(f.now()) {
		delete(f.items, cacheItemKey(key, cacheType))
		return nil, apperrors.NewNotFoundError("cache entry expired")
	}
	item.hitCount++
	return item.payload, nil
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, payload []byte, cacheType string, ttlDays float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.items[cacheItemKey(key, cacheType)] = &cacheItem{
		payload:   payload,
		expiresAt: f.now().Add(time.Duration(ttlDays * 24 * float64(time.Hour))),
	}
	return nil
}

func (f *fakeCacheRepo) Delete(ctx context.Context, key, cacheType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, cacheItemKey(key, cacheType))
	return nil
}

func (f *fakeCacheRepo) CleanupExpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for key, item := range f.items {
		if !item.expiresAt.After(f.now()) {
			delete(f.items, key)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeCacheRepo) Stats(ctx context.Context) (*entities.CacheStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &entities.CacheStats{EntriesByType: map[string]int{}}
	for key := range f.items {
		stats.TotalEntries++
		for i := 0; i < len(key); i++ {
			if key[i] == '/' {
				stats.EntriesByType[key[:i]]++
				break
			}
		}
	}
	return stats, nil
}

func (f *fakeCacheRepo) IsProcessed(ctx context.Context, placeID string, daysThreshold int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	processedAt, ok := f.processed[placeID]
	if !ok {
		return false, nil
	}
	return processedAt.After(f.now().AddDate(0, 0, -daysThreshold)), nil
}

func (f *fakeCacheRepo) MarkProcessed(ctx context.Context, marker *entities.ProcessedPlace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	at := marker.ProcessedAt
	if at.IsZero() {
		at = f.now()
	}
	f.processed[marker.PlaceID] = at
	return nil
}

type fakeLedgerRepo struct {
	mu        sync.Mutex
	events    []*entities.CostEvent
	now       func() time.Time
	appendErr error
}

func newFakeLedgerRepo(now func() time.Time) *fakeLedgerRepo {
	return &fakeLedgerRepo{now: now}
}

func (f *fakeLedgerRepo) Append(ctx context.Context, event *entities.CostEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	clone := *event
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = f.now()
	}
	f.events = append(f.events, &clone)
	return nil
}

func (f *fakeLedgerRepo) SumSince(ctx context.Context, since time.Time) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, event := range f.events {
		if event.Cached || event.CreatedAt.Before(since) {
			continue
		}
		total += event.UnitCost
	}
	return total, nil
}

func (f *fakeLedgerRepo) RollupsForDay(ctx context.Context, day time.Time) ([]*entities.DailyRollup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byClass := map[entities.RequestClass]*entities.DailyRollup{}
	for _, event := range f.events {
		if event.CreatedAt.Format("2006-01-02") != day.Format("2006-01-02") {
			continue
		}
		rollup, ok := byClass[event.RequestClass]
		if !ok {
			rollup = &entities.DailyRollup{Day: day, RequestClass: event.RequestClass}
			byClass[event.RequestClass] = rollup
		}
		rollup.RequestCount++
		rollup.TotalCost += event.UnitCost
	}
	rollups := make([]*entities.DailyRollup, 0, len(byClass))
	for _, rollup := range byClass {
		rollups = append(rollups, rollup)
	}
	sort.Slice(rollups, func(i, j int) bool { return rollups[i].RequestClass < rollups[j].RequestClass })
	return rollups, nil
}

type fakeIndexRepo struct {
	mu      sync.Mutex
	indexed []string
	err     error
}

func (f *fakeIndexRepo) Index(ctx context.Context, region, category string, place *entities.PlaceStub) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, place.PlaceID)
	return nil
}

func (f *fakeIndexRepo) Delete(ctx context.Context, placeID string) error {
	return nil
}

type fakePlacesProvider struct {
	mu       sync.Mutex
	searches int
	results  []entities.PlaceStub
	err      error
	delay    time.Duration
}

func (f *fakePlacesProvider) Search(ctx context.Context, req providers.PlacesSearchRequest) (*entities.PlaceSearchResult, error) {
	f.mu.Lock()
	f.searches++
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &entities.PlaceSearchResult{Results: f.results}, nil
}

func (f *fakePlacesProvider) GetDetails(ctx context.Context, placeID string, forceRefresh bool) (*entities.PlaceDetails, error) {
	return &entities.PlaceDetails{PlaceID: placeID, Name: "Fake " + placeID}, nil
}

func (f *fakePlacesProvider) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

