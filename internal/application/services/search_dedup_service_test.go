package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carescout/discovery/internal/domain/entities"
)

func newTestDedupService(history *fakeHistoryRepo, now time.Time) *SearchDedupService {
	service := NewSearchDedupService(history, DefaultRegions(), 7*24*time.Hour)
	service.now = func() time.Time { return now }
	return service
}

func TestFingerprint_InvariantUnderAliases(t *testing.T) {
	service := newTestDedupService(newFakeHistoryRepo(), time.Now())

	base := service.Fingerprint(entities.SearchQuery{
		Region:   "tokyo",
		Category: "cardiology",
		Method:   entities.SearchMethodText,
	})

	cases := []entities.SearchQuery{
		{Region: "Tokyo", Category: "cardiology", Method: entities.SearchMethodText},
		{Region: "東京", Category: "cardiology", Method: entities.SearchMethodText},
		{Region: "tokyo-to", Category: "cardiology", Method: entities.SearchMethodText},
		{Region: " tokyo ", Category: "Heart Doctor", Method: entities.SearchMethodText},
	}
	for _, query := range cases {
		assert.Equal(t, base, service.Fingerprint(query), "query %+v should collide with base", query)
	}
}

func TestFingerprint_SensitiveToSemanticDifferences(t *testing.T) {
	service := newTestDedupService(newFakeHistoryRepo(), time.Now())

	base := service.Fingerprint(entities.SearchQuery{
		Region: "tokyo", Category: "cardiology", Method: entities.SearchMethodText,
	})

	assert.NotEqual(t, base, service.Fingerprint(entities.SearchQuery{
		Region: "osaka", Category: "cardiology", Method: entities.SearchMethodText,
	}))
	assert.NotEqual(t, base, service.Fingerprint(entities.SearchQuery{
		Region: "tokyo", Category: "dentistry", Method: entities.SearchMethodText,
	}))
	assert.NotEqual(t, base, service.Fingerprint(entities.SearchQuery{
		Region: "tokyo", Category: "cardiology", Method: entities.SearchMethodNearby,
	}))
	assert.NotEqual(t, base, service.Fingerprint(entities.SearchQuery{
		Region: "tokyo", Category: "cardiology", Method: entities.SearchMethodText, RadiusMeters: 1000,
	}))
}

func TestFingerprint_KeywordOrderDoesNotMatter(t *testing.T) {
	service := newTestDedupService(newFakeHistoryRepo(), time.Now())

	a := service.Fingerprint(entities.SearchQuery{
		Region: "tokyo", Category: "cardiology", Method: entities.SearchMethodText,
		Keywords: []string{"english", "pediatric"},
	})
	b := service.Fingerprint(entities.SearchQuery{
		Region: "tokyo", Category: "cardiology", Method: entities.SearchMethodText,
		Keywords: []string{"Pediatric", " english "},
	})
	assert.Equal(t, a, b)
}

func TestShouldSearch_FreshnessRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	history := newFakeHistoryRepo()
	service := newTestDedupService(history, now)

	query := entities.SearchQuery{
		Region: "Osaka", Category: "dentistry", Method: entities.SearchMethodText,
	}

	ok, reason, err := service.ShouldSearch(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "no prior search with this fingerprint", reason)

	// Record with an aliased spelling; the fingerprint must still collide
	_, err = service.RecordSearch(context.Background(), entities.SearchQuery{
		Region: "osaka ", Category: "dentistry", Method: entities.SearchMethodText,
	}, SearchOutcome{ResultsCount: 9, APICallsUsed: 1})
	require.NoError(t, err)

	ok, reason, err = service.ShouldSearch(context.Background(), query)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, reason, "fresh result exists")

	// Beyond the freshness window the same query runs again
	service.now = func() time.Time { return now.Add(8 * 24 * time.Hour) }
	ok, reason, err = service.ShouldSearch(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, reason, "older than")
}

func TestRecordSearch_AppendOnly(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	history := newFakeHistoryRepo()
	service := newTestDedupService(history, now)

	query := entities.SearchQuery{Region: "tokyo", Category: "cardiology", Method: entities.SearchMethodText}

	first, err := service.RecordSearch(context.Background(), query, SearchOutcome{ResultsCount: 3})
	require.NoError(t, err)
	second, err := service.RecordSearch(context.Background(), query, SearchOutcome{ResultsCount: 5})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, history.records, 2)
}

func TestCoverageGaps(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	history := newFakeHistoryRepo()
	service := newTestDedupService(history, now)

	// Tokyo cardiology was searched recently; everything else is a gap
	_, err := service.RecordSearch(context.Background(), entities.SearchQuery{
		Region: "tokyo", Category: "cardiology", Method: entities.SearchMethodText,
	}, SearchOutcome{})
	require.NoError(t, err)

	gaps, err := service.CoverageGaps(context.Background(),
		[]string{"tokyo", "yokohama"}, []string{"cardiology", "dentistry"})
	require.NoError(t, err)

	require.Len(t, gaps, 3)
	assert.Equal(t, entities.CoverageGap{Region: "tokyo", Category: "dentistry", Priority: "high"}, gaps[0])
	assert.Equal(t, entities.CoverageGap{Region: "yokohama", Category: "cardiology", Priority: "normal"}, gaps[1])
	assert.Equal(t, entities.CoverageGap{Region: "yokohama", Category: "dentistry", Priority: "normal"}, gaps[2])
}

func TestPurgeOlderThan(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	history := newFakeHistoryRepo()
	service := newTestDedupService(history, now)

	history.records = []*entities.SearchHistoryRecord{
		{ID: "old", Fingerprint: "a", SearchedAt: now.AddDate(0, 0, -120)},
		{ID: "recent", Fingerprint: "b", SearchedAt: now.AddDate(0, 0, -2)},
	}

	removed, err := service.PurgeOlderThan(context.Background(), 90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	require.Len(t, history.records, 1)
	assert.Equal(t, "recent", history.records[0].ID)
}
