package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/domain/repositories"
	apperrors "github.com/carescout/discovery/pkg/errors"
	"github.com/carescout/discovery/pkg/normalize"
)

// SearchOutcome carries the stats of a completed probe into the audit trail.
type SearchOutcome struct {
	ResultsCount    int
	NewItemsFound   int
	DuplicatesFound int
	APICallsUsed    int
	ExecutionTimeMs int
	CoverageArea    string
}

// SearchDedupService decides whether a prospective search is worth paying
// for. It is a pure dedup gate over the search history; budget and cache
// concerns live elsewhere.
type SearchDedupService struct {
	history   repositories.SearchHistoryRepository
	topTier   map[string]bool
	freshness time.Duration
	now       func() time.Time
}

// NewSearchDedupService creates a new dedup service
func NewSearchDedupService(history repositories.SearchHistoryRepository, regions []entities.Region, freshnessWindow time.Duration) *SearchDedupService {
	topTier := make(map[string]bool, len(regions))
	for _, region := range regions {
		topTier[normalize.Region(region.Name)] = region.TopTier
	}
	return &SearchDedupService{
		history:   history,
		topTier:   topTier,
		freshness: freshnessWindow,
		now:       time.Now,
	}
}

// Fingerprint digests a query after normalization. Two queries that are
// semantically identical after alias collapsing produce the same value.
func (s *SearchDedupService) Fingerprint(query entities.SearchQuery) string {
	radius := ""
	if query.RadiusMeters > 0 {
		radius = strconv.Itoa(query.RadiusMeters)
	}

	keywords := make([]string, 0, len(query.Keywords))
	for _, keyword := range query.Keywords {
		cleaned := strings.ToLower(strings.TrimSpace(keyword))
		if cleaned != "" {
			keywords = append(keywords, cleaned)
		}
	}
	sort.Strings(keywords)

	canonical := strings.Join([]string{
		normalize.Region(query.Region),
		normalize.Category(query.Category),
		query.Method,
		radius,
		strings.Join(keywords, ","),
	}, "|")

	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// ShouldSearch reports whether the query should run, with a human-readable
// reason either way. It returns false only when a record with the same
// fingerprint is newer than the freshness window.
func (s *SearchDedupService) ShouldSearch(ctx context.Context, query entities.SearchQuery) (bool, string, error) {
	fingerprint := s.Fingerprint(query)

	latest, err := s.history.LatestByFingerprint(ctx, fingerprint)
	if apperrors.IsNotFound(err) {
		return true, "no prior search with this fingerprint", nil
	}
	if err != nil {
		return false, "", err
	}

	age := s.now().Sub(latest.SearchedAt)
	if age <= s.freshness {
		return false, fmt.Sprintf("fresh result exists: searched %s ago, freshness window is %s",
			age.Round(time.Minute), s.freshness), nil
	}
	return true, fmt.Sprintf("last search was %s ago, older than the %s freshness window",
		age.Round(time.Hour), s.freshness), nil
}

// RecordSearch appends one audit record and returns its fingerprint. History
// is append-only; repeated searches produce separate records.
func (s *SearchDedupService) RecordSearch(ctx context.Context, query entities.SearchQuery, outcome SearchOutcome) (string, error) {
	fingerprint := s.Fingerprint(query)

	record := &entities.SearchHistoryRecord{
		Fingerprint:     fingerprint,
		Region:          normalize.Region(query.Region),
		Category:        normalize.Category(query.Category),
		Method:          query.Method,
		RadiusMeters:    query.RadiusMeters,
		Keywords:        strings.Join(query.Keywords, ","),
		ResultsCount:    outcome.ResultsCount,
		NewItemsFound:   outcome.NewItemsFound,
		DuplicatesFound: outcome.DuplicatesFound,
		APICallsUsed:    outcome.APICallsUsed,
		ExecutionTimeMs: outcome.ExecutionTimeMs,
		CoverageArea:    outcome.CoverageArea,
		SearchedAt:      s.now(),
	}

	if err := s.history.Insert(ctx, record); err != nil {
		return "", err
	}
	return fingerprint, nil
}

// CoverageGaps returns region/category combinations without a fresh search
// record. Top-tier regions get high priority.
func (s *SearchDedupService) CoverageGaps(ctx context.Context, regions []string, categories []string) ([]entities.CoverageGap, error) {
	since := s.now().Add(-s.freshness)
	fresh, err := s.history.FreshFingerprints(ctx, since)
	if err != nil {
		return nil, err
	}

	gaps := []entities.CoverageGap{}
	for _, region := range regions {
		canonical := normalize.Region(region)
		for _, category := range categories {
			fingerprint := s.Fingerprint(entities.SearchQuery{
				Region:   canonical,
				Category: category,
				Method:   entities.SearchMethodText,
			})
			if _, ok := fresh[fingerprint]; ok {
				continue
			}
			priority := "normal"
			if s.topTier[canonical] {
				priority = "high"
			}
			gaps = append(gaps, entities.CoverageGap{
				Region:   canonical,
				Category: normalize.Category(category),
				Priority: priority,
			})
		}
	}
	return gaps, nil
}

// PurgeOlderThan removes audit records older than the given number of days
func (s *SearchDedupService) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -days)
	return s.history.DeleteOlderThan(ctx, cutoff)
}
