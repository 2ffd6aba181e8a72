package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/domain/repositories"
	apperrors "github.com/carescout/discovery/pkg/errors"
)

// SearchHistoryAdapter implements the SearchHistoryRepository interface
type SearchHistoryAdapter struct {
	db *sqlx.DB
	mu sync.Mutex
}

// NewSearchHistoryAdapter creates a new search history adapter
func NewSearchHistoryAdapter(db *sqlx.DB) repositories.SearchHistoryRepository {
	return &SearchHistoryAdapter{db: db}
}

// Insert appends a history record; history is never upserted
func (a *SearchHistoryAdapter) Insert(ctx context.Context, record *entities.SearchHistoryRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.SearchedAt.IsZero() {
		record.SearchedAt = time.Now()
	}

	query := `
		INSERT INTO search_history
		(id, fingerprint, region, category, method, radius_meters, keywords,
		 results_count, new_items_found, duplicates_found, api_calls_used,
		 execution_time_ms, coverage_area, searched_at)
		VALUES (:id, :fingerprint, :region, :category, :method, :radius_meters, :keywords,
		 :results_count, :new_items_found, :duplicates_found, :api_calls_used,
		 :execution_time_ms, :coverage_area, :searched_at)
	`

	if _, err := a.db.NamedExecContext(ctx, query, record); err != nil {
		return apperrors.NewInternalError("failed to insert search history record", err)
	}
	return nil
}

// LatestByFingerprint returns the newest record for a fingerprint
func (a *SearchHistoryAdapter) LatestByFingerprint(ctx context.Context, fingerprint string) (*entities.SearchHistoryRecord, error) {
	query := `
		SELECT id, fingerprint, region, category, method, radius_meters, keywords,
		       results_count, new_items_found, duplicates_found, api_calls_used,
		       execution_time_ms, coverage_area, searched_at
		FROM search_history
		WHERE fingerprint = $1
		ORDER BY searched_at DESC
		LIMIT 1
	`

	record := &entities.SearchHistoryRecord{}
	err := a.db.GetContext(ctx, record, query, fingerprint)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no search history for fingerprint %s", fingerprint))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read search history", err)
	}
	return record, nil
}

// FreshFingerprints returns the set of fingerprints searched at or after since
func (a *SearchHistoryAdapter) FreshFingerprints(ctx context.Context, since time.Time) (map[string]struct{}, error) {
	query := `SELECT DISTINCT fingerprint FROM search_history WHERE searched_at >= $1`

	var fingerprints []string
	if err := a.db.SelectContext(ctx, &fingerprints, query, since); err != nil {
		return nil, apperrors.NewInternalError("failed to read fresh fingerprints", err)
	}

	fresh := make(map[string]struct{}, len(fingerprints))
	for _, fp := range fingerprints {
		fresh[fp] = struct{}{}
	}
	return fresh, nil
}

// DeleteOlderThan removes records older than the cutoff and returns the count
func (a *SearchHistoryAdapter) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	result, err := a.db.ExecContext(ctx, `DELETE FROM search_history WHERE searched_at < $1`, cutoff)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to purge search history", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to get rows affected", err)
	}
	return removed, nil
}
