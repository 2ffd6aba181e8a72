package database

import (
	"context"
	"sync"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/domain/repositories"
	"github.com/carescout/discovery/internal/infrastructure/clients/postgres"
	apperrors "github.com/carescout/discovery/pkg/errors"
)

const (
	costEventsTable = "cost_events"
	rollupsTable    = "daily_cost_rollups"
)

// CostLedgerAdapter implements the CostLedgerRepository interface
type CostLedgerAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	mu     sync.Mutex
}

// NewCostLedgerAdapter creates a new cost ledger adapter
func NewCostLedgerAdapter(client *postgres.Client) repositories.CostLedgerRepository {
	return &CostLedgerAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Append inserts a cost event and increments today's rollup row
func (a *CostLedgerAdapter) Append(ctx context.Context, event *entities.CostEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	insert, args, err := a.db.Insert(costEventsTable).
		Rows(goqu.Record{
			"id":             event.ID,
			"request_class":  string(event.RequestClass),
			"unit_cost":      event.UnitCost,
			"cached":         event.Cached,
			"correlation_id": event.CorrelationID,
			"created_at":     event.CreatedAt,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build cost event insert", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, insert, args...); err != nil {
		return apperrors.NewInternalError("failed to append cost event", err)
	}

	day := event.CreatedAt.Format("2006-01-02")
	rollup, args, err := a.db.Insert(rollupsTable).
		Rows(goqu.Record{
			"day":           day,
			"request_class": string(event.RequestClass),
			"request_count": 1,
			"total_cost":    event.UnitCost,
		}).
		OnConflict(goqu.DoUpdate("day, request_class", goqu.Record{
			"request_count": goqu.L("daily_cost_rollups.request_count + 1"),
			"total_cost":    goqu.L("daily_cost_rollups.total_cost + EXCLUDED.total_cost"),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build rollup upsert", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, rollup, args...); err != nil {
		return apperrors.NewInternalError("failed to update daily rollup", err)
	}

	return nil
}

// SumSince sums non-cached event costs with created_at >= since
func (a *CostLedgerAdapter) SumSince(ctx context.Context, since time.Time) (float64, error) {
	query, args, err := a.db.Select(goqu.L("COALESCE(SUM(unit_cost), 0)")).
		From(costEventsTable).
		Where(goqu.C("created_at").Gte(since), goqu.C("cached").IsFalse()).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build spend query", err)
	}

	var total float64
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, apperrors.NewInternalError("failed to sum cost events", err)
	}
	return total, nil
}

// RollupsForDay returns the per-class rollups for one calendar day
func (a *CostLedgerAdapter) RollupsForDay(ctx context.Context, day time.Time) ([]*entities.DailyRollup, error) {
	query, args, err := a.db.Select("day", "request_class", "request_count", "total_cost").
		From(rollupsTable).
		Where(goqu.Ex{"day": day.Format("2006-01-02")}).
		Order(goqu.I("request_class").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build rollup query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read daily rollups", err)
	}
	defer rows.Close()

	var rollups []*entities.DailyRollup
	for rows.Next() {
		rollup := &entities.DailyRollup{}
		var class string
		if err := rows.Scan(&rollup.Day, &class, &rollup.RequestCount, &rollup.TotalCost); err != nil {
			return nil, apperrors.NewInternalError("failed to scan daily rollup", err)
		}
		rollup.RequestClass = entities.RequestClass(class)
		rollups = append(rollups, rollup)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read daily rollups", err)
	}

	return rollups, nil
}
