package repositories

import (
	"context"
	"time"

	"github.com/carescout/discovery/internal/domain/entities"
)

// CostLedgerRepository defines the append-only cost event store plus its
// daily rollups.
type CostLedgerRepository interface {
	// Append inserts a cost event and increments today's rollup row
	Append(ctx context.Context, event *entities.CostEvent) error

	// SumSince sums non-cached event costs with created_at >= since
	SumSince(ctx context.Context, since time.Time) (float64, error)

	// RollupsForDay returns the per-class rollups for one calendar day
	RollupsForDay(ctx context.Context, day time.Time) ([]*entities.DailyRollup, error)
}
