package providers

import (
	"context"

	"github.com/carescout/discovery/internal/domain/entities"
)

// CostSource reports authoritative spend from an external billing or
// monitoring system. Sources are consulted in an ordered chain; the first
// one returning a non-stale report wins, and any failure falls through to
// the next source (and finally to the local ledger estimate).
type CostSource interface {
	// Name identifies the source in logs and BudgetState.Source
	Name() string

	// Spend returns the current daily and monthly spend
	Spend(ctx context.Context) (*entities.ExternalSpend, error)
}
