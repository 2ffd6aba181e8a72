package billing

import (
	"context"
	"time"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/domain/repositories"
)

// LedgerSource derives spend from the local cost ledger. It is the terminal
// source in the chain and is never considered stale.
type LedgerSource struct {
	ledger repositories.CostLedgerRepository
	now    func() time.Time
}

// NewLedgerSource creates a cost source backed by the local ledger
func NewLedgerSource(ledger repositories.CostLedgerRepository) *LedgerSource {
	return &LedgerSource{ledger: ledger, now: time.Now}
}

// Name identifies the source in logs and BudgetState.Source
func (s *LedgerSource) Name() string {
	return "local-ledger"
}

// Spend sums the ledger from the start of the current day and month
func (s *LedgerSource) Spend(ctx context.Context) (*entities.ExternalSpend, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	daily, err := s.ledger.SumSince(ctx, dayStart)
	if err != nil {
		return nil, err
	}
	monthly, err := s.ledger.SumSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	return &entities.ExternalSpend{
		DailyUSD:   daily,
		MonthlyUSD: monthly,
		AsOf:       now,
	}, nil
}
