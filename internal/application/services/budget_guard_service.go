package services

import (
	"context"
	"fmt"
	"time"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/domain/repositories"
	"github.com/carescout/discovery/internal/infrastructure/observability"
	"github.com/carescout/discovery/pkg/config"
)

// SpendResolver reports current spend from the best available source.
// The billing chain satisfies this; tests inject stubs.
type SpendResolver interface {
	Resolve(ctx context.Context) (*entities.ExternalSpend, string, error)
}

// BudgetGuardService gates every paid request against daily and monthly
// spend limits. Spend is computed calendar-day-to-date and
// calendar-month-to-date, preferring an external cost source and silently
// degrading to the local ledger estimate.
type BudgetGuardService struct {
	ledger   repositories.CostLedgerRepository
	resolver SpendResolver
	prices   map[entities.RequestClass]float64
	daily    float64
	monthly  float64
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewBudgetGuardService creates a new budget guard
func NewBudgetGuardService(ledger repositories.CostLedgerRepository, resolver SpendResolver, cfg *config.BudgetConfig, metrics *observability.Metrics) *BudgetGuardService {
	return &BudgetGuardService{
		ledger:   ledger,
		resolver: resolver,
		prices: map[entities.RequestClass]float64{
			entities.RequestClassSearch:  cfg.SearchPriceUSD,
			entities.RequestClassDetails: cfg.DetailsPriceUSD,
			entities.RequestClassPhoto:   cfg.PhotoPriceUSD,
		},
		daily:   cfg.DailyLimitUSD,
		monthly: cfg.MonthlyLimitUSD,
		metrics: metrics,
		now:     time.Now,
	}
}

// UnitPrice returns the configured price for a request class
func (s *BudgetGuardService) UnitPrice(class entities.RequestClass) (float64, error) {
	price, ok := s.prices[class]
	if !ok {
		return 0, fmt.Errorf("unknown request class: %s", class)
	}
	return price, nil
}

// CanProceed reports whether count requests of the given class fit within
// both limits. The reason names the remaining budget either way.
func (s *BudgetGuardService) CanProceed(ctx context.Context, class entities.RequestClass, count int) (bool, string, error) {
	price, err := s.UnitPrice(class)
	if err != nil {
		return false, "", err
	}
	estimated := price * float64(count)

	state, err := s.State(ctx)
	if err != nil {
		return false, "", err
	}

	if state.DailySpent+estimated > s.daily {
		observability.RecordBudgetDenial(ctx, s.metrics, string(class))
		return false, fmt.Sprintf("daily budget exceeded: $%.3f spent of $%.2f, $%.3f remaining, request needs $%.3f",
			state.DailySpent, s.daily, s.daily-state.DailySpent, estimated), nil
	}
	if state.MonthlySpent+estimated > s.monthly {
		observability.RecordBudgetDenial(ctx, s.metrics, string(class))
		return false, fmt.Sprintf("monthly budget exceeded: $%.3f spent of $%.2f, $%.3f remaining, request needs $%.3f",
			state.MonthlySpent, s.monthly, s.monthly-state.MonthlySpent, estimated), nil
	}

	return true, fmt.Sprintf("within budget: $%.3f of $%.2f daily remaining",
		s.daily-state.DailySpent-estimated, s.daily), nil
}

// LogRequest appends one cost event to the ledger. Cached requests are
// recorded at zero cost so the audit trail stays complete.
func (s *BudgetGuardService) LogRequest(ctx context.Context, class entities.RequestClass, cached bool, correlationID string) error {
	price, err := s.UnitPrice(class)
	if err != nil {
		return err
	}
	if cached {
		price = 0
	}

	return s.ledger.Append(ctx, &entities.CostEvent{
		RequestClass:  class,
		UnitCost:      price,
		Cached:        cached,
		CorrelationID: correlationID,
		CreatedAt:     s.now(),
	})
}

// State derives the current budget state on demand
func (s *BudgetGuardService) State(ctx context.Context) (*entities.BudgetState, error) {
	daily, monthly, source, err := s.spend(ctx)
	if err != nil {
		return nil, err
	}
	return &entities.BudgetState{
		DailySpent:   daily,
		DailyLimit:   s.daily,
		MonthlySpent: monthly,
		MonthlyLimit: s.monthly,
		Source:       source,
	}, nil
}

// spend prefers the resolver chain; any resolver failure degrades to the
// local ledger estimate instead of blocking the run.
func (s *BudgetGuardService) spend(ctx context.Context) (float64, float64, string, error) {
	if s.resolver != nil {
		if spend, source, err := s.resolver.Resolve(ctx); err == nil {
			return spend.DailyUSD, spend.MonthlyUSD, source, nil
		} else {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Msg("spend resolver failed, falling back to local ledger")
		}
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	daily, err := s.ledger.SumSince(ctx, dayStart)
	if err != nil {
		return 0, 0, "", err
	}
	monthly, err := s.ledger.SumSince(ctx, monthStart)
	if err != nil {
		return 0, 0, "", err
	}
	return daily, monthly, "local-ledger", nil
}
