package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/domain/providers"
	"github.com/carescout/discovery/internal/infrastructure/observability"
)

// Chain consults cost sources in order and returns the first usable report.
// A report is usable when the source succeeds and the report is not stale.
// The local ledger should be the last source so the chain degrades to the
// local estimate instead of failing open.
type Chain struct {
	sources    []providers.CostSource
	staleAfter time.Duration
	now        func() time.Time
}

// NewChain creates an ordered cost source chain
func NewChain(staleAfter time.Duration, sources ...providers.CostSource) *Chain {
	return &Chain{
		sources:    sources,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Resolve returns the first non-stale spend report and the source name
func (c *Chain) Resolve(ctx context.Context) (*entities.ExternalSpend, string, error) {
	logger := observability.LoggerFromContext(ctx)

	var lastErr error
	for _, source := range c.sources {
		spend, err := source.Spend(ctx)
		if err != nil {
			logger.Warn().Err(err).Str("source", source.Name()).Msg("cost source failed, trying next")
			lastErr = err
			continue
		}
		if c.staleAfter > 0 && !spend.AsOf.IsZero() && c.now().Sub(spend.AsOf) > c.staleAfter {
			logger.Warn().
				Str("source", source.Name()).
				Time("as_of", spend.AsOf).
				Msg("cost source report is stale, trying next")
			lastErr = fmt.Errorf("source %s report is stale", source.Name())
			continue
		}
		return spend, source.Name(), nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no cost sources configured")
	}
	return nil, "", fmt.Errorf("all cost sources failed: %w", lastErr)
}
