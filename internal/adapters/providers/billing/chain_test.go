package billing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carescout/discovery/internal/domain/entities"
)

type stubSource struct {
	name  string
	spend *entities.ExternalSpend
	err   error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Spend(ctx context.Context) (*entities.ExternalSpend, error) {
	return s.spend, s.err
}

func TestChain_FirstHealthySourceWins(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	chain := NewChain(6*time.Hour,
		&stubSource{name: "billing", spend: &entities.ExternalSpend{DailyUSD: 0.64, MonthlyUSD: 12.5, AsOf: now.Add(-time.Hour)}},
		&stubSource{name: "monitoring", spend: &entities.ExternalSpend{DailyUSD: 0.99, AsOf: now}},
	)
	chain.now = func() time.Time { return now }

	spend, source, err := chain.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "billing", source)
	assert.InDelta(t, 0.64, spend.DailyUSD, 1e-9)
}

func TestChain_FallsThroughOnErrorAndStaleness(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	chain := NewChain(6*time.Hour,
		&stubSource{name: "billing", err: errors.New("billing api down")},
		&stubSource{name: "monitoring", spend: &entities.ExternalSpend{DailyUSD: 0.2, AsOf: now.Add(-12 * time.Hour)}},
		&stubSource{name: "local-ledger", spend: &entities.ExternalSpend{DailyUSD: 0.48, MonthlyUSD: 3.1, AsOf: now}},
	)
	chain.now = func() time.Time { return now }

	spend, source, err := chain.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local-ledger", source)
	assert.InDelta(t, 0.48, spend.DailyUSD, 1e-9)
}

func TestChain_AllSourcesFail(t *testing.T) {
	chain := NewChain(6*time.Hour,
		&stubSource{name: "billing", err: errors.New("billing api down")},
		&stubSource{name: "monitoring", err: errors.New("monitoring api down")},
	)

	_, _, err := chain.Resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all cost sources failed")
}

func TestHTTPSource_Spend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"daily_usd": 0.73, "monthly_usd": 14.2, "as_of": "2025-06-01T11:30:00Z"}`))
	}))
	defer server.Close()

	source := NewHTTPSource("billing", server.URL, server.Client())

	spend, err := source.Spend(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.73, spend.DailyUSD, 1e-9)
	assert.InDelta(t, 14.2, spend.MonthlyUSD, 1e-9)
	assert.Equal(t, time.Date(2025, 6, 1, 11, 30, 0, 0, time.UTC), spend.AsOf)
}

func TestHTTPSource_Spend_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	source := NewHTTPSource("billing", server.URL, server.Client())

	_, err := source.Spend(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
