package entities

import (
	"time"
)

// RequestClass identifies a paid request class with its own unit price.
type RequestClass string

const (
	RequestClassSearch  RequestClass = "search"
	RequestClassDetails RequestClass = "details"
	RequestClassPhoto   RequestClass = "photo"
)

// CostEvent is one append-only ledger entry. Cached events carry zero cost.
type CostEvent struct {
	ID            string       `json:"id" db:"id"`
	RequestClass  RequestClass `json:"request_class" db:"request_class"`
	UnitCost      float64      `json:"unit_cost" db:"unit_cost"`
	Cached        bool         `json:"cached" db:"cached"`
	CorrelationID string       `json:"correlation_id,omitempty" db:"correlation_id"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}

// DailyRollup is the per-day, per-class aggregate maintained alongside events.
type DailyRollup struct {
	Day          time.Time    `json:"day" db:"day"`
	RequestClass RequestClass `json:"request_class" db:"request_class"`
	RequestCount int          `json:"request_count" db:"request_count"`
	TotalCost    float64      `json:"total_cost" db:"total_cost"`
}

// BudgetState is derived on demand, never stored.
type BudgetState struct {
	DailySpent   float64 `json:"daily_spent"`
	DailyLimit   float64 `json:"daily_limit"`
	MonthlySpent float64 `json:"monthly_spent"`
	MonthlyLimit float64 `json:"monthly_limit"`
	Source       string  `json:"source"`
}

// ExternalSpend is a spend report from an authoritative external cost source.
type ExternalSpend struct {
	DailyUSD   float64   `json:"daily_usd"`
	MonthlyUSD float64   `json:"monthly_usd"`
	AsOf       time.Time `json:"as_of"`
}
