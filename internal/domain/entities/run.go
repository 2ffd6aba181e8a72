package entities

// RunStatus is the terminal state of a discovery run.
type RunStatus string

const (
	// RunStatusComplete means every planned probe was attempted.
	RunStatusComplete RunStatus = "COMPLETE"

	// RunStatusThrottled means the run stopped early. This is a graceful
	// partial completion, not a failure; collected results are kept.
	RunStatusThrottled RunStatus = "THROTTLED"
)

// RunSummary reports the outcome of one discovery run.
type RunSummary struct {
	Region               string    `json:"region"`
	Status               RunStatus `json:"status"`
	ProbesPlanned        int       `json:"probes_planned"`
	ProbesRun            int       `json:"probes_run"`
	ProbesSkippedDeduped int       `json:"probes_skipped_deduped"`
	ProbesFailed         int       `json:"probes_failed"`
	ProbesRemaining      int       `json:"probes_remaining"`
	CacheHits            int       `json:"cache_hits"`
	NewItems             int       `json:"new_items"`
	CostSpentUSD         float64   `json:"cost_spent_usd"`
	StopReason           string    `json:"stop_reason,omitempty"`
}
