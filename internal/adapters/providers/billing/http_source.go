package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/carescout/discovery/internal/domain/entities"
)

const defaultHTTPTimeout = 5 * time.Second

// HTTPSource reads spend from an external billing or monitoring endpoint
// that serves a JSON spend report.
type HTTPSource struct {
	name       string
	url        string
	httpClient *http.Client
}

// NewHTTPSource creates a cost source backed by an HTTP endpoint
func NewHTTPSource(name, url string, httpClient *http.Client) *HTTPSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPSource{
		name:       name,
		url:        url,
		httpClient: httpClient,
	}
}

// Name identifies the source in logs and BudgetState.Source
func (s *HTTPSource) Name() string {
	return s.name
}

// Spend fetches the current spend report
func (s *HTTPSource) Spend(ctx context.Context) (*entities.ExternalSpend, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build spend request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("spend request returned status %d", resp.StatusCode)
	}

	var spend entities.ExternalSpend
	if err := json.NewDecoder(resp.Body).Decode(&spend); err != nil {
		return nil, fmt.Errorf("failed to decode spend response: %w", err)
	}
	return &spend, nil
}
