package ai

import (
	"context"

	"github.com/henrikdahl/teampulse/internal/dates"
	"github.com/henrikdahl/teampulse/internal/metrics"
)

// QueryContext is the aggregated team data handed to a provider
// alongside the user's query. Built fresh for each call, never stored.
type QueryContext struct {
	Availability  metrics.TeamAvailability `json:"availabilityData"`
	Billability   metrics.TeamBillability  `json:"billabilityData"`
	Trend         metrics.BillabilityTrend `json:"trend"`
	Projects      metrics.ProjectInsights  `json:"projectInsights"`
	Period        dates.Period             `json:"period"`
	UserDirectory map[string]string        `json:"userDirectory,omitempty"`
}

// Provider generates a free-text completion for a query and its
// context. The text is expected to be JSON, optionally wrapped in a
// markdown fence. Provider-level failures (auth, network, malformed
// envelope) propagate unmodified; converting them into the user-facing
// fallback is the pipeline's job.
type Provider interface {
	GenerateInsights(ctx context.Context, query string, queryContext QueryContext) (string, error)
}
