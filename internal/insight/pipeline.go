// Package insight turns a natural-language query into an insight
// report by aggregating team data and dispatching to an AI provider.
// Its only externally observable failure mode is a generic fallback
// report; callers never see the distinction between a data-source
// outage, a provider error, or a malformed completion.
package insight

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/henrikdahl/teampulse/internal/ai"
	"github.com/henrikdahl/teampulse/internal/dates"
	"github.com/henrikdahl/teampulse/internal/team"
)

// Insight is the stable output contract consumed by every surface.
type Insight struct {
	Title          string   `json:"title"`
	Summary        string   `json:"summary"`
	Insights       []string `json:"insights"`
	Timestamp      string   `json:"timestamp"`
	ThoughtProcess string   `json:"thoughtProcess,omitempty"`
}

// TeamData provides the aggregated team metrics for a period.
type TeamData interface {
	GetTeamInsights(ctx context.Context, period dates.Period) (*team.TeamInsights, error)
}

// NameResolver resolves account ids to display names; unresolved ids
// come back in the second value.
type NameResolver interface {
	DisplayNames(ctx context.Context, ids []string) (map[string]string, []string)
}

// Pipeline wires period resolution, team aggregation, and the AI
// provider into ProcessQuery.
type Pipeline struct {
	teamData TeamData
	names    NameResolver
	provider ai.Provider
	logger   *slog.Logger
	now      func() time.Time
}

func NewPipeline(teamData TeamData, names NameResolver, provider ai.Provider, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		teamData: teamData,
		names:    names,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// ProcessQuery never fails outward: every error along the way degrades
// into the fixed fallback insight, with the cause logged for
// observability.
func (p *Pipeline) ProcessQuery(ctx context.Context, query string) Insight {
	requestID := uuid.NewString()
	logger := p.logger.With("request_id", requestID)

	logger.Debug("processing query", "query_type", Classify(query), "query_len", len(query))

	period := p.resolvePeriod(query)

	teamInsights, err := p.teamData.GetTeamInsights(ctx, period)
	if err != nil {
		logger.Error("team data aggregation failed", "from", period.From, "to", period.To, "error", err)
		return p.fallback()
	}

	queryContext := ai.QueryContext{
		Availability:  teamInsights.Availability,
		Billability:   teamInsights.Billability,
		Trend:         teamInsights.Trend,
		Projects:      teamInsights.Projects,
		Period:        teamInsights.Period,
		UserDirectory: p.buildUserDirectory(ctx, teamInsights),
	}

	completion, err := p.provider.GenerateInsights(ctx, query, queryContext)
	if err != nil {
		logger.Error("AI provider call failed", "error", err)
		return p.fallback()
	}

	response, err := ai.ParseResponse(completion)
	if err != nil {
		logger.Error("AI response rejected", "error", err)
		return p.fallback()
	}

	logger.Debug("query processed", "insights", len(response.Insights))

	return Insight{
		Title:          response.Title,
		Summary:        response.Summary,
		Insights:       response.Insights,
		Timestamp:      p.timestamp(),
		ThoughtProcess: response.ThoughtProcess,
	}
}

// resolvePeriod uses a date phrase from the query when one exists,
// otherwise the current calendar week.
func (p *Pipeline) resolvePeriod(query string) dates.Period {
	if period := dates.ParseQueryPeriod(query, p.now()); period != nil {
		return *period
	}
	return dates.CurrentWeek(p.now())
}

// buildUserDirectory resolves every distinct identifier appearing in
// the availability and billability breakdowns. Ids that fail to
// resolve, or resolve to an empty name, are omitted; the provider is
// instructed to render omitted ids as "Unknown User".
func (p *Pipeline) buildUserDirectory(ctx context.Context, teamInsights *team.TeamInsights) map[string]string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for _, ua := range teamInsights.Availability.UserAvailabilities {
		add(ua.UserID)
	}
	for _, ub := range teamInsights.Billability.UserBillabilities {
		add(ub.UserID)
	}
	if len(ids) == 0 {
		return nil
	}

	names, failed := p.names.DisplayNames(ctx, ids)
	if len(failed) > 0 {
		p.logger.Warn("some user lookups failed, omitting from directory", "failed", failed)
	}

	directory := make(map[string]string, len(names))
	for id, name := range names {
		if name == "" {
			continue
		}
		directory[id] = name
	}
	return directory
}

func (p *Pipeline) timestamp() string {
	return p.now().UTC().Format(time.RFC3339)
}

// fallback is the fixed degraded report; its wording is part of the
// external contract.
func (p *Pipeline) fallback() Insight {
	return Insight{
		Title:   "Analysis Error",
		Summary: "Unable to process your query at this time. Please try again.",
		Insights: []string{
			"The AI service encountered an error while processing your request",
			"Please check your query and try again",
			"Contact support if the issue persists",
		},
		Timestamp: p.timestamp(),
	}
}
