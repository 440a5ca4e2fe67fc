// Package team composes planned and logged time for a period into
// availability, billability, trend, and project metrics.
package team

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/henrikdahl/teampulse/internal/dates"
	"github.com/henrikdahl/teampulse/internal/metrics"
	"github.com/henrikdahl/teampulse/internal/tempo"
)

// Source provides the planned and logged records for a period.
type Source interface {
	Plans(ctx context.Context, from, to string) ([]tempo.Plan, error)
	Worklogs(ctx context.Context, from, to string) ([]tempo.Worklog, error)
}

// Enricher attaches project identity to raw worklogs.
type Enricher interface {
	Enrich(ctx context.Context, worklogs []tempo.Worklog) []tempo.Worklog
}

// FetchError means one of the paired source fetches failed. It is
// never swallowed into zeroed metrics; callers decide how to degrade.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch source data (%s): %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// TeamInsights is the full aggregate for a period.
type TeamInsights struct {
	Availability metrics.TeamAvailability `json:"availability"`
	Billability  metrics.TeamBillability  `json:"billability"`
	Trend        metrics.BillabilityTrend `json:"trend"`
	Projects     metrics.ProjectInsights  `json:"projects"`
	Worklogs     []tempo.Worklog          `json:"worklogs"`
	Period       dates.Period             `json:"period"`
}

// UserInsights is the single-user aggregate for a period.
type UserInsights struct {
	Availability metrics.UserAvailability `json:"availability"`
	Billability  metrics.UserBillability  `json:"billability"`
	Tickets      []metrics.TicketWork     `json:"tickets"`
	Period       dates.Period             `json:"period"`
}

// Service orchestrates fetching, enrichment, and aggregation.
type Service struct {
	source           Source
	enricher         Enricher
	idealBillability float64
	logger           *slog.Logger
}

func NewService(source Source, enricher Enricher, idealBillability float64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		source:           source,
		enricher:         enricher,
		idealBillability: idealBillability,
		logger:           logger,
	}
}

// GetTeamInsights fetches both record collections for the period,
// enriches the worklogs, and runs every aggregator over the result.
func (s *Service) GetTeamInsights(ctx context.Context, period dates.Period) (*TeamInsights, error) {
	data, err := s.fetchData(ctx, period)
	if err != nil {
		return nil, err
	}

	return &TeamInsights{
		Availability: metrics.CalculateTeamAvailability(data),
		Billability:  metrics.CalculateTeamBillability(data.Worklogs),
		Trend:        metrics.AnalyzeBillabilityTrend(data.Worklogs, s.idealBillability),
		Projects:     metrics.GenerateProjectInsights(data.Worklogs),
		Worklogs:     data.Worklogs,
		Period:       period,
	}, nil
}

// GetUserInsights fetches the same data and narrows the aggregation to
// one user.
func (s *Service) GetUserInsights(ctx context.Context, userID string, period dates.Period) (*UserInsights, error) {
	data, err := s.fetchData(ctx, period)
	if err != nil {
		return nil, err
	}

	return &UserInsights{
		Availability: metrics.CalculateUserAvailability(userID, data),
		Billability:  metrics.CalculateUserBillability(userID, data.Worklogs),
		Tickets:      metrics.UserTicketWork(userID, data.Worklogs),
		Period:       period,
	}, nil
}

// fetchData issues the plan and worklog fetches concurrently. The
// first failure cancels the sibling fetch and surfaces as a FetchError
// wrapping the cause.
func (s *Service) fetchData(ctx context.Context, period dates.Period) (metrics.TeamData, error) {
	g, ctx := errgroup.WithContext(ctx)

	var plans []tempo.Plan
	var worklogs []tempo.Worklog

	g.Go(func() error {
		var err error
		plans, err = s.source.Plans(ctx, period.From, period.To)
		if err != nil {
			return &FetchError{Source: "plans", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		worklogs, err = s.source.Worklogs(ctx, period.From, period.To)
		if err != nil {
			return &FetchError{Source: "worklogs", Err: err}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("source data fetch failed", "from", period.From, "to", period.To, "error", err)
		return metrics.TeamData{}, err
	}

	s.logger.Debug("fetched source data", "from", period.From, "to", period.To, "plans", len(plans), "worklogs", len(worklogs))

	return metrics.TeamData{
		Plans:    plans,
		Worklogs: s.enricher.Enrich(ctx, worklogs),
	}, nil
}
