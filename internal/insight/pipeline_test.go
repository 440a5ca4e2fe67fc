package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/henrikdahl/teampulse/internal/ai"
	"github.com/henrikdahl/teampulse/internal/dates"
	"github.com/henrikdahl/teampulse/internal/metrics"
	"github.com/henrikdahl/teampulse/internal/team"
)

type fakeTeamData struct {
	insights  *team.TeamInsights
	err       error
	gotPeriod dates.Period
}

func (f *fakeTeamData) GetTeamInsights(ctx context.Context, period dates.Period) (*team.TeamInsights, error) {
	f.gotPeriod = period
	return f.insights, f.err
}

type fakeNames struct {
	names  map[string]string
	failed []string
}

func (f *fakeNames) DisplayNames(ctx context.Context, ids []string) (map[string]string, []string) {
	return f.names, f.failed
}

type fakeProvider struct {
	completion string
	err        error
	gotContext ai.QueryContext
	called     bool
}

func (f *fakeProvider) GenerateInsights(ctx context.Context, query string, queryContext ai.QueryContext) (string, error) {
	f.called = true
	f.gotContext = queryContext
	return f.completion, f.err
}

func teamInsightsFixture() *team.TeamInsights {
	return &team.TeamInsights{
		Availability: metrics.TeamAvailability{
			UserAvailabilities: []metrics.UserAvailability{
				{UserID: "acc-1", UserName: "Alice"},
			},
		},
		Billability: metrics.TeamBillability{
			UserBillabilities: []metrics.UserBillability{
				{UserID: "acc-1", UserName: "Alice"},
				{UserID: "acc-2", UserName: "Unknown User"},
			},
		},
		Period: dates.Period{From: "2026-01-11", To: "2026-01-17"},
	}
}

func newTestPipeline(teamData *fakeTeamData, names *fakeNames, provider *fakeProvider) *Pipeline {
	p := NewPipeline(teamData, names, provider, nil)
	p.now = func() time.Time {
		return time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func assertFallback(t *testing.T, got Insight) {
	t.Helper()
	if got.Title != "Analysis Error" {
		t.Errorf("Title = %q, want Analysis Error", got.Title)
	}
	if got.Summary != "Unable to process your query at this time. Please try again." {
		t.Errorf("Summary = %q", got.Summary)
	}
	if len(got.Insights) != 3 {
		t.Errorf("Insights length = %d, want 3", len(got.Insights))
	}
	if got.Timestamp == "" {
		t.Error("fallback must still carry a timestamp")
	}
}

func TestProcessQuery(t *testing.T) {
	teamData := &fakeTeamData{insights: teamInsightsFixture()}
	names := &fakeNames{names: map[string]string{"acc-1": "Alice Example", "acc-2": "Bob Example"}}
	provider := &fakeProvider{
		completion: "```json\n{\"title\":\"Capacity\",\"summary\":\"Fine\",\"insights\":[\"a\",\"b\"],\"thoughtProcess\":\"math\",\"timestamp\":\"1999-01-01T00:00:00Z\"}\n```",
	}
	pipeline := newTestPipeline(teamData, names, provider)

	got := pipeline.ProcessQuery(context.Background(), "how available is the team this week?")

	if got.Title != "Capacity" || got.Summary != "Fine" {
		t.Errorf("unexpected report: %+v", got)
	}
	if len(got.Insights) != 2 {
		t.Errorf("Insights = %v", got.Insights)
	}
	if got.ThoughtProcess != "math" {
		t.Errorf("ThoughtProcess = %q, want math", got.ThoughtProcess)
	}
	// Whatever the provider claims, the timestamp is stamped at
	// response construction.
	if got.Timestamp != "2026-01-14T12:00:00Z" {
		t.Errorf("Timestamp = %q, want 2026-01-14T12:00:00Z", got.Timestamp)
	}
	if provider.gotContext.UserDirectory["acc-1"] != "Alice Example" {
		t.Errorf("directory = %v", provider.gotContext.UserDirectory)
	}
}

func TestProcessQuery_PeriodResolution(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  dates.Period
	}{
		{"date phrase in query", "availability last week", dates.Period{From: "2026-01-04", To: "2026-01-10"}},
		{"no date phrase defaults to current week", "availability of the team", dates.Period{From: "2026-01-11", To: "2026-01-17"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teamData := &fakeTeamData{insights: teamInsightsFixture()}
			provider := &fakeProvider{completion: `{"title":"T","summary":"S","insights":[]}`}
			pipeline := newTestPipeline(teamData, &fakeNames{}, provider)

			pipeline.ProcessQuery(context.Background(), tt.query)

			if teamData.gotPeriod != tt.want {
				t.Errorf("period = %+v, want %+v", teamData.gotPeriod, tt.want)
			}
		})
	}
}

func TestProcessQuery_DirectoryOmitsUnresolved(t *testing.T) {
	teamData := &fakeTeamData{insights: teamInsightsFixture()}
	names := &fakeNames{
		names:  map[string]string{"acc-1": "Alice Example"},
		failed: []string{"acc-2"},
	}
	provider := &fakeProvider{completion: `{"title":"T","summary":"S","insights":[]}`}
	pipeline := newTestPipeline(teamData, names, provider)

	pipeline.ProcessQuery(context.Background(), "query")

	directory := provider.gotContext.UserDirectory
	if len(directory) != 1 {
		t.Fatalf("directory = %v, want only acc-1", directory)
	}
	if _, ok := directory["acc-2"]; ok {
		t.Error("failed lookup must be omitted from the directory")
	}
}

func TestProcessQuery_NeverFails(t *testing.T) {
	tests := []struct {
		name     string
		teamData *fakeTeamData
		provider *fakeProvider
	}{
		{
			"data source fetch fails",
			&fakeTeamData{err: &team.FetchError{Source: "plans", Err: errors.New("timeout")}},
			&fakeProvider{},
		},
		{
			"provider call fails",
			&fakeTeamData{insights: teamInsightsFixture()},
			&fakeProvider{err: errors.New("auth failure")},
		},
		{
			"provider returns non-JSON",
			&fakeTeamData{insights: teamInsightsFixture()},
			&fakeProvider{completion: "I'm sorry, I can't do that"},
		},
		{
			"provider violates the contract",
			&fakeTeamData{insights: teamInsightsFixture()},
			&fakeProvider{completion: `{"summary":"missing title","insights":[]}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := newTestPipeline(tt.teamData, &fakeNames{}, tt.provider)

			got := pipeline.ProcessQuery(context.Background(), "anything")

			assertFallback(t, got)
		})
	}
}

func TestProcessQuery_FetchFailureSkipsProvider(t *testing.T) {
	provider := &fakeProvider{}
	teamData := &fakeTeamData{err: errors.New("down")}
	pipeline := newTestPipeline(teamData, &fakeNames{}, provider)

	pipeline.ProcessQuery(context.Background(), "anything")

	if provider.called {
		t.Error("provider must not be called after a fetch failure")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  QueryType
	}{
		{"show me team AVAILABILITY", QueryAvailability},
		{"sprint planning capacity", QueryAvailability},
		{"billable hours by person", QueryBillability},
		{"billability trend", QueryBillability},
		{"who worked on what", QueryCustom},
	}

	for _, tt := range tests {
		if got := Classify(tt.query); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}
