package dates

import (
	"testing"
	"time"
)

// Wednesday 2026-01-14 in the middle of the month keeps week and month
// boundaries unambiguous.
var wednesday = time.Date(2026, 1, 14, 15, 0, 0, 0, time.UTC)

func TestCurrentWeek(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want Period
	}{
		{"midweek", wednesday, Period{From: "2026-01-11", To: "2026-01-17"}},
		{"sunday is week start", time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC), Period{From: "2026-01-11", To: "2026-01-17"}},
		{"saturday is week end", time.Date(2026, 1, 17, 23, 0, 0, 0, time.UTC), Period{From: "2026-01-11", To: "2026-01-17"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentWeek(tt.now); got != tt.want {
				t.Errorf("CurrentWeek(%s) = %+v, want %+v", tt.now, got, tt.want)
			}
		})
	}
}

func TestParseQueryPeriod_RangePhrases(t *testing.T) {
	tests := []struct {
		query string
		want  Period
	}{
		{"how was availability last week", Period{From: "2026-01-04", To: "2026-01-10"}},
		{"billability this week", Period{From: "2026-01-11", To: "2026-01-17"}},
		{"capacity next week", Period{From: "2026-01-18", To: "2026-01-24"}},
		{"billable hours last month", Period{From: "2025-12-01", To: "2025-12-31"}},
		{"utilization this month", Period{From: "2026-01-01", To: "2026-01-31"}},
		{"what happened yesterday", Period{From: "2026-01-13", To: "2026-01-13"}},
		{"who logged time today", Period{From: "2026-01-14", To: "2026-01-14"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := ParseQueryPeriod(tt.query, wednesday)
			if got == nil {
				t.Fatalf("ParseQueryPeriod(%q) = nil, want %+v", tt.query, tt.want)
			}
			if *got != tt.want {
				t.Errorf("ParseQueryPeriod(%q) = %+v, want %+v", tt.query, *got, tt.want)
			}
		})
	}
}

func TestParseQueryPeriod_SingleDayPhrase(t *testing.T) {
	got := ParseQueryPeriod("hours logged 2 days ago", wednesday)
	want := Period{From: "2026-01-12", To: "2026-01-12"}
	if got == nil || *got != want {
		t.Errorf("ParseQueryPeriod(2 days ago) = %+v, want %+v", got, want)
	}
}

// Dateless text must yield nil so callers fall back to the current
// week. The underlying parser reports such text as the reference time
// with no error, which must not be mistaken for a real date.
func TestParseQueryPeriod_NoDatePhrase(t *testing.T) {
	queries := []string{
		"how is the team doing",
		"who is the most billable person",
		"sync up with the team now",
		"",
	}

	for _, query := range queries {
		if got := ParseQueryPeriod(query, wednesday); got != nil {
			t.Errorf("ParseQueryPeriod(%q) = %+v, want nil", query, got)
		}
	}
}
