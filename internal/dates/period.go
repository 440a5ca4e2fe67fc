// Package dates resolves the target period of a natural-language
// query. Finding no date phrase is a normal outcome, signaled by a nil
// period, and callers fall back to the current calendar week.
package dates

import (
	"strings"
	"time"

	naturaldate "github.com/tj/go-naturaldate"
)

const dateLayout = "2006-01-02"

// Period is an inclusive date range in YYYY-MM-DD form.
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CurrentWeek returns the calendar week containing now, Sunday through
// Saturday, in UTC date terms.
func CurrentWeek(now time.Time) Period {
	now = now.UTC()
	weekStart := now.AddDate(0, 0, -int(now.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)
	return Period{
		From: weekStart.Format(dateLayout),
		To:   weekEnd.Format(dateLayout),
	}
}

// rangePhrases are tried before single-date parsing, since the
// underlying parser resolves phrases like "last week" to an instant
// rather than a span.
var rangePhrases = []struct {
	phrase string
	expand func(now time.Time) Period
}{
	{"last week", func(now time.Time) Period { return weekOf(now.AddDate(0, 0, -7)) }},
	{"this week", weekOf},
	{"next week", func(now time.Time) Period { return weekOf(now.AddDate(0, 0, 7)) }},
	{"last month", func(now time.Time) Period { return monthOf(now.AddDate(0, -1, 0)) }},
	{"this month", monthOf},
	{"yesterday", func(now time.Time) Period { return dayOf(now.AddDate(0, 0, -1)) }},
	{"today", dayOf},
}

// ParseQueryPeriod extracts a date range from free text. It returns
// nil, not an error, when the text contains nothing date-like.
func ParseQueryPeriod(query string, now time.Time) *Period {
	now = now.UTC()
	lower := strings.ToLower(query)

	for _, rp := range rangePhrases {
		if strings.Contains(lower, rp.phrase) {
			period := rp.expand(now)
			return &period
		}
	}

	parsed, err := naturaldate.Parse(query, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return nil
	}
	// Parse hands back the reference time unchanged when the text holds
	// no date expression. Phrases that genuinely resolve to now are
	// matched by rangePhrases above, so an unchanged result means no
	// date was found.
	if parsed.Equal(now) {
		return nil
	}
	period := dayOf(parsed.UTC())
	return &period
}

func weekOf(t time.Time) Period {
	start := t.AddDate(0, 0, -int(t.Weekday()))
	return Period{
		From: start.Format(dateLayout),
		To:   start.AddDate(0, 0, 6).Format(dateLayout),
	}
}

func monthOf(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{
		From: start.Format(dateLayout),
		To:   start.AddDate(0, 1, -1).Format(dateLayout),
	}
}

func dayOf(t time.Time) Period {
	day := t.Format(dateLayout)
	return Period{From: day, To: day}
}
