package metrics

import (
	"math"
	"sort"

	"github.com/henrikdahl/teampulse/internal/tempo"
)

const (
	unknownProjectKey  = "Unknown"
	unknownProjectName = "Unknown Project"
)

// ProjectBreakdownItem is one project's share of the period's logged
// time. PercentageOfTotal is rounded to a whole number while the hour
// fields keep two decimals; consumers rely on both shapes.
type ProjectBreakdownItem struct {
	ProjectKey        string  `json:"projectKey"`
	ProjectName       string  `json:"projectName"`
	TotalHours        float64 `json:"totalHours"`
	BillableHours     float64 `json:"billableHours"`
	PercentageOfTotal int     `json:"percentageOfTotal"`
}

// ProjectInsights ranks how the team's time was allocated across
// projects. TopProjects is the breakdown sorted by total hours
// descending, truncated to five, with ties kept in insertion order.
type ProjectInsights struct {
	TotalProjects    int                    `json:"totalProjects"`
	ProjectBreakdown []ProjectBreakdownItem `json:"projectBreakdown"`
	TopProjects      []ProjectBreakdownItem `json:"topProjects"`
}

type projectStats struct {
	projectKey      string
	projectName     string
	totalSeconds    int
	billableSeconds int
}

// GenerateProjectInsights groups enriched worklogs by project key.
// Records that enrichment could not resolve group under the Unknown
// placeholder; that placeholder is applied here and nowhere earlier.
func GenerateProjectInsights(worklogs []tempo.Worklog) ProjectInsights {
	stats := make(map[string]*projectStats)
	var order []string
	var totalSeconds int

	for _, worklog := range worklogs {
		key := worklog.ProjectKey
		name := worklog.ProjectName
		if key == "" {
			key = unknownProjectKey
			name = unknownProjectName
		}

		entry, ok := stats[key]
		if !ok {
			entry = &projectStats{projectKey: key, projectName: name}
			stats[key] = entry
			order = append(order, key)
		}
		entry.totalSeconds += worklog.TimeSpentSeconds
		entry.billableSeconds += worklog.BillableSeconds
		totalSeconds += worklog.TimeSpentSeconds
	}

	totalHours := float64(totalSeconds) / 3600

	breakdown := make([]ProjectBreakdownItem, 0, len(order))
	for _, key := range order {
		entry := stats[key]
		pct := 0
		if totalHours > 0 {
			pct = int(math.Round(float64(entry.totalSeconds) / 3600 / totalHours * 100))
		}
		breakdown = append(breakdown, ProjectBreakdownItem{
			ProjectKey:        entry.projectKey,
			ProjectName:       entry.projectName,
			TotalHours:        SecondsToHours(entry.totalSeconds),
			BillableHours:     SecondsToHours(entry.billableSeconds),
			PercentageOfTotal: pct,
		})
	}

	return ProjectInsights{
		TotalProjects:    len(breakdown),
		ProjectBreakdown: breakdown,
		TopProjects:      topProjects(breakdown),
	}
}

func topProjects(breakdown []ProjectBreakdownItem) []ProjectBreakdownItem {
	top := make([]ProjectBreakdownItem, len(breakdown))
	copy(top, breakdown)

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalHours > top[j].TotalHours
	})

	if len(top) > 5 {
		top = top[:5]
	}
	return top
}
