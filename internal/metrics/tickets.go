package metrics

import (
	"sort"

	"github.com/henrikdahl/teampulse/internal/tempo"
	"github.com/henrikdahl/teampulse/internal/worklog"
)

// TicketWork is time logged against a single issue.
type TicketWork struct {
	IssueKey      string  `json:"issueKey"`
	Hours         float64 `json:"hours"`
	BillableHours float64 `json:"billableHours"`
}

// ProjectTicketBreakdown lists a project's tickets by time spent.
type ProjectTicketBreakdown struct {
	ProjectKey  string       `json:"projectKey"`
	ProjectName string       `json:"projectName"`
	Tickets     []TicketWork `json:"tickets"`
}

const unknownIssueKey = "UNKNOWN"

// issueKeyFor prefers the worklog's issue reference, then the key
// parsed from its description.
func issueKeyFor(w tempo.Worklog) string {
	if w.Issue != nil && w.Issue.Key != "" {
		return w.Issue.Key
	}
	if parsed := worklog.ParseDescription(w.Description); parsed.IssueKey != "" {
		return parsed.IssueKey
	}
	return unknownIssueKey
}

// GenerateTicketBreakdown groups enriched worklogs by project and then
// by ticket, with each project's tickets sorted by hours descending.
func GenerateTicketBreakdown(worklogs []tempo.Worklog) []ProjectTicketBreakdown {
	type projectTickets struct {
		projectKey  string
		projectName string
		order       []string
		seconds     map[string]*[2]int // issue key -> {total, billable}
	}

	projects := make(map[string]*projectTickets)
	var order []string

	for _, w := range worklogs {
		key := w.ProjectKey
		name := w.ProjectName
		if key == "" {
			key = unknownProjectKey
			name = unknownProjectName
		}

		entry, ok := projects[key]
		if !ok {
			entry = &projectTickets{
				projectKey:  key,
				projectName: name,
				seconds:     make(map[string]*[2]int),
			}
			projects[key] = entry
			order = append(order, key)
		}

		issueKey := issueKeyFor(w)
		totals, ok := entry.seconds[issueKey]
		if !ok {
			totals = &[2]int{}
			entry.seconds[issueKey] = totals
			entry.order = append(entry.order, issueKey)
		}
		totals[0] += w.TimeSpentSeconds
		totals[1] += w.BillableSeconds
	}

	breakdown := make([]ProjectTicketBreakdown, 0, len(order))
	for _, key := range order {
		entry := projects[key]
		tickets := make([]TicketWork, 0, len(entry.order))
		for _, issueKey := range entry.order {
			totals := entry.seconds[issueKey]
			tickets = append(tickets, TicketWork{
				IssueKey:      issueKey,
				Hours:         SecondsToHours(totals[0]),
				BillableHours: SecondsToHours(totals[1]),
			})
		}
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].Hours > tickets[j].Hours
		})
		breakdown = append(breakdown, ProjectTicketBreakdown{
			ProjectKey:  entry.projectKey,
			ProjectName: entry.projectName,
			Tickets:     tickets,
		})
	}
	return breakdown
}

// UserTicketWork lists the tickets one user logged time against,
// sorted by hours descending.
func UserTicketWork(userID string, worklogs []tempo.Worklog) []TicketWork {
	seconds := make(map[string]*[2]int)
	var order []string

	for _, w := range worklogs {
		if !w.Author.Matches(userID) {
			continue
		}
		issueKey := issueKeyFor(w)
		totals, ok := seconds[issueKey]
		if !ok {
			totals = &[2]int{}
			seconds[issueKey] = totals
			order = append(order, issueKey)
		}
		totals[0] += w.TimeSpentSeconds
		totals[1] += w.BillableSeconds
	}

	tickets := make([]TicketWork, 0, len(order))
	for _, issueKey := range order {
		totals := seconds[issueKey]
		tickets = append(tickets, TicketWork{
			IssueKey:      issueKey,
			Hours:         SecondsToHours(totals[0]),
			BillableHours: SecondsToHours(totals[1]),
		})
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].Hours > tickets[j].Hours
	})
	return tickets
}
