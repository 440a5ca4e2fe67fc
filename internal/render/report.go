// Package render formats insight and team reports for terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/henrikdahl/teampulse/internal/insight"
	"github.com/henrikdahl/teampulse/internal/team"
)

// Insight renders an AI insight report.
func Insight(report insight.Insight) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(report.Title))
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(report.Summary))
	b.WriteString("\n")

	for _, line := range report.Insights {
		fmt.Fprintf(&b, "  • %s\n", line)
	}

	if report.ThoughtProcess != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Reasoning: " + report.ThoughtProcess))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(report.Timestamp))
	b.WriteString("\n")
	return b.String()
}

// TeamInsights renders the availability/billability aggregate.
func TeamInsights(insights *team.TeamInsights) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("Team report %s – %s", insights.Period.From, insights.Period.To)))

	fmt.Fprintf(&b, "\n%s\n", headerStyle.Render("Availability"))
	fmt.Fprintf(&b, "  planned %.2fh, actual %.2fh (%.2f%%)\n",
		insights.Availability.TotalPlannedHours,
		insights.Availability.TotalActualHours,
		insights.Availability.TeamAvailabilityPercentage)
	for _, ua := range insights.Availability.UserAvailabilities {
		fmt.Fprintf(&b, "  %-24s planned %6.2fh  actual %6.2fh  %6.2f%%\n",
			ua.UserName, ua.PlannedHours, ua.ActualHours, ua.AvailabilityPercentage)
	}

	fmt.Fprintf(&b, "\n%s\n", headerStyle.Render("Billability"))
	fmt.Fprintf(&b, "  total %.2fh, billable %.2fh (%.2f%%)\n",
		insights.Billability.TotalHours,
		insights.Billability.BillableHours,
		insights.Billability.TeamBillabilityPercentage)
	for _, ub := range insights.Billability.UserBillabilities {
		fmt.Fprintf(&b, "  %-24s total %6.2fh  billable %6.2fh  %6.2f%%\n",
			ub.UserName, ub.TotalHours, ub.BillableHours, ub.BillabilityPercentage)
	}

	b.WriteString("\n")
	b.WriteString(trendLine(insights))
	b.WriteString("\n")

	if len(insights.Projects.TopProjects) > 0 {
		fmt.Fprintf(&b, "\n%s\n", headerStyle.Render("Top projects"))
		for _, p := range insights.Projects.TopProjects {
			fmt.Fprintf(&b, "  %-24s %6.2fh (%d%%)\n", p.ProjectName, p.TotalHours, p.PercentageOfTotal)
		}
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

// UserInsights renders a single user's aggregate.
func UserInsights(insights *team.UserInsights) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%s, %s – %s",
		insights.Availability.UserName, insights.Period.From, insights.Period.To)))
	fmt.Fprintf(&b, "  planned %.2fh, actual %.2fh (%.2f%% availability)\n",
		insights.Availability.PlannedHours,
		insights.Availability.ActualHours,
		insights.Availability.AvailabilityPercentage)
	fmt.Fprintf(&b, "  billable %.2fh of %.2fh (%.2f%%)\n",
		insights.Billability.BillableHours,
		insights.Billability.TotalHours,
		insights.Billability.BillabilityPercentage)

	if len(insights.Tickets) > 0 {
		fmt.Fprintf(&b, "\n%s\n", headerStyle.Render("Tickets"))
		for _, t := range insights.Tickets {
			fmt.Fprintf(&b, "  %-16s %6.2fh (%.2fh billable)\n", t.IssueKey, t.Hours, t.BillableHours)
		}
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func trendLine(insights *team.TeamInsights) string {
	trend := insights.Trend
	if trend.IsOnTarget {
		return goodStyle.Render(fmt.Sprintf("  on target: %.2f%% billable vs %.2f%% ideal (%+.2f)",
			trend.ActualBillabilityPercentage, trend.IdealBillabilityPercentage, trend.Variance))
	}
	return badStyle.Render(fmt.Sprintf("  off target: %.2f%% billable vs %.2f%% ideal (%+.2f)",
		trend.ActualBillabilityPercentage, trend.IdealBillabilityPercentage, trend.Variance))
}
