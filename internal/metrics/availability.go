package metrics

import "github.com/henrikdahl/teampulse/internal/tempo"

const unknownUserName = "Unknown User"

// UserAvailability compares a user's logged hours with their planned
// capacity for a period.
type UserAvailability struct {
	UserID                 string  `json:"userId"`
	UserName               string  `json:"userName"`
	PlannedHours           float64 `json:"plannedHours"`
	ActualHours            float64 `json:"actualHours"`
	AvailabilityPercentage float64 `json:"availabilityPercentage"`
}

// TeamAvailability aggregates per-user availability. The totals are
// sums of the already-rounded per-user hours, not an independent
// recomputation from raw seconds; downstream consumers depend on that
// summation order.
type TeamAvailability struct {
	TotalPlannedHours          float64            `json:"totalPlannedHours"`
	TotalActualHours           float64            `json:"totalActualHours"`
	TeamAvailabilityPercentage float64            `json:"teamAvailabilityPercentage"`
	UserAvailabilities         []UserAvailability `json:"userAvailabilities"`
}

// TeamData is the record pair every availability computation runs over.
type TeamData struct {
	Plans    []tempo.Plan
	Worklogs []tempo.Worklog
}

// CalculateUserAvailability derives one user's availability from the
// plans and worklogs matching their identifier. A user with logged
// time but no plan gets plannedHours=0 and availabilityPercentage=0.
func CalculateUserAvailability(userID string, data TeamData) UserAvailability {
	var plannedSeconds int
	for _, plan := range data.Plans {
		if plan.Assignee.Matches(userID) {
			plannedSeconds += plan.TotalPlannedSeconds
		}
	}

	var actualSeconds int
	for _, worklog := range data.Worklogs {
		if worklog.Author.Matches(userID) {
			actualSeconds += worklog.TimeSpentSeconds
		}
	}

	plannedHours := SecondsToHours(plannedSeconds)
	actualHours := SecondsToHours(actualSeconds)

	return UserAvailability{
		UserID:                 userID,
		UserName:               resolveUserName(userID, data),
		PlannedHours:           plannedHours,
		ActualHours:            actualHours,
		AvailabilityPercentage: Percentage(actualHours, plannedHours),
	}
}

// CalculateTeamAvailability runs the per-user calculation for every
// distinct identifier found in either collection and sums the results.
func CalculateTeamAvailability(data TeamData) TeamAvailability {
	userIDs := uniqueUserIDs(data)

	userAvailabilities := make([]UserAvailability, 0, len(userIDs))
	var totalPlanned, totalActual float64
	for _, userID := range userIDs {
		ua := CalculateUserAvailability(userID, data)
		userAvailabilities = append(userAvailabilities, ua)
		totalPlanned += ua.PlannedHours
		totalActual += ua.ActualHours
	}

	return TeamAvailability{
		TotalPlannedHours:          totalPlanned,
		TotalActualHours:           totalActual,
		TeamAvailabilityPercentage: Percentage(totalActual, totalPlanned),
		UserAvailabilities:         userAvailabilities,
	}
}

// resolveUserName prefers a display name from a matching plan, then
// from a matching worklog, then falls back to "Unknown User".
func resolveUserName(userID string, data TeamData) string {
	for _, plan := range data.Plans {
		if plan.Assignee.Matches(userID) && plan.Assignee.DisplayName != "" {
			return plan.Assignee.DisplayName
		}
	}
	for _, worklog := range data.Worklogs {
		if worklog.Author.Matches(userID) && worklog.Author.DisplayName != "" {
			return worklog.Author.DisplayName
		}
	}
	return unknownUserName
}

// uniqueUserIDs returns the distinct identifiers across worklogs and
// plans, in first-seen order (worklogs first).
func uniqueUserIDs(data TeamData) []string {
	seen := make(map[string]bool)
	var ids []string

	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	for _, worklog := range data.Worklogs {
		add(worklog.Author.Identifier())
	}
	for _, plan := range data.Plans {
		add(plan.Assignee.Identifier())
	}
	return ids
}
