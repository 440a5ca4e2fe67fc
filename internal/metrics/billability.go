package metrics

import "github.com/henrikdahl/teampulse/internal/tempo"

// UserBillability splits one user's logged hours into billable and
// non-billable parts. Billable exceeding total passes through as
// negative non-billable; nothing is clamped here.
type UserBillability struct {
	UserID                string  `json:"userId"`
	UserName              string  `json:"userName"`
	TotalHours            float64 `json:"totalHours"`
	BillableHours         float64 `json:"billableHours"`
	NonBillableHours      float64 `json:"nonBillableHours"`
	BillabilityPercentage float64 `json:"billabilityPercentage"`
}

// TeamBillability aggregates per-user billability, summing the rounded
// per-user hours like TeamAvailability does.
type TeamBillability struct {
	TotalHours                float64           `json:"totalHours"`
	BillableHours             float64           `json:"billableHours"`
	NonBillableHours          float64           `json:"nonBillableHours"`
	TeamBillabilityPercentage float64           `json:"teamBillabilityPercentage"`
	UserBillabilities         []UserBillability `json:"userBillabilities"`
}

// BillabilityTrend compares team billability against a configured
// target ratio. Variance is signed: positive above target, negative
// below. Hitting the target exactly counts as on target.
type BillabilityTrend struct {
	ActualBillabilityPercentage float64 `json:"actualBillabilityPercentage"`
	IdealBillabilityPercentage  float64 `json:"idealBillabilityPercentage"`
	IsOnTarget                  bool    `json:"isOnTarget"`
	Variance                    float64 `json:"variance"`
}

// CalculateUserBillability derives one user's billable/non-billable
// split from the worklogs matching their identifier.
func CalculateUserBillability(userID string, worklogs []tempo.Worklog) UserBillability {
	var totalSeconds, billableSeconds int
	for _, worklog := range worklogs {
		if worklog.Author.Matches(userID) {
			totalSeconds += worklog.TimeSpentSeconds
			billableSeconds += worklog.BillableSeconds
		}
	}

	totalHours := SecondsToHours(totalSeconds)
	billableHours := SecondsToHours(billableSeconds)

	return UserBillability{
		UserID:                userID,
		UserName:              worklogUserName(userID, worklogs),
		TotalHours:            totalHours,
		BillableHours:         billableHours,
		NonBillableHours:      Round2(totalHours - billableHours),
		BillabilityPercentage: Percentage(billableHours, totalHours),
	}
}

// CalculateTeamBillability runs the per-user calculation for every
// distinct author and sums the results.
func CalculateTeamBillability(worklogs []tempo.Worklog) TeamBillability {
	userIDs := uniqueUserIDs(TeamData{Worklogs: worklogs})

	userBillabilities := make([]UserBillability, 0, len(userIDs))
	var totalHours, billableHours float64
	for _, userID := range userIDs {
		ub := CalculateUserBillability(userID, worklogs)
		userBillabilities = append(userBillabilities, ub)
		totalHours += ub.TotalHours
		billableHours += ub.BillableHours
	}

	return TeamBillability{
		TotalHours:                totalHours,
		BillableHours:             billableHours,
		NonBillableHours:          Round2(totalHours - billableHours),
		TeamBillabilityPercentage: Percentage(billableHours, totalHours),
		UserBillabilities:         userBillabilities,
	}
}

// AnalyzeBillabilityTrend compares team billability with the injected
// ideal percentage (e.g. 75).
func AnalyzeBillabilityTrend(worklogs []tempo.Worklog, idealPercentage float64) BillabilityTrend {
	actual := CalculateTeamBillability(worklogs).TeamBillabilityPercentage

	return BillabilityTrend{
		ActualBillabilityPercentage: actual,
		IdealBillabilityPercentage:  idealPercentage,
		IsOnTarget:                  actual >= idealPercentage,
		Variance:                    Round2(actual - idealPercentage),
	}
}

func worklogUserName(userID string, worklogs []tempo.Worklog) string {
	for _, worklog := range worklogs {
		if worklog.Author.Matches(userID) && worklog.Author.DisplayName != "" {
			return worklog.Author.DisplayName
		}
	}
	return unknownUserName
}
