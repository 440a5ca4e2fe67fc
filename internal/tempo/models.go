package tempo

// Account identifies a person in Tempo and Jira. Records sourced from
// older API versions may carry only the legacy ID, or only a display
// name, so every field is optional.
type Account struct {
	AccountID   string `json:"accountId,omitempty"`
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// Identifier returns the preferred person identifier: accountId when
// present, otherwise the legacy id.
func (a Account) Identifier() string {
	if a.AccountID != "" {
		return a.AccountID
	}
	return a.ID
}

// Matches reports whether this account refers to userID, preferring
// accountId over the legacy id field.
func (a Account) Matches(userID string) bool {
	if a.AccountID != "" {
		return a.AccountID == userID
	}
	return a.ID != "" && a.ID == userID
}

// Plan is a capacity allocation for a user over a date range.
type Plan struct {
	ID                  string  `json:"id"`
	Assignee            Account `json:"assignee"`
	TotalPlannedSeconds int     `json:"totalPlannedSecondsInScope"`
	StartDate           string  `json:"startDate"`
	EndDate             string  `json:"endDate"`
}

// IssueRef is the issue a worklog was logged against, when known.
type IssueRef struct {
	ID  string `json:"id,omitempty"`
	Key string `json:"key,omitempty"`
}

// Worklog is an actual time entry. ProjectKey and ProjectName are not
// part of the API payload; they are filled in by worklog enrichment.
type Worklog struct {
	ID               string    `json:"id"`
	Author           Account   `json:"author"`
	TimeSpentSeconds int       `json:"timeSpentSeconds"`
	BillableSeconds  int       `json:"billableSeconds"`
	StartDate        string    `json:"startDate"`
	Description      string    `json:"description"`
	Issue            *IssueRef `json:"issue,omitempty"`

	ProjectKey  string `json:"projectKey,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
}
