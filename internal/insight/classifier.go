package insight

import "strings"

// QueryType is a coarse classification of what a query asks about,
// used for logging and CLI hints only; it never changes the pipeline's
// behavior.
type QueryType string

const (
	QueryAvailability QueryType = "availability"
	QueryBillability  QueryType = "billability"
	QueryCustom       QueryType = "custom"
)

type classifier struct {
	queryType QueryType
	keywords  []string
}

var classifiers = []classifier{
	{QueryAvailability, []string{"availability", "sprint"}},
	{QueryBillability, []string{"billability", "billable"}},
}

// Classify matches the query against keyword sets in order; anything
// unmatched is custom.
func Classify(query string) QueryType {
	lower := strings.ToLower(query)
	for _, c := range classifiers {
		for _, keyword := range c.keywords {
			if strings.Contains(lower, keyword) {
				return c.queryType
			}
		}
	}
	return QueryCustom
}
