package worklog

import (
	"regexp"
	"strings"
)

// Issue key patterns are tried in order: bracketed, colon-prefixed at
// the start of the description, then a bare occurrence anywhere.
// Matching is case-sensitive: "proj-123" is not an issue key.
var issueKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[([A-Z][A-Z0-9_]*-\d+)\]`),
	regexp.MustCompile(`^([A-Z][A-Z0-9_]*-\d+):`),
	regexp.MustCompile(`\b([A-Z][A-Z0-9_]*-\d+)\b`),
}

// ParsedDescription is what could be extracted from a worklog's free
// text.
type ParsedDescription struct {
	IssueKey   string
	ProjectKey string
}

// ParseDescription extracts the first issue key referenced in a work
// description. The project key is the token before the first hyphen of
// the issue key (ABC_DEF-123 yields ABC_DEF).
func ParseDescription(description string) ParsedDescription {
	if strings.TrimSpace(description) == "" {
		return ParsedDescription{}
	}

	for _, pattern := range issueKeyPatterns {
		match := pattern.FindStringSubmatch(description)
		if match == nil {
			continue
		}
		issueKey := match[1]
		projectKey, _, _ := strings.Cut(issueKey, "-")
		return ParsedDescription{IssueKey: issueKey, ProjectKey: projectKey}
	}
	return ParsedDescription{}
}
