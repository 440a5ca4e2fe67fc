package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Response is the contract every provider's completion must satisfy.
type Response struct {
	Title          string   `json:"title"`
	Summary        string   `json:"summary"`
	Insights       []string `json:"insights"`
	ThoughtProcess string   `json:"thoughtProcess,omitempty"`
}

// ErrInvalidResponse marks a completion that parsed as JSON but missed
// a required field or carried the wrong type for one.
var ErrInvalidResponse = errors.New("AI response violates the insight contract")

// ExtractJSON strips an optional markdown code fence (with or without
// a language tag) from a completion. The fence may open and close on
// the same line. Text without a fence comes back unchanged, so passing
// already-clean JSON through is safe.
func ExtractJSON(text string) string {
	trimmed := strings.TrimSpace(text)

	if len(trimmed) < 6 || !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return trimmed
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "```"), "```")
	if i := strings.IndexByte(inner, '\n'); i >= 0 {
		// Everything before the first newline is the opening fence's
		// optional language tag.
		return strings.TrimSpace(inner[i+1:])
	}

	// Single-line fence: drop a leading language tag if one precedes
	// the payload.
	inner = strings.TrimSpace(inner)
	if tag, rest, ok := strings.Cut(inner, " "); ok && !strings.ContainsAny(tag, "{[\"") {
		return strings.TrimSpace(rest)
	}
	return inner
}

// ParseResponse unfences, parses, and validates a completion. Title
// and summary must be strings and insights must be an array; array
// elements that are not strings are dropped silently. ThoughtProcess
// passes through unvalidated.
func ParseResponse(text string) (*Response, error) {
	cleaned := ExtractJSON(text)

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("parsing AI response: %w", err)
	}

	title, ok := raw["title"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing or non-string title", ErrInvalidResponse)
	}
	summary, ok := raw["summary"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing or non-string summary", ErrInvalidResponse)
	}
	rawInsights, ok := raw["insights"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing or non-array insights", ErrInvalidResponse)
	}

	insights := make([]string, 0, len(rawInsights))
	for _, item := range rawInsights {
		if s, ok := item.(string); ok {
			insights = append(insights, s)
		}
	}

	response := &Response{
		Title:    title,
		Summary:  summary,
		Insights: insights,
	}
	if thought, ok := raw["thoughtProcess"].(string); ok {
		response.ThoughtProcess = thought
	}
	return response, nil
}
