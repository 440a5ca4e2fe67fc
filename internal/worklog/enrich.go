package worklog

import (
	"context"
	"io"
	"log/slog"

	"github.com/henrikdahl/teampulse/internal/jira"
	"github.com/henrikdahl/teampulse/internal/tempo"
)

// ProjectResolver resolves project keys to projects. Keys that fail to
// resolve come back in the second value; the batch never fails as a
// whole.
type ProjectResolver interface {
	ProjectsByKeys(ctx context.Context, keys []string) (map[string]jira.Project, []string)
}

// Enricher attaches resolved project identity to worklogs based on the
// issue keys embedded in their descriptions.
type Enricher struct {
	projects ProjectResolver
	logger   *slog.Logger
}

func NewEnricher(projects ProjectResolver, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Enricher{projects: projects, logger: logger}
}

// Enrich returns worklogs of the same length and order, each optionally
// gaining ProjectKey and ProjectName. Records whose key was absent or
// failed to resolve are passed through unchanged; no placeholders are
// assigned here.
func (e *Enricher) Enrich(ctx context.Context, worklogs []tempo.Worklog) []tempo.Worklog {
	keys := e.distinctProjectKeys(worklogs)
	if len(keys) == 0 {
		return worklogs
	}

	directory, failed := e.projects.ProjectsByKeys(ctx, keys)
	if len(failed) > 0 {
		e.logger.Warn("some project lookups failed, continuing without them", "failed", failed)
	}

	enriched := make([]tempo.Worklog, len(worklogs))
	for i, worklog := range worklogs {
		enriched[i] = worklog
		parsed := ParseDescription(worklog.Description)
		if parsed.ProjectKey == "" {
			continue
		}
		if project, ok := directory[parsed.ProjectKey]; ok {
			enriched[i].ProjectKey = project.Key
			enriched[i].ProjectName = project.Name
		}
	}
	return enriched
}

func (e *Enricher) distinctProjectKeys(worklogs []tempo.Worklog) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, worklog := range worklogs {
		parsed := ParseDescription(worklog.Description)
		if parsed.ProjectKey == "" || seen[parsed.ProjectKey] {
			continue
		}
		seen[parsed.ProjectKey] = true
		keys = append(keys, parsed.ProjectKey)
	}
	return keys
}
