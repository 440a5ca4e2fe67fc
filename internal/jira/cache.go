package jira

import (
	"sync"
	"time"
)

// projectCache holds resolved projects by key. It stores reference
// data only (key/name pairs), never metrics or source records.
type projectCache struct {
	mu  sync.RWMutex
	ttl time.Duration

	projects map[string]cachedProject
}

type cachedProject struct {
	project   Project
	fetchedAt time.Time
}

func newProjectCache(ttl time.Duration) *projectCache {
	return &projectCache{
		ttl:      ttl,
		projects: make(map[string]cachedProject),
	}
}

func (c *projectCache) Get(key string) (Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.projects[key]
	if !ok || time.Since(entry.fetchedAt) > c.ttl {
		return Project{}, false
	}
	return entry.project, true
}

func (c *projectCache) Set(project Project) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.projects[project.Key] = cachedProject{project: project, fetchedAt: time.Now()}
}
