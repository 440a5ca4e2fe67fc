package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client talks to the Jira Cloud REST API. Batch lookups never fail as
// a whole: successes are collected into a map and the ids or keys that
// could not be resolved come back in a separate list, with the
// underlying errors logged here.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	cache      *projectCache
	logger     *slog.Logger
}

func NewClient(baseURL, email, apiToken string, cacheTTL time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	creds := base64.StdEncoding.EncodeToString([]byte(email + ":" + apiToken))
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: "Basic " + creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:  newProjectCache(cacheTTL),
		logger: logger,
	}
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("jira API request", "path", path)

	var resp *http.Response
	maxRetries := 3
	requestStart := time.Now()
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err = c.httpClient.Do(req)
		if err != nil {
			if attempt == maxRetries {
				c.logger.Error("API request transport error", "path", path, "error", err, "elapsed", time.Since(requestStart))
				return nil, fmt.Errorf("sending request: %w", err)
			}
			time.Sleep(backoff(attempt))
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				c.logger.Error("API request failed after retries", "path", path, "status", resp.StatusCode, "attempts", maxRetries+1)
				return nil, fmt.Errorf("API returned status %d after %d retries", resp.StatusCode, maxRetries)
			}
			time.Sleep(backoff(attempt))
			continue
		}
		break
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("jira API response", "path", path, "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(requestStart))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

// GetUser resolves a single account id.
func (c *Client) GetUser(ctx context.Context, accountID string) (*User, error) {
	params := url.Values{}
	params.Set("accountId", accountID)

	data, err := c.doRequest(ctx, "/rest/api/3/user", params)
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", accountID, err)
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}
	return &user, nil
}

// GetProject resolves a single project key.
func (c *Client) GetProject(ctx context.Context, key string) (*Project, error) {
	if cached, ok := c.cache.Get(key); ok {
		return &cached, nil
	}

	data, err := c.doRequest(ctx, "/rest/api/3/project/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", key, err)
	}

	var project Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("parsing project response: %w", err)
	}

	c.cache.Set(project)
	return &project, nil
}

// DisplayNames resolves account ids to display names. Ids that fail to
// resolve are returned in the second value and excluded from the map.
func (c *Client) DisplayNames(ctx context.Context, accountIDs []string) (map[string]string, []string) {
	names := make(map[string]string)
	var failed []string

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range accountIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			user, err := c.GetUser(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Error("user lookup failed", "accountId", id, "error", err)
				failed = append(failed, id)
				return
			}
			names[user.AccountID] = user.DisplayName
		}(id)
	}
	wg.Wait()

	return names, failed
}

// ProjectsByKeys resolves project keys to projects. Keys that fail to
// resolve are returned in the second value and excluded from the map.
func (c *Client) ProjectsByKeys(ctx context.Context, keys []string) (map[string]Project, []string) {
	projects := make(map[string]Project)
	var failed []string

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			project, err := c.GetProject(ctx, key)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Error("project lookup failed", "key", key, "error", err)
				failed = append(failed, key)
				return
			}
			projects[key] = *project
		}(key)
	}
	wg.Wait()

	return projects, failed
}
