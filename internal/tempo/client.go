package tempo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.tempo.io/4"

// Client talks to the Tempo REST API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(token string, baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
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

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("tempo API request", "path", path)

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
			c.logger.Debug("API request transport error, retrying", "path", path, "attempt", attempt+1, "error", err)
			time.Sleep(backoff(attempt))
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				c.logger.Error("API request failed after retries", "path", path, "status", resp.StatusCode, "attempts", maxRetries+1)
				return nil, fmt.Errorf("API returned status %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.logger.Debug("API request retryable error", "path", path, "status", resp.StatusCode, "attempt", attempt+1)
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

	c.logger.Debug("tempo API response", "path", path, "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(requestStart))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("API request failed", "path", path, "status", resp.StatusCode, "response", truncate(string(respBody), 200))
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

type pagedResponse struct {
	Results  json.RawMessage `json:"results"`
	Metadata struct {
		Next string `json:"next"`
	} `json:"metadata"`
}

// getAllPages walks a paginated Tempo collection, decoding every
// results page into out batches and passing each batch to collect.
func (c *Client) getAllPages(ctx context.Context, path string, params url.Values, collect func(results json.RawMessage) error) error {
	params.Set("limit", "1000")
	offset := 0
	for {
		params.Set("offset", fmt.Sprintf("%d", offset))
		data, err := c.doRequest(ctx, path, params)
		if err != nil {
			return err
		}

		var page pagedResponse
		if err := json.Unmarshal(data, &page); err != nil {
			return fmt.Errorf("parsing response page: %w", err)
		}
		if len(page.Results) > 0 {
			if err := collect(page.Results); err != nil {
				return err
			}
		}
		if page.Metadata.Next == "" {
			return nil
		}
		offset += 1000
	}
}

// Plans returns all planned-time records overlapping [from, to].
// Dates are YYYY-MM-DD.
func (c *Client) Plans(ctx context.Context, from, to string) ([]Plan, error) {
	params := url.Values{}
	params.Set("from", from)
	params.Set("to", to)

	var plans []Plan
	err := c.getAllPages(ctx, "/plans", params, func(results json.RawMessage) error {
		var batch []Plan
		if err := json.Unmarshal(results, &batch); err != nil {
			return fmt.Errorf("parsing plans: %w", err)
		}
		plans = append(plans, batch...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("getting plans: %w", err)
	}

	c.logger.Debug("fetched plans", "from", from, "to", to, "count", len(plans))
	return plans, nil
}

// Worklogs returns all logged-time records in [from, to].
func (c *Client) Worklogs(ctx context.Context, from, to string) ([]Worklog, error) {
	params := url.Values{}
	params.Set("from", from)
	params.Set("to", to)

	var worklogs []Worklog
	err := c.getAllPages(ctx, "/worklogs", params, func(results json.RawMessage) error {
		var batch []Worklog
		if err := json.Unmarshal(results, &batch); err != nil {
			return fmt.Errorf("parsing worklogs: %w", err)
		}
		worklogs = append(worklogs, batch...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("getting worklogs: %w", err)
	}

	c.logger.Debug("fetched worklogs", "from", from, "to", to, "count", len(worklogs))
	return worklogs, nil
}
