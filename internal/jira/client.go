package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/existflow/timelog/internal/apperr"
	"github.com/existflow/timelog/internal/model"
)

// timeTrackingJQL selects the issues that can be timer targets.
const timeTrackingJQL = `issuetype = Time-Tracking`

const searchPageSize = 100

// CredentialsSource supplies the connection record for each call, so a login
// through the running server takes effect without a restart.
type CredentialsSource interface {
	Credentials(ctx context.Context) (*model.Credentials, error)
}

// Client talks to a Jira-compatible REST API using basic auth.
type Client struct {
	source     CredentialsSource
	httpClient *http.Client
}

// NewClient creates a Jira client with the given per-request timeout
func NewClient(source CredentialsSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		source:     source,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) credentials(ctx context.Context) (*model.Credentials, error) {
	creds, err := c.source.Credentials(ctx)
	if err != nil {
		return nil, err
	}
	if !creds.Configured() {
		return nil, apperr.New(apperr.KindNotConfigured, "issue tracker connection is not configured")
	}
	return creds, nil
}

func (c *Client) get(ctx context.Context, creds *model.Credentials, path string, query url.Values, out interface{}) error {
	u := creds.Endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindCatalogUnavailable, "failed to build request", err)
	}
	req.SetBasicAuth(creds.Email, creds.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindCatalogUnavailable, "issue tracker unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperr.New(apperr.KindCatalogUnavailable,
			fmt.Sprintf("issue tracker returned %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.KindCatalogUnavailable, "failed to decode response", err)
	}
	return nil
}

// Projects fetches the full project list
func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	creds, err := c.credentials(ctx)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	}
	if err := c.get(ctx, creds, "/rest/api/2/project", nil, &raw); err != nil {
		return nil, err
	}

	projects := make([]model.Project, 0, len(raw))
	for _, p := range raw {
		projects = append(projects, model.Project{Key: p.Key, Name: p.Name})
	}
	return projects, nil
}

type searchResponse struct {
	StartAt    int `json:"startAt"`
	MaxResults int `json:"maxResults"`
	Total      int `json:"total"`
	Issues     []struct {
		Key    string `json:"key"`
		Fields struct {
			Summary string `json:"summary"`
		} `json:"fields"`
	} `json:"issues"`
}

// TimeTrackingTasks fetches every issue tagged with the time-tracking issue
// type, paging through the search API.
func (c *Client) TimeTrackingTasks(ctx context.Context) ([]model.Task, error) {
	creds, err := c.credentials(ctx)
	if err != nil {
		return nil, err
	}

	tasks := []model.Task{}
	startAt := 0
	for {
		query := url.Values{}
		query.Set("jql", timeTrackingJQL)
		query.Set("fields", "summary")
		query.Set("startAt", fmt.Sprintf("%d", startAt))
		query.Set("maxResults", fmt.Sprintf("%d", searchPageSize))

		var page searchResponse
		if err := c.get(ctx, creds, "/rest/api/2/search", query, &page); err != nil {
			return nil, err
		}

		for _, issue := range page.Issues {
			tasks = append(tasks, model.Task{Key: issue.Key, Summary: issue.Fields.Summary})
		}

		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			break
		}
	}
	return tasks, nil
}
