package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/existflow/timelog/internal/apperr"
	"github.com/existflow/timelog/internal/catalog"
	"github.com/existflow/timelog/internal/config"
	"github.com/existflow/timelog/internal/model"
	"github.com/existflow/timelog/internal/secret"
	"github.com/existflow/timelog/internal/store"
	"github.com/existflow/timelog/internal/timer"
	"github.com/existflow/timelog/server"
)

type fakeFetcher struct {
	down bool
}

func (f *fakeFetcher) Projects(ctx context.Context) ([]model.Project, error) {
	if f.down {
		return nil, apperr.New(apperr.KindCatalogUnavailable, "issue tracker unreachable")
	}
	return []model.Project{
		{Key: "KP", Name: "Killer Project"},
		{Key: "OPS", Name: "Operations"},
	}, nil
}

func (f *fakeFetcher) TimeTrackingTasks(ctx context.Context) ([]model.Task, error) {
	if f.down {
		return nil, apperr.New(apperr.KindCatalogUnavailable, "issue tracker unreachable")
	}
	return []model.Task{
		{Key: "KP-1", Summary: "Development"},
		{Key: "OPS-3", Summary: "Maintenance"},
	}, nil
}

type env struct {
	store   *store.Store
	fetcher *fakeFetcher
	handler http.Handler
}

func setup(t *testing.T) *env {
	t.Helper()

	dir := t.TempDir()
	keys, err := secret.Open(filepath.Join(dir, "key"))
	require.NoError(t, err)

	st, err := store.Open(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(dir, "test.db"),
	}, keys)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	fetcher := &fakeFetcher{}
	cat := catalog.New(fetcher, 0)
	engine := timer.New(st, cat)
	srv := server.New(st, engine, cat)

	return &env{store: st, fetcher: fetcher, handler: srv.Router()}
}

func (e *env) request(t *testing.T, method, path string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func (e *env) configure(t *testing.T) {
	t.Helper()
	status, _ := e.request(t, http.MethodPut, "/api/v1/settings", map[string]string{
		"endpoint": "https://example.atlassian.net",
		"email":    "me@example.com",
		"token":    "token123",
	})
	require.Equal(t, http.StatusOK, status)
}

type timerStateResponse struct {
	Running bool `json:"running"`
	Record  *struct {
		ID      string     `json:"id"`
		Project string     `json:"project"`
		Task    string     `json:"task"`
		Start   time.Time  `json:"start"`
		End     *time.Time `json:"end"`
	} `json:"record"`
	Elapsed string `json:"elapsed"`
}

func TestHealth(t *testing.T) {
	e := setup(t)
	status, body := e.request(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "ok")
}

func TestMetricsExposed(t *testing.T) {
	e := setup(t)
	status, body := e.request(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "timelog_timer_starts_total")
}

func TestCatalogRoutesRequireConfiguration(t *testing.T) {
	e := setup(t)

	status, body := e.request(t, http.MethodGet, "/api/v1/projects", nil)
	require.Equal(t, http.StatusConflict, status)
	require.Contains(t, string(body), "not_configured")

	// Timer state and history are reachable regardless
	status, _ = e.request(t, http.MethodGet, "/api/v1/timer", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = e.request(t, http.MethodGet, "/api/v1/records", nil)
	require.Equal(t, http.StatusOK, status)
}

func TestSettingsUpsert(t *testing.T) {
	e := setup(t)

	status, body := e.request(t, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), `"configured":false`)

	status, _ = e.request(t, http.MethodPut, "/api/v1/settings", map[string]string{
		"endpoint": "https://example.atlassian.net",
		"email":    "me@example.com",
	})
	require.Equal(t, http.StatusBadRequest, status)

	e.configure(t)

	status, body = e.request(t, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), `"configured":true`)
	require.NotContains(t, string(body), "token123", "token must not leave the server")
}

func TestMappingsReplace(t *testing.T) {
	e := setup(t)

	// Blank rows are dropped, not rejected
	status, body := e.request(t, http.MethodPut, "/api/v1/mappings", []map[string]string{
		{"project": "KP", "task": "KP-1"},
		{"project": "", "task": ""},
		{"project": "OPS", "task": "OPS-3"},
	})
	require.Equal(t, http.StatusOK, status)
	var saved []model.ProjectTaskMapping
	require.NoError(t, json.Unmarshal(body, &saved))
	require.Len(t, saved, 2)

	// Half-filled rows are a validation error
	status, _ = e.request(t, http.MethodPut, "/api/v1/mappings", []map[string]string{
		{"project": "KP", "task": ""},
	})
	require.Equal(t, http.StatusBadRequest, status)

	// More than the cap is rejected
	rows := make([]map[string]string, model.MaxMappings+1)
	for i := range rows {
		rows[i] = map[string]string{"project": "KP", "task": "KP-1"}
	}
	status, _ = e.request(t, http.MethodPut, "/api/v1/mappings", rows)
	require.Equal(t, http.StatusBadRequest, status)

	// The empty set clears the table
	status, body = e.request(t, http.MethodPut, "/api/v1/mappings", []map[string]string{})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &saved))
	require.Empty(t, saved)
}

func TestProjectsIncludeDefaultTask(t *testing.T) {
	e := setup(t)
	e.configure(t)

	status, _ := e.request(t, http.MethodPut, "/api/v1/mappings", []map[string]string{
		{"project": "KP", "task": "KP-1"},
	})
	require.Equal(t, http.StatusOK, status)

	status, body := e.request(t, http.MethodGet, "/api/v1/projects", nil)
	require.Equal(t, http.StatusOK, status)

	var projects []model.Project
	require.NoError(t, json.Unmarshal(body, &projects))
	require.Len(t, projects, 2)
	require.Equal(t, "KP", projects[0].Key)
	require.Equal(t, "KP-1", projects[0].DefaultTask)
	require.Empty(t, projects[1].DefaultTask)
}

func TestTasksFilter(t *testing.T) {
	e := setup(t)
	e.configure(t)

	status, body := e.request(t, http.MethodGet, "/api/v1/projects/KP/tasks", nil)
	require.Equal(t, http.StatusOK, status)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(body, &tasks))
	require.Len(t, tasks, 1)
	require.Equal(t, "KP-1", tasks[0].Key)

	status, body = e.request(t, http.MethodGet, "/api/v1/projects/KP/tasks?q=zzz", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &tasks))
	require.Empty(t, tasks)
}

func TestTimerFlow(t *testing.T) {
	e := setup(t)
	e.configure(t)

	// Start via default task mapping
	status, _ := e.request(t, http.MethodPut, "/api/v1/mappings", []map[string]string{
		{"project": "KP", "task": "KP-1"},
	})
	require.Equal(t, http.StatusOK, status)

	status, body := e.request(t, http.MethodPost, "/api/v1/timer", map[string]interface{}{
		"project": "KP",
	})
	require.Equal(t, http.StatusOK, status)
	var state timerStateResponse
	require.NoError(t, json.Unmarshal(body, &state))
	require.True(t, state.Running)
	require.Equal(t, "KP-1", state.Record.Task)
	require.Nil(t, state.Record.End)

	// Switch: starting another project closes the first record implicitly
	status, body = e.request(t, http.MethodPost, "/api/v1/timer", map[string]interface{}{
		"project": "OPS",
		"task":    "OPS-3",
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &state))
	require.True(t, state.Running)
	require.Equal(t, "OPS", state.Record.Project)

	status, body = e.request(t, http.MethodGet, "/api/v1/records", nil)
	require.Equal(t, http.StatusOK, status)
	var records []model.TimeRecord
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 2)
	open := 0
	for _, rec := range records {
		if rec.End == nil {
			open++
		}
	}
	require.Equal(t, 1, open)

	// Stop
	status, body = e.request(t, http.MethodPost, "/api/v1/timer", map[string]interface{}{
		"close": true,
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &state))
	require.False(t, state.Running)
	require.NotNil(t, state.Record.End)
	require.NotEmpty(t, state.Elapsed)

	// Idle now, and stopping again is a no-op
	status, body = e.request(t, http.MethodGet, "/api/v1/timer", nil)
	require.Equal(t, http.StatusOK, status)
	state = timerStateResponse{}
	require.NoError(t, json.Unmarshal(body, &state))
	require.False(t, state.Running)
	require.Nil(t, state.Record)

	status, body = e.request(t, http.MethodPost, "/api/v1/timer", map[string]interface{}{
		"close": true,
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &state))
	require.Nil(t, state.Record)
}

func TestStartUnknownProjectRejected(t *testing.T) {
	e := setup(t)
	e.configure(t)

	status, body := e.request(t, http.MethodPost, "/api/v1/timer", map[string]interface{}{
		"project": "NOPE",
		"task":    "NOPE-1",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, string(body), "validation_error")
}

func TestSubmitRecordValidatesAgainstCatalog(t *testing.T) {
	e := setup(t)
	e.configure(t)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	status, body := e.request(t, http.MethodPost, "/api/v1/records", map[string]interface{}{
		"project": "KP",
		"task":    "KP-1",
		"start":   start,
		"end":     start.Add(time.Hour),
	})
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), `"status":"ok"`)

	status, _ = e.request(t, http.MethodPost, "/api/v1/records", map[string]interface{}{
		"project": "KP",
		"task":    "KP-99",
		"start":   start,
		"end":     start.Add(time.Hour),
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = e.request(t, http.MethodPost, "/api/v1/records", map[string]interface{}{
		"project": "KP",
		"task":    "KP-1",
		"start":   start,
		"end":     start.Add(-time.Hour),
	})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestStopSucceedsWhileCatalogDown(t *testing.T) {
	e := setup(t)
	e.configure(t)

	// A timer is running, then the issue tracker goes away
	rec := model.NewTimeRecord("r1", "KP", "KP-1", time.Now().Add(-time.Minute))
	_, err := e.store.StartRecord(context.Background(), rec)
	require.NoError(t, err)
	e.fetcher.down = true

	status, body := e.request(t, http.MethodGet, "/api/v1/projects", nil)
	require.Equal(t, http.StatusBadGateway, status)
	require.Contains(t, string(body), "catalog_unavailable")

	status, body = e.request(t, http.MethodPost, "/api/v1/timer", map[string]interface{}{
		"close": true,
	})
	require.Equal(t, http.StatusOK, status)
	var state timerStateResponse
	require.NoError(t, json.Unmarshal(body, &state))
	require.NotNil(t, state.Record)
	require.NotNil(t, state.Record.End)

	// Starting a new timer stays blocked
	status, _ = e.request(t, http.MethodPost, "/api/v1/timer", map[string]interface{}{
		"project": "KP",
		"task":    "KP-1",
	})
	require.Equal(t, http.StatusBadGateway, status)
}

func TestCatalogInvalidateEndpoint(t *testing.T) {
	e := setup(t)
	e.configure(t)

	status, body := e.request(t, http.MethodPost, "/api/v1/catalog/invalidate", nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, strings.Contains(string(body), "ok"))
}
