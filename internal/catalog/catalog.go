package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/existflow/timelog/internal/apperr"
	"github.com/existflow/timelog/internal/logger"
	"github.com/existflow/timelog/internal/metrics"
	"github.com/existflow/timelog/internal/model"
)

// Fetcher supplies the catalog from the external issue tracker.
type Fetcher interface {
	Projects(ctx context.Context) ([]model.Project, error)
	TimeTrackingTasks(ctx context.Context) ([]model.Task, error)
}

// Cache is a write-through cache over the issue tracker catalog. The first
// lookup fetches everything synchronously; later lookups are served from
// memory until the TTL passes (zero TTL: never) or Invalidate is called.
// Fetching happens with the mutex held, so concurrent misses collapse into a
// single upstream call.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	projects  map[string]string // project key -> display name
	tasks     []model.Task      // sorted by key
	fetchedAt time.Time
}

// New creates a catalog cache. ttl zero disables expiry.
func New(fetcher Fetcher, ttl time.Duration) *Cache {
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Invalidate drops the cached catalog; the next lookup refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects = nil
	c.tasks = nil
	logger.Info("catalog cache invalidated")
}

// ensure fills the cache if it is empty or stale. Caller must hold c.mu.
func (c *Cache) ensure(ctx context.Context) error {
	if c.projects != nil {
		if c.ttl == 0 || c.now().Sub(c.fetchedAt) < c.ttl {
			return nil
		}
	}

	metrics.CatalogRefreshes.Inc()

	projects, err := c.fetcher.Projects(ctx)
	if err != nil {
		metrics.CatalogRefreshErrors.Inc()
		return err
	}

	tasks, err := c.fetcher.TimeTrackingTasks(ctx)
	if err != nil {
		metrics.CatalogRefreshErrors.Inc()
		return err
	}

	byKey := make(map[string]string, len(projects))
	for _, p := range projects {
		byKey[p.Key] = p.Name
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Key < tasks[j].Key })

	c.projects = byKey
	c.tasks = tasks
	c.fetchedAt = c.now()

	logger.Info("catalog refreshed",
		logger.F("projects", len(projects)),
		logger.F("tasks", len(tasks)))
	return nil
}

// Projects returns all known projects sorted by key
func (c *Cache) Projects(ctx context.Context) ([]model.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensure(ctx); err != nil {
		return nil, err
	}

	projects := make([]model.Project, 0, len(c.projects))
	for key, name := range c.projects {
		projects = append(projects, model.Project{Key: key, Name: name})
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Key < projects[j].Key })
	return projects, nil
}

// Lookup returns a project's display name and its time-tracking tasks.
// Unknown projects are a validation failure, not a catalog one.
func (c *Cache) Lookup(ctx context.Context, project string) (*model.Project, []model.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensure(ctx); err != nil {
		return nil, nil, err
	}

	name, ok := c.projects[project]
	if !ok {
		return nil, nil, apperr.Validation("unknown project %q", project)
	}

	return &model.Project{Key: project, Name: name}, c.tasksFor(project, ""), nil
}

// Tasks lists a project's tasks, optionally narrowed by a substring match on
// the task key.
func (c *Cache) Tasks(ctx context.Context, project, q string) ([]model.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensure(ctx); err != nil {
		return nil, err
	}

	if _, ok := c.projects[project]; !ok {
		return nil, apperr.Validation("unknown project %q", project)
	}
	return c.tasksFor(project, q), nil
}

// Validate checks that task is a known time-tracking issue in project
func (c *Cache) Validate(ctx context.Context, project, task string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensure(ctx); err != nil {
		return err
	}

	if _, ok := c.projects[project]; !ok {
		return apperr.Validation("unknown project %q", project)
	}
	for _, t := range c.tasksFor(project, "") {
		if t.Key == task {
			return nil
		}
	}
	return apperr.Validation("unknown task %q for project %q", task, project)
}

// tasksFor filters the task list by project prefix and key substring. Caller
// must hold c.mu.
func (c *Cache) tasksFor(project, q string) []model.Task {
	prefix := project + "-"
	matches := []model.Task{}
	for _, t := range c.tasks {
		if !strings.HasPrefix(t.Key, prefix) {
			continue
		}
		if q != "" && !strings.Contains(t.Key, q) {
			continue
		}
		matches = append(matches, t)
	}
	return matches
}
