package timer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/existflow/timelog/internal/apperr"
	"github.com/existflow/timelog/internal/logger"
	"github.com/existflow/timelog/internal/metrics"
	"github.com/existflow/timelog/internal/model"
	"github.com/existflow/timelog/internal/store"
)

// Validator checks a (project, task) pair against the catalog. Kept as a
// boundary so catalog failures can never reach Stop, and so tests can swap in
// a fake.
type Validator interface {
	Validate(ctx context.Context, project, task string) error
}

// Engine is the stopwatch state machine. The store holds the state (IDLE when
// no record is open, RUNNING otherwise); the engine serializes transitions so
// two concurrent starts cannot both observe IDLE.
type Engine struct {
	mu        sync.Mutex
	store     *store.Store
	validator Validator
	now       func() time.Time
}

// New creates a timer engine on top of the store
func New(st *store.Store, validator Validator) *Engine {
	return &Engine{
		store:     st,
		validator: validator,
		now:       time.Now,
	}
}

// Current returns the active record, or nil when no timer is running
func (e *Engine) Current(ctx context.Context) (*model.TimeRecord, error) {
	rec, err := e.store.ActiveRecord(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Start begins tracking project/task. An empty task resolves through the
// project's configured default. Any running timer is closed first; both steps
// happen in one store transaction, so there is never a moment with two open
// records.
func (e *Engine) Start(ctx context.Context, project, task string) (*model.TimeRecord, error) {
	project = strings.TrimSpace(project)
	task = strings.TrimSpace(task)
	if project == "" {
		return nil, apperr.Validation("project is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if task == "" {
		mapping, err := e.store.MappingForProject(ctx, project)
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Validation("no default task configured for project %q", project)
		}
		if err != nil {
			return nil, err
		}
		task = mapping.Task
	}

	if err := e.validator.Validate(ctx, project, task); err != nil {
		return nil, err
	}

	rec := model.NewTimeRecord(uuid.NewString(), project, task, e.now())
	closed, err := e.store.StartRecord(ctx, rec)
	if err != nil {
		return nil, err
	}

	metrics.TimerStarts.Inc()
	if closed != nil {
		logger.Info("timer switched",
			logger.F("from", closed.Project),
			logger.F("to", project),
			logger.F("task", task))
	} else {
		logger.Info("timer started",
			logger.F("project", project),
			logger.F("task", task))
	}

	return &rec, nil
}

// Stop closes the active record and returns it. When no timer is running it
// returns nil and changes nothing. Stop never consults the catalog.
func (e *Engine) Stop(ctx context.Context) (*model.TimeRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	active, err := e.store.ActiveRecord(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	end := e.now().UTC().Truncate(time.Second)
	if err := e.store.CloseRecord(ctx, active.ID, end); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	active.End = &end

	metrics.TimerStops.Inc()
	logger.Info("timer stopped",
		logger.F("project", active.Project),
		logger.F("task", active.Task),
		logger.F("elapsed", FormatDuration(active.Duration(end))))

	return active, nil
}

// Elapsed returns how long the record has run, up to now for an open record
func (e *Engine) Elapsed(rec *model.TimeRecord) time.Duration {
	if rec == nil {
		return 0
	}
	return rec.Duration(e.now())
}

// FormatDuration renders a duration as H:MM:SS, hours unpadded
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
}
