package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/existflow/timelog/internal/apperr"
	"github.com/existflow/timelog/internal/model"
	"github.com/existflow/timelog/internal/timer"
)

// timerState is the wire form of the stopwatch: the active (or just-closed)
// record plus its derived elapsed time.
type timerState struct {
	Running bool              `json:"running"`
	Record  *model.TimeRecord `json:"record,omitempty"`
	Elapsed string            `json:"elapsed,omitempty"`
}

type timerRequest struct {
	Project string `json:"project"`
	Task    string `json:"task"`
	Close   bool   `json:"close"`
}

func (s *Server) timerStateOf(rec *model.TimeRecord) timerState {
	state := timerState{}
	if rec == nil {
		return state
	}
	state.Running = rec.Active()
	state.Record = rec
	state.Elapsed = timer.FormatDuration(s.engine.Elapsed(rec))
	return state
}

// handleTimerState reports the current timer and its elapsed time
func (s *Server) handleTimerState(c echo.Context) error {
	rec, err := s.engine.Current(c.Request().Context())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, s.timerStateOf(rec))
}

// handleTimerPost drives the state machine: {close: true} stops the running
// timer, {project, task} starts one (implicitly stopping whatever ran before).
func (s *Server) handleTimerPost(c echo.Context) error {
	var req timerRequest
	if err := c.Bind(&req); err != nil {
		return s.respondError(c, apperr.Validation("invalid request body"))
	}

	ctx := c.Request().Context()

	if req.Close {
		closed, err := s.engine.Stop(ctx)
		if err != nil {
			return s.respondError(c, err)
		}
		return c.JSON(http.StatusOK, s.timerStateOf(closed))
	}

	rec, err := s.engine.Start(ctx, req.Project, req.Task)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, s.timerStateOf(rec))
}

type submitRecordRequest struct {
	Project string    `json:"project"`
	Task    string    `json:"task"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// handleListRecords returns the full unpaginated history
func (s *Server) handleListRecords(c echo.Context) error {
	records, err := s.store.ListRecords(c.Request().Context())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

// handleSubmitRecord inserts a closed interval directly. The pair is checked
// against the catalog like every other record-creating path.
func (s *Server) handleSubmitRecord(c echo.Context) error {
	var req submitRecordRequest
	if err := c.Bind(&req); err != nil {
		return s.respondError(c, apperr.Validation("invalid request body"))
	}

	if req.Project == "" || req.Task == "" {
		return s.respondError(c, apperr.Validation("project and task are required"))
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return s.respondError(c, apperr.Validation("start and end are required"))
	}
	if req.End.Before(req.Start) {
		return s.respondError(c, apperr.Validation("end must not precede start"))
	}

	ctx := c.Request().Context()
	if err := s.catalog.Validate(ctx, req.Project, req.Task); err != nil {
		return s.respondError(c, err)
	}

	rec := model.NewTimeRecord(uuid.NewString(), req.Project, req.Task, req.Start)
	end := req.End.UTC().Truncate(time.Second)
	rec.End = &end

	if err := s.store.InsertRecord(ctx, rec); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
