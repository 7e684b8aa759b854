package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/existflow/timelog/internal/apperr"
	"github.com/existflow/timelog/internal/model"
)

type settingsResponse struct {
	Service    string `json:"service"`
	Endpoint   string `json:"endpoint"`
	Email      string `json:"email"`
	Configured bool   `json:"configured"`
}

type settingsRequest struct {
	Endpoint string `json:"endpoint"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// handleGetSettings fetches or creates the connection record. The token never
// leaves the server.
func (s *Server) handleGetSettings(c echo.Context) error {
	creds, err := s.store.GetOrCreateCredentials(c.Request().Context(), model.ServiceJira)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, settingsResponse{
		Service:    creds.Service,
		Endpoint:   creds.Endpoint,
		Email:      creds.Email,
		Configured: creds.Configured(),
	})
}

// handleSaveSettings stores the issue tracker connection and drops the cached
// catalog, since it may have been fetched with the old credentials.
func (s *Server) handleSaveSettings(c echo.Context) error {
	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return s.respondError(c, apperr.Validation("invalid request body"))
	}

	req.Endpoint = strings.TrimRight(strings.TrimSpace(req.Endpoint), "/")
	req.Email = strings.TrimSpace(req.Email)
	req.Token = strings.TrimSpace(req.Token)

	if req.Endpoint == "" || req.Email == "" || req.Token == "" {
		return s.respondError(c, apperr.Validation("endpoint, email and token are required"))
	}
	if !strings.HasPrefix(req.Endpoint, "http://") && !strings.HasPrefix(req.Endpoint, "https://") {
		return s.respondError(c, apperr.Validation("endpoint must be an http(s) URL"))
	}

	creds := &model.Credentials{
		Service:  model.ServiceJira,
		Endpoint: req.Endpoint,
		Email:    req.Email,
		Token:    req.Token,
	}
	if err := s.store.SaveCredentials(c.Request().Context(), creds); err != nil {
		return s.respondError(c, err)
	}

	s.catalog.Invalidate()

	return c.JSON(http.StatusOK, settingsResponse{
		Service:    creds.Service,
		Endpoint:   creds.Endpoint,
		Email:      creds.Email,
		Configured: true,
	})
}

type mappingRequest struct {
	Project string `json:"project"`
	Task    string `json:"task"`
}

// handleListMappings returns the configured project/task defaults
func (s *Server) handleListMappings(c echo.Context) error {
	mappings, err := s.store.ListMappings(c.Request().Context())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, mappings)
}

// handleSaveMappings replaces the whole mapping set. Fully blank rows are
// dropped; half-filled rows are rejected.
func (s *Server) handleSaveMappings(c echo.Context) error {
	var req []mappingRequest
	if err := c.Bind(&req); err != nil {
		return s.respondError(c, apperr.Validation("invalid request body"))
	}

	if len(req) > model.MaxMappings {
		return s.respondError(c, apperr.Validation("at most %d mappings are allowed", model.MaxMappings))
	}

	mappings := []model.ProjectTaskMapping{}
	for _, row := range req {
		project := strings.TrimSpace(row.Project)
		task := strings.TrimSpace(row.Task)
		if project == "" && task == "" {
			continue
		}
		if project == "" || task == "" {
			return s.respondError(c, apperr.Validation("both project and task are required per row"))
		}
		mappings = append(mappings, model.ProjectTaskMapping{Project: project, Task: task})
	}

	ctx := c.Request().Context()
	if err := s.store.ReplaceMappings(ctx, mappings); err != nil {
		return s.respondError(c, err)
	}

	saved, err := s.store.ListMappings(ctx)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}
