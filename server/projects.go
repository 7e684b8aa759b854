package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleListProjects returns the catalog's projects, each annotated with the
// user's configured default task when one exists.
func (s *Server) handleListProjects(c echo.Context) error {
	ctx := c.Request().Context()

	projects, err := s.catalog.Projects(ctx)
	if err != nil {
		return s.respondError(c, err)
	}

	mappings, err := s.store.ListMappings(ctx)
	if err != nil {
		return s.respondError(c, err)
	}
	defaults := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if _, ok := defaults[m.Project]; !ok {
			defaults[m.Project] = m.Task
		}
	}

	for i := range projects {
		projects[i].DefaultTask = defaults[projects[i].Key]
	}
	return c.JSON(http.StatusOK, projects)
}

// handleListTasks lists a project's time-tracking tasks, optionally filtered
// by a substring of the task key.
func (s *Server) handleListTasks(c echo.Context) error {
	tasks, err := s.catalog.Tasks(c.Request().Context(), c.Param("key"), c.QueryParam("q"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// handleInvalidateCatalog drops the cached catalog on demand
func (s *Server) handleInvalidateCatalog(c echo.Context) error {
	s.catalog.Invalidate()
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
