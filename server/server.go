package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/existflow/timelog/internal/apperr"
	"github.com/existflow/timelog/internal/catalog"
	"github.com/existflow/timelog/internal/logger"
	"github.com/existflow/timelog/internal/model"
	"github.com/existflow/timelog/internal/store"
	"github.com/existflow/timelog/internal/timer"
)

// Server exposes the timer engine, record store and catalog cache over HTTP
type Server struct {
	store   *store.Store
	engine  *timer.Engine
	catalog *catalog.Cache
	echo    *echo.Echo
}

// New creates a server over explicitly constructed collaborators
func New(st *store.Store, engine *timer.Engine, cat *catalog.Cache) *Server {
	s := &Server{
		store:   st,
		engine:  engine,
		catalog: cat,
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	// Request/response logging through the internal logger
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			logger.Info("HTTP request",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", time.Since(start).String()))

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	// Timer and history stay reachable no matter what the catalog does
	api.GET("/timer", s.handleTimerState)
	api.POST("/timer", s.handleTimerPost)
	api.GET("/records", s.handleListRecords)
	api.POST("/records", s.handleSubmitRecord)
	api.GET("/settings", s.handleGetSettings)
	api.PUT("/settings", s.handleSaveSettings)
	api.GET("/mappings", s.handleListMappings)
	api.PUT("/mappings", s.handleSaveMappings)

	// Catalog-backed routes answer not_configured until credentials exist
	guarded := api.Group("", s.requireConfigured)
	guarded.GET("/projects", s.handleListProjects)
	guarded.GET("/projects/:key/tasks", s.handleListTasks)
	guarded.POST("/catalog/invalidate", s.handleInvalidateCatalog)

	s.echo = e
}

// requireConfigured is the API analog of a login redirect: credentials must
// exist before catalog-backed routes answer.
func (s *Server) requireConfigured(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		creds, err := s.store.GetOrCreateCredentials(c.Request().Context(), model.ServiceJira)
		if err != nil {
			return s.respondError(c, err)
		}
		if !creds.Configured() {
			return s.respondError(c, apperr.New(apperr.KindNotConfigured,
				"issue tracker connection is not configured"))
		}
		return next(c)
	}
}

// respondError maps error kinds onto HTTP statuses
func (s *Server) respondError(c echo.Context, err error) error {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotConfigured:
		status = http.StatusConflict
	case apperr.KindCatalogUnavailable:
		status = http.StatusBadGateway
	case apperr.KindStorage:
		status = http.StatusInternalServerError
	default:
		kind = "internal"
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			logger.F("uri", c.Request().RequestURI),
			logger.F("error", err))
	}

	return c.JSON(status, map[string]string{
		"code":  string(kind),
		"error": err.Error(),
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}
