// Package server exposes the task intents over a local HTTP API.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abatilo/taskflow/internal/app"
	tferrors "github.com/abatilo/taskflow/internal/errors"
)

// Server provides HTTP handlers over an App.
type Server struct {
	engine *gin.Engine
	app    *app.App
	logger *slog.Logger
}

// New constructs the HTTP server with routes and middleware configured.
func New(a *app.App, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	srv := &Server{
		engine: router,
		app:    a,
		logger: logger,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/categories", s.handleListCategories)
		api.GET("/stats", s.handleStats)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.GET(":id", s.handleGetTask)
			tasks.PUT(":id", s.handleUpdateTask)
			tasks.DELETE(":id", s.handleDeleteTask)
			tasks.POST(":id/toggle", s.handleToggleTask)
		}
	}
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": s.app.Categories().All()})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": s.app.Stats()})
}

// requestLogger logs one line per request with slog.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
		)
	}
}

// respondError logs the error and returns a JSON payload with a status
// derived from the error type.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var (
		ve  tferrors.ValidationError
		nf  tferrors.TaskNotFoundError
		ipe tferrors.InvalidPriorityError
		ise tferrors.InvalidStatusFilterError
		ide tferrors.InvalidDateError
	)
	switch {
	case errors.As(err, &nf):
		status = http.StatusNotFound
	case errors.As(err, &ve), errors.As(err, &ipe), errors.As(err, &ise), errors.As(err, &ide):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
