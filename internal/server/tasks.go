package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abatilo/taskflow/internal/app"
	"github.com/abatilo/taskflow/internal/form"
	"github.com/abatilo/taskflow/internal/task"
	"github.com/abatilo/taskflow/internal/view"
)

// handleListTasks returns the tasks matching the status, category and search
// query parameters together with stats over the whole collection.
func (s *Server) handleListTasks(c *gin.Context) {
	status, err := view.ParseStatusFilter(c.Query("status"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	filter := view.Filter{
		Status:   status,
		Category: c.DefaultQuery("category", view.AllCategories),
		Search:   c.Query("search"),
	}

	tasks := view.VisibleTasks(s.app.CurrentTasks(), filter)
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "stats": s.app.Stats()})
}

func (s *Server) handleGetTask(c *gin.Context) {
	t, err := s.app.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t})
}

// handleCreateTask creates a task from the default draft overlaid with the body.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req form.Fields
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := req.ApplyTo(task.NewDraft())
	if err != nil {
		s.respondError(c, err)
		return
	}
	t, err := s.app.CreateTask(d)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": t, "message": app.NoticeCreated})
}

// handleUpdateTask overlays the body on the task's current fields.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id := c.Param("id")

	var req form.Fields
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := s.app.Get(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	d, err := req.ApplyTo(task.DraftFrom(existing))
	if err != nil {
		s.respondError(c, err)
		return
	}
	t, err := s.app.UpdateTask(id, d)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t, "message": app.NoticeUpdated})
}

// handleDeleteTask removes a task. Unknown ids succeed.
func (s *Server) handleDeleteTask(c *gin.Context) {
	s.app.DeleteTask(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "message": app.NoticeDeleted})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	t, err := s.app.ToggleTask(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t, "message": app.ToggleNotice(t.Status)})
}
