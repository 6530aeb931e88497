package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portscan/scanner"
)

// Server bundles dependencies for HTTP handlers.
type Server struct {
	store TaskStore
}

// NewServer creates a new API server instance.
func NewServer(store TaskStore) *Server {
	return &Server{store: store}
}

// RegisterRoutes attaches handlers to the provided Gin router group.
func (s *Server) RegisterRoutes(routes gin.IRoutes) {
	routes.POST("/scans", s.createScanHandler)
	routes.GET("/scans/:id", s.getScanHandler)
}

// @Summary      Create a new scan task
// @Description  Submit a TCP port scan and let the service execute it asynchronously. The handler validates input, persists the task, and enqueues it for background workers before returning a UUID.
// @Description  POST /scans answers with HTTP 202 Accepted plus the task identifier. Clients poll GET /scans/{id} to observe status transitions (pending → running → completed/failed) and live probe counts.
// @Tags         Scans
// @Accept       json
// @Produce      json
// @Param        scanRequest  body      CreateScanRequest     true  "Scan request parameters"
// @Success      202          {object}  ScanAcceptedResponse  "Scan accepted. Poll GET /scans/{id} to track progress."
// @Failure      400          {object}  ErrorResponse         "Malformed JSON body, port range, or concurrency."
// @Failure      500          {object}  ErrorResponse         "Internal error while persisting or queueing the task."
// @Security     ApiKeyAuth
// @Router       /scans [post]
func (s *Server) createScanHandler(c *gin.Context) {
	var req CreateScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request payload: %v", err)})
		return
	}

	// Malformed parameters are rejected before any work is queued.
	if req.Ports == "" {
		req.Ports = fmt.Sprintf("1-%d", scanner.MaxPort)
	}
	if _, _, err := scanner.ParsePortRange(req.Ports); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if req.Concurrency < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "concurrency must be at least 1"})
		return
	}
	if req.Concurrency == 0 {
		req.Concurrency = scanner.DefaultConcurrency
	}

	task := &ScanTask{
		ID:          uuid.NewString(),
		Status:      "pending",
		Host:        req.Host,
		Ports:       req.Ports,
		Concurrency: req.Concurrency,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.CreateTask(task); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to persist task"})
		return
	}

	if err := s.store.PushToQueue(task.ID); err != nil {
		task.Status = "failed"
		task.Error = "failed to queue task"
		now := time.Now().UTC()
		task.CompletedAt = &now
		_ = s.store.UpdateTask(task)

		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to queue task"})
		return
	}

	c.JSON(http.StatusAccepted, ScanAcceptedResponse{ID: task.ID, Status: task.Status})
}

// @Summary      Get scan status and results
// @Description  Retrieve a live snapshot of a scan task. While the task runs, completed/total expose probe progress; once completed, results holds the open ports sorted ascending.
// @Tags         Scans
// @Produce      json
// @Param        id   path      string         true  "Scan Task ID (UUID v4)"
// @Success      200  {object}  ScanTask       "Current task snapshot including results when completed."
// @Failure      400  {object}  ErrorResponse  "Malformed task identifier."
// @Failure      404  {object}  ErrorResponse  "Task with the provided ID does not exist."
// @Failure      500  {object}  ErrorResponse  "Internal error when loading the task."
// @Security     ApiKeyAuth
// @Router       /scans/{id} [get]
func (s *Server) getScanHandler(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid task id format"})
		return
	}

	task, err := s.store.GetTask(id)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load task"})
		return
	}

	c.JSON(http.StatusOK, task)
}
