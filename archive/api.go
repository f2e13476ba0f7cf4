package archive

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pevans/newsdigest/extract"
)

// RouteRegistrar mounts additional routes under /api/v1.
type RouteRegistrar interface {
	RegisterRoutes(api *gin.RouterGroup)
}

// APIServer represents the read-only HTTP API over the archive.
type APIServer struct {
	store *RunStore
}

// NewAPIServer creates a new archive API server.
func NewAPIServer(store *RunStore) *APIServer {
	return &APIServer{
		store: store,
	}
}

// SetupRouter configures the Gin router with the archive routes and the
// routes of any extra registrars.
func (s *APIServer) SetupRouter(extra ...RouteRegistrar) *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	s.RegisterRoutes(api)
	for _, r := range extra {
		r.RegisterRoutes(api)
	}

	return router
}

// RegisterRoutes mounts the archive routes on a router group.
func (s *APIServer) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/runs", s.HandleListRuns)
	api.GET("/runs/:id", s.HandleGetRun)
	api.GET("/runs/:id/records", s.HandleListRecords)
}

// ListRunsResponse represents the response for GET /api/v1/runs.
type ListRunsResponse struct {
	Runs  []Run `json:"runs"`
	Total int   `json:"total"`
}

// ListRecordsResponse represents the response for GET
// /api/v1/runs/{id}/records.
type ListRecordsResponse struct {
	RunID   uuid.UUID        `json:"run_id"`
	Records []extract.Record `json:"records"`
	Total   int              `json:"total"`
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// handleError maps domain errors to HTTP responses.
func (s *APIServer) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRunNotFound):
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

// HandleListRuns handles GET /api/v1/runs.
func (s *APIServer) HandleListRuns(c *gin.Context) {
	filter := RunFilter{}

	if source := c.Query("source"); source != "" {
		filter.Source = &source
	}

	var ok bool
	if filter.Limit, ok = queryInt(c, "limit"); !ok {
		return
	}
	if filter.Offset, ok = queryInt(c, "offset"); !ok {
		return
	}

	runs, err := s.store.ListRuns(filter)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListRunsResponse{
		Runs:  runs,
		Total: len(runs),
	})
}

// HandleGetRun handles GET /api/v1/runs/{id}.
func (s *APIServer) HandleGetRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", "Invalid run ID"))
		return
	}

	run, err := s.store.GetRun(runID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// HandleListRecords handles GET /api/v1/runs/{id}/records.
func (s *APIServer) HandleListRecords(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", "Invalid run ID"))
		return
	}

	records, err := s.store.ListRecords(runID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListRecordsResponse{
		RunID:   runID,
		Records: records,
		Total:   len(records),
	})
}

// queryInt parses an optional non-negative integer query parameter. On a
// bad value it writes a 400 response and returns false.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", "invalid "+name+": must be a non-negative integer"))
		return 0, false
	}

	return n, true
}
