package sources

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIServer serves the source profiles over HTTP.
type APIServer struct {
	registry *Registry
}

// NewAPIServer creates a new profile API server.
func NewAPIServer(registry *Registry) *APIServer {
	return &APIServer{
		registry: registry,
	}
}

// RegisterRoutes mounts the profile routes on a router group.
func (s *APIServer) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/sources", s.HandleListSources)
	api.GET("/sources/:name", s.HandleGetSource)
}

// ListSourcesResponse represents the response for GET /api/v1/sources.
type ListSourcesResponse struct {
	Sources []Profile `json:"sources"`
	Total   int       `json:"total"`
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
	case errors.Is(err, ErrProfileNotFound):
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

// HandleListSources handles GET /api/v1/sources.
func (s *APIServer) HandleListSources(c *gin.Context) {
	profiles := s.registry.List()

	c.JSON(http.StatusOK, ListSourcesResponse{
		Sources: profiles,
		Total:   len(profiles),
	})
}

// HandleGetSource handles GET /api/v1/sources/{name}.
func (s *APIServer) HandleGetSource(c *gin.Context) {
	profile, err := s.registry.Lookup(c.Param("name"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
