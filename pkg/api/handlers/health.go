package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/buildsense/buildsense/pkg/api/types"
	"github.com/buildsense/buildsense/pkg/db"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store *db.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *db.DB) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and its database
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	dbStatus := "connected"
	status := "healthy"
	httpStatus := http.StatusOK

	if err := h.store.PingContext(c.Request.Context()); err != nil {
		dbStatus = "disconnected"
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Database:  dbStatus,
		Timestamp: time.Now(),
	})
}
