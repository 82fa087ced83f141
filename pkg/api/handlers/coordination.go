package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildsense/buildsense/pkg/api/types"
	"github.com/buildsense/buildsense/pkg/coordinator"
	"github.com/buildsense/buildsense/pkg/db"
	"github.com/buildsense/buildsense/pkg/pipeline"
)

// CoordinationHandler triggers coordination rounds
type CoordinationHandler struct {
	pipe *pipeline.Pipeline
}

// NewCoordinationHandler creates a new coordination handler
func NewCoordinationHandler(pipe *pipeline.Pipeline) *CoordinationHandler {
	return &CoordinationHandler{pipe: pipe}
}

// Coordinate handles POST /rooms/:id/coordinate
// @Summary      Run a coordination round
// @Description  Collects agent proposals for a room, resolves them under the requested strategies and returns the ranked plans. With execute set, the best plan is handed to the execution engine immediately.
// @Tags         coordination
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true   "Room ID"
// @Param        request  body      types.CoordinateRequest  false  "Round options"
// @Success      200      {object}  pipeline.CoordinationResult
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Room not found"
// @Router       /rooms/{id}/coordinate [post]
func (h *CoordinationHandler) Coordinate(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}

	var req types.CoordinateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid request body",
			})
			return
		}
	}

	var strategies []coordinator.Strategy
	for _, s := range req.Strategies {
		strategies = append(strategies, coordinator.Strategy(s))
	}

	result, err := h.pipe.RunCoordination(c.Request.Context(), id, strategies, req.Execute, "api")
	if err != nil {
		if errors.Is(err, db.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{
				Error:   "not_found",
				Message: "Room not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "coordination_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
