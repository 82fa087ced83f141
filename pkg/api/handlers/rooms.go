package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/buildsense/buildsense/pkg/api/types"
	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/db"
	"github.com/buildsense/buildsense/pkg/pipeline"
)

// RoomsHandler handles room and sensor endpoints
type RoomsHandler struct {
	store *db.DB
	pipe  *pipeline.Pipeline
}

// NewRoomsHandler creates a new rooms handler
func NewRoomsHandler(store *db.DB, pipe *pipeline.Pipeline) *RoomsHandler {
	return &RoomsHandler{store: store, pipe: pipe}
}

func roomID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Room ID must be an integer",
		})
		return 0, false
	}
	return id, true
}

// ListRooms handles GET /rooms
// @Summary      List rooms
// @Description  Returns all managed rooms
// @Tags         rooms
// @Produce      json
// @Success      200  {object}  types.ListRoomsResponse
// @Router       /rooms [get]
func (h *RoomsHandler) ListRooms(c *gin.Context) {
	rooms, err := h.store.Rooms().List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}
	if rooms == nil {
		rooms = []building.Room{}
	}
	c.JSON(http.StatusOK, types.ListRoomsResponse{Rooms: rooms, Count: len(rooms)})
}

// GetRoom handles GET /rooms/:id
// @Summary      Get room snapshot
// @Description  Returns the room with its devices and latest sensor readings
// @Tags         rooms
// @Produce      json
// @Param        id   path      int  true  "Room ID"
// @Success      200  {object}  building.Snapshot
// @Failure      404  {object}  types.ErrorResponse  "Room not found"
// @Router       /rooms/{id} [get]
func (h *RoomsHandler) GetRoom(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}

	snap, err := h.store.Rooms().Snapshot(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{
				Error:   "not_found",
				Message: "Room not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// RecordReadings handles POST /rooms/:id/readings
// @Summary      Record sensor readings
// @Description  Appends a new set of sensor readings for a room
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id       path      int                    true  "Room ID"
// @Param        request  body      types.ReadingsRequest  true  "Readings to record"
// @Success      200      {object}  types.StatusResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Room not found"
// @Router       /rooms/{id}/readings [post]
func (h *RoomsHandler) RecordReadings(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}

	var req types.ReadingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.Rooms().Get(ctx, id); err != nil {
		if errors.Is(err, db.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{
				Error:   "not_found",
				Message: "Room not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}

	readings := building.SensorReadings{
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		CO2:         req.CO2,
		Occupancy:   req.Occupancy,
		LightLevel:  req.LightLevel,
	}
	if err := h.store.Sensors().Record(ctx, id, readings); err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.StatusResponse{Status: "recorded"})
}

// Decisions handles GET /rooms/:id/decisions
// @Summary      List decision history
// @Description  Returns the most recent audited agent decisions for a room
// @Tags         rooms
// @Produce      json
// @Param        id     path      int  true   "Room ID"
// @Param        limit  query     int  false  "Maximum entries to return (default 50)"
// @Success      200    {array}   db.DecisionLogEntry
// @Failure      404    {object}  types.ErrorResponse  "Room not found"
// @Router       /rooms/{id}/decisions [get]
func (h *RoomsHandler) Decisions(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.Rooms().Get(ctx, id); err != nil {
		if errors.Is(err, db.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{
				Error:   "not_found",
				Message: "Room not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.store.Decisions().ListByRoom(ctx, id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}
	if entries == nil {
		entries = []db.DecisionLogEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// SLOReport handles GET /rooms/:id/slo-report
// @Summary      Evaluate SLOs for a room
// @Description  Evaluates all active SLOs against the room's current state
// @Tags         rooms
// @Produce      json
// @Param        id   path      int  true  "Room ID"
// @Success      200  {object}  slo.Evaluation
// @Failure      404  {object}  types.ErrorResponse  "Room not found"
// @Router       /rooms/{id}/slo-report [get]
func (h *RoomsHandler) SLOReport(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}

	eval, err := h.pipe.EvaluateSLOs(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{
				Error:   "not_found",
				Message: "Room not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "evaluation_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, eval)
}
