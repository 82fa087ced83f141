package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/buildsense/buildsense/pkg/api/types"
	"github.com/buildsense/buildsense/pkg/db"
	"github.com/buildsense/buildsense/pkg/slo"
)

// SLOsHandler handles SLO management endpoints
type SLOsHandler struct {
	store *db.DB
}

// NewSLOsHandler creates a new SLOs handler
func NewSLOsHandler(store *db.DB) *SLOsHandler {
	return &SLOsHandler{store: store}
}

func sloID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "SLO ID must be an integer",
		})
		return 0, false
	}
	return id, true
}

// List handles GET /slos
// @Summary      List SLOs
// @Description  Returns all SLOs; pass active=true to filter to active ones
// @Tags         slos
// @Produce      json
// @Param        active  query     bool  false  "Only active SLOs"
// @Success      200     {array}   slo.SLO
// @Router       /slos [get]
func (h *SLOsHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	slos, err := h.store.SLOs().List(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}
	if slos == nil {
		slos = []slo.SLO{}
	}
	c.JSON(http.StatusOK, slos)
}

// Get handles GET /slos/:id
// @Summary      Get an SLO
// @Tags         slos
// @Produce      json
// @Param        id   path      int  true  "SLO ID"
// @Success      200  {object}  slo.SLO
// @Failure      404  {object}  types.ErrorResponse  "SLO not found"
// @Router       /slos/{id} [get]
func (h *SLOsHandler) Get(c *gin.Context) {
	id, ok := sloID(c)
	if !ok {
		return
	}

	out, err := h.store.SLOs().Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrSLONotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{
				Error:   "not_found",
				Message: "SLO not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, out)
}

// Create handles POST /slos
// @Summary      Create an SLO
// @Description  Creates a user-defined SLO; weights should keep the active set summing to 1
// @Tags         slos
// @Accept       json
// @Produce      json
// @Param        request  body      types.SLORequest  true  "SLO to create"
// @Success      201      {object}  slo.SLO
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Router       /slos [post]
func (h *SLOsHandler) Create(c *gin.Context) {
	var req types.SLORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = "api"
	}

	out := &slo.SLO{
		Name:        req.Name,
		Description: req.Description,
		Metric:      req.Metric,
		TargetValue: req.TargetValue,
		Weight:      req.Weight,
		Active:      active,
		Config:      req.Config,
		CreatedBy:   createdBy,
	}
	if err := h.store.SLOs().Create(c.Request.Context(), out); err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, out)
}

// Update handles PUT /slos/:id
// @Summary      Update an SLO
// @Tags         slos
// @Accept       json
// @Produce      json
// @Param        id       path      int               true  "SLO ID"
// @Param        request  body      types.SLORequest  true  "New SLO values"
// @Success      200      {object}  slo.SLO
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "SLO not found"
// @Router       /slos/{id} [put]
func (h *SLOsHandler) Update(c *gin.Context) {
	id, ok := sloID(c)
	if !ok {
		return
	}

	var req types.SLORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	existing, err := h.store.SLOs().Get(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrSLONotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{
				Error:   "not_found",
				Message: "SLO not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Metric = req.Metric
	existing.TargetValue = req.TargetValue
	existing.Weight = req.Weight
	if req.Active != nil {
		existing.Active = *req.Active
	}
	existing.Config = req.Config

	if err := h.store.SLOs().Update(ctx, existing); err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, existing)
}

// Delete handles DELETE /slos/:id
// @Summary      Delete an SLO
// @Description  Deletes a user-defined SLO; system-defined SLOs cannot be deleted
// @Tags         slos
// @Produce      json
// @Param        id   path      int  true  "SLO ID"
// @Success      200  {object}  types.StatusResponse
// @Failure      403  {object}  types.ErrorResponse  "System-defined SLO"
// @Failure      404  {object}  types.ErrorResponse  "SLO not found"
// @Router       /slos/{id} [delete]
func (h *SLOsHandler) Delete(c *gin.Context) {
	id, ok := sloID(c)
	if !ok {
		return
	}

	err := h.store.SLOs().Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrSLONotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{
				Error:   "not_found",
				Message: "SLO not found",
			})
			return
		}
		if errors.Is(err, db.ErrSystemSLO) {
			c.JSON(http.StatusForbidden, types.ErrorResponse{
				Error:   "system_slo",
				Message: "System-defined SLOs cannot be deleted",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.StatusResponse{Status: "deleted"})
}
