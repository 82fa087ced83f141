package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildsense/buildsense/pkg/api/types"
	"github.com/buildsense/buildsense/pkg/execution"
	"github.com/buildsense/buildsense/pkg/pipeline"
)

// ExecutionsHandler handles execution lifecycle endpoints
type ExecutionsHandler struct {
	pipe *pipeline.Pipeline
}

// NewExecutionsHandler creates a new executions handler
func NewExecutionsHandler(pipe *pipeline.Pipeline) *ExecutionsHandler {
	return &ExecutionsHandler{pipe: pipe}
}

// Pending handles GET /executions/pending
// @Summary      List pending approvals
// @Description  Returns all executions parked waiting for operator approval
// @Tags         executions
// @Produce      json
// @Success      200  {array}  execution.Execution
// @Router       /executions/pending [get]
func (h *ExecutionsHandler) Pending(c *gin.Context) {
	pending := h.pipe.PendingApprovals()
	if pending == nil {
		pending = []execution.Execution{}
	}
	c.JSON(http.StatusOK, pending)
}

// Summary handles GET /executions/summary
// @Summary      Execution activity summary
// @Description  Reports active and pending counts, recent success rate and timing
// @Tags         executions
// @Produce      json
// @Success      200  {object}  execution.Summary
// @Router       /executions/summary [get]
func (h *ExecutionsHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.pipe.ExecutionSummary())
}

// Status handles GET /executions/:plan_id
// @Summary      Get execution status
// @Description  Returns the execution record for a plan, active or historical
// @Tags         executions
// @Produce      json
// @Param        plan_id  path      string  true  "Plan ID"
// @Success      200      {object}  execution.Execution
// @Failure      404      {object}  types.ErrorResponse  "Plan not found"
// @Router       /executions/{plan_id} [get]
func (h *ExecutionsHandler) Status(c *gin.Context) {
	exec, ok := h.pipe.ExecutionStatus(c.Param("plan_id"))
	if !ok {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "Plan not found",
		})
		return
	}
	c.JSON(http.StatusOK, exec)
}

// Approve handles POST /executions/:plan_id/approve
// @Summary      Approve and run a parked plan
// @Description  Approves an execution waiting for approval and runs it to completion
// @Tags         executions
// @Accept       json
// @Produce      json
// @Param        plan_id  path      string                true  "Plan ID"
// @Param        request  body      types.ApproveRequest  true  "Approver"
// @Success      200      {object}  execution.Execution
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Plan not found"
// @Failure      409      {object}  types.ErrorResponse  "Plan is not pending approval"
// @Router       /executions/{plan_id}/approve [post]
func (h *ExecutionsHandler) Approve(c *gin.Context) {
	var req types.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "approved_by is required",
		})
		return
	}

	exec, err := h.pipe.ApprovePlan(c.Request.Context(), c.Param("plan_id"), req.ApprovedBy)
	if err != nil {
		if errors.Is(err, execution.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{
				Error:   "not_found",
				Message: "Plan not found",
			})
			return
		}
		if errors.Is(err, execution.ErrNotPendingApproval) {
			c.JSON(http.StatusConflict, types.ErrorResponse{
				Error:   "not_pending",
				Message: "Plan is not pending approval",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "execution_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, exec)
}

// Cancel handles POST /executions/:plan_id/cancel
// @Summary      Cancel an active execution
// @Description  Cancels a pending or running execution and moves it to history
// @Tags         executions
// @Accept       json
// @Produce      json
// @Param        plan_id  path      string               true  "Plan ID"
// @Param        request  body      types.CancelRequest  true  "Canceller"
// @Success      200      {object}  types.StatusResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Plan not found"
// @Router       /executions/{plan_id}/cancel [post]
func (h *ExecutionsHandler) Cancel(c *gin.Context) {
	var req types.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "cancelled_by is required",
		})
		return
	}

	if !h.pipe.CancelExecution(c.Param("plan_id"), req.CancelledBy) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "Plan not found",
		})
		return
	}
	c.JSON(http.StatusOK, types.StatusResponse{Status: "cancelled"})
}
