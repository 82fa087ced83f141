package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/buildsense/buildsense/pkg/coordinator"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dbStatus := "connected"
	status := "healthy"
	if err := s.store.PingContext(ctx); err != nil {
		dbStatus = "disconnected"
		status = "unhealthy"
	}

	out := GetHealthOutput{
		Status:    status,
		Database:  dbStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rooms, err := s.store.Rooms().List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list rooms: %s", err)), nil
	}

	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, RoomInfo{ID: r.ID, Name: r.Name})
	}

	out := ListRoomsOutput{
		Rooms: infos,
		Count: len(infos),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleRunCoordination(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomID, err := requiredNumber(request, "room_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var strategies []coordinator.Strategy
	if strategy, ok := request.GetArguments()["strategy"].(string); ok && strategy != "" {
		strategies = []coordinator.Strategy{coordinator.Strategy(strategy)}
	}

	execute := false
	if e, ok := request.GetArguments()["execute"].(bool); ok {
		execute = e
	}

	result, err := s.pipe.RunCoordination(ctx, int64(roomID), strategies, execute, "mcp")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("coordination failed: %s", err)), nil
	}

	out := RunCoordinationOutput{
		RoomID:   result.Room.ID,
		RoomName: result.Room.Name,
		Summary:  result.Summary,
	}
	for _, p := range result.Plans {
		out.Plans = append(out.Plans, PlanInfo{
			PlanID:         p.ID,
			Strategy:       string(p.Meta.ResolutionStrategy),
			Rank:           p.Meta.Rank,
			Score:          p.Score,
			Confidence:     p.Confidence,
			Recommendation: p.Meta.Recommendation,
			TotalActions:   p.Meta.TotalActions,
			SLOViolations:  p.Meta.SLOViolations,
		})
	}
	if result.Execution != nil {
		out.ExecutionStatus = string(result.Execution.Status)
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetPendingApprovals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pending := s.pipe.PendingApprovals()

	infos := make([]PendingInfo, 0, len(pending))
	for _, e := range pending {
		infos = append(infos, PendingInfo{
			PlanID:       e.PlanID,
			Mode:         e.Mode,
			TotalActions: len(e.Results),
			StartedAt:    e.StartedAt.UTC().Format(time.RFC3339),
		})
	}

	out := GetPendingApprovalsOutput{
		Pending: infos,
		Count:   len(infos),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleApprovePlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := requiredString(request, "plan_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	approvedBy, err := requiredString(request, "approved_by")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	exec, err := s.pipe.ApprovePlan(ctx, planID, approvedBy)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to approve plan: %s", err)), nil
	}

	out := ApprovePlanOutput{
		Success:   true,
		Message:   fmt.Sprintf("Plan %q approved by %q and executed", planID, approvedBy),
		Status:    string(exec.Status),
		Completed: exec.CompletedActions(),
		Failed:    exec.FailedActions(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleCancelExecution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := requiredString(request, "plan_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cancelledBy := "mcp"
	if by, ok := request.GetArguments()["cancelled_by"].(string); ok && by != "" {
		cancelledBy = by
	}

	if !s.pipe.CancelExecution(planID, cancelledBy) {
		return mcp.NewToolResultError(fmt.Sprintf("plan %q is not active", planID)), nil
	}

	out := CancelExecutionOutput{
		Success: true,
		Message: fmt.Sprintf("Execution of plan %q cancelled", planID),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetExecutionSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatJSON(s.pipe.ExecutionSummary())), nil
}

func (s *Server) handleEvaluateSLOs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomID, err := requiredNumber(request, "room_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	eval, err := s.pipe.EvaluateSLOs(ctx, int64(roomID))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to evaluate SLOs: %s", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(eval)), nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func requiredNumber(request mcp.CallToolRequest, key string) (float64, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("required parameter %q is missing", key)
	}
	n, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("parameter %q must be a number", key)
	}
	return n, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
