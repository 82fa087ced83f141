package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health status of the coordination service and its database"),
		),
		s.handleGetHealth,
	)

	// List rooms
	s.mcpServer.AddTool(
		mcp.NewTool("list_rooms",
			mcp.WithDescription("List all managed rooms with their IDs, for use with the room_id parameters of other tools"),
		),
		s.handleListRooms,
	)

	// Run coordination
	s.mcpServer.AddTool(
		mcp.NewTool("run_coordination",
			mcp.WithDescription("Run one multi-agent coordination round for a room and return the ranked decision plans. With execute set, the best plan is executed immediately (or parked for approval when its recommendation is not AUTO)."),
			mcp.WithNumber("room_id",
				mcp.Required(),
				mcp.Description("Room ID to coordinate"),
			),
			mcp.WithString("strategy",
				mcp.Description("Single resolution strategy to use (priority_weighted, majority_vote, safety_first, energy_balance); omit to run the default set"),
			),
			mcp.WithBoolean("execute",
				mcp.Description("Execute the best plan immediately (default false)"),
			),
		),
		s.handleRunCoordination,
	)

	// Pending approvals
	s.mcpServer.AddTool(
		mcp.NewTool("get_pending_approvals",
			mcp.WithDescription("List all decision plans parked waiting for operator approval"),
		),
		s.handleGetPendingApprovals,
	)

	// Approve plan
	s.mcpServer.AddTool(
		mcp.NewTool("approve_plan",
			mcp.WithDescription("Approve a parked decision plan and run it to completion"),
			mcp.WithString("plan_id",
				mcp.Required(),
				mcp.Description("Plan ID to approve"),
			),
			mcp.WithString("approved_by",
				mcp.Required(),
				mcp.Description("Name of the approving operator"),
			),
		),
		s.handleApprovePlan,
	)

	// Cancel execution
	s.mcpServer.AddTool(
		mcp.NewTool("cancel_execution",
			mcp.WithDescription("Cancel an active or pending execution"),
			mcp.WithString("plan_id",
				mcp.Required(),
				mcp.Description("Plan ID to cancel"),
			),
			mcp.WithString("cancelled_by",
				mcp.Description("Name of the cancelling operator"),
			),
		),
		s.handleCancelExecution,
	)

	// Execution summary
	s.mcpServer.AddTool(
		mcp.NewTool("get_execution_summary",
			mcp.WithDescription("Report execution engine activity: active and pending counts, recent success rate and timing"),
		),
		s.handleGetExecutionSummary,
	)

	// Evaluate SLOs
	s.mcpServer.AddTool(
		mcp.NewTool("evaluate_slos",
			mcp.WithDescription("Evaluate all active SLOs against a room's current state and report compliance and violations"),
			mcp.WithNumber("room_id",
				mcp.Required(),
				mcp.Description("Room ID to evaluate"),
			),
		),
		s.handleEvaluateSLOs,
	)
}
