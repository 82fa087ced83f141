package mcp

import "github.com/buildsense/buildsense/pkg/coordinator"

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string `json:"status" jsonschema:"description=Overall health status (healthy or unhealthy)"`
	Database  string `json:"database" jsonschema:"description=Database connection status"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- List Rooms Tool ---

// RoomInfo represents a room in tool outputs
type RoomInfo struct {
	ID   int64  `json:"id" jsonschema:"description=Room ID"`
	Name string `json:"name" jsonschema:"description=Room name"`
}

// ListRoomsOutput is the output for the list_rooms tool
type ListRoomsOutput struct {
	Rooms []RoomInfo `json:"rooms" jsonschema:"description=List of managed rooms"`
	Count int        `json:"count" jsonschema:"description=Total number of rooms"`
}

// --- Run Coordination Tool ---

// PlanInfo summarizes one ranked plan in tool outputs
type PlanInfo struct {
	PlanID         string  `json:"plan_id" jsonschema:"description=Plan identifier for approve/cancel calls"`
	Strategy       string  `json:"strategy" jsonschema:"description=Conflict resolution strategy that produced the plan"`
	Rank           int     `json:"rank" jsonschema:"description=1-based rank by score"`
	Score          float64 `json:"score" jsonschema:"description=Composite plan score in [0,1]"`
	Confidence     float64 `json:"confidence" jsonschema:"description=Mean agent confidence"`
	Recommendation string  `json:"recommendation" jsonschema:"description=Execution recommendation (AUTO/REVIEW/MANUAL)"`
	TotalActions   int     `json:"total_actions" jsonschema:"description=Number of device actions in the plan"`
	SLOViolations  int     `json:"slo_violations" jsonschema:"description=Projected SLO violations after execution"`
}

// RunCoordinationOutput is the output for the run_coordination tool
type RunCoordinationOutput struct {
	RoomID          int64               `json:"room_id" jsonschema:"description=Coordinated room"`
	RoomName        string              `json:"room_name" jsonschema:"description=Room name"`
	Plans           []PlanInfo          `json:"plans" jsonschema:"description=Ranked decision plans"`
	Summary         coordinator.Summary `json:"summary" jsonschema:"description=Best-plan overview"`
	ExecutionStatus string              `json:"execution_status,omitempty" jsonschema:"description=Status of the immediate execution when execute was set"`
}

// --- Pending Approvals Tool ---

// PendingInfo represents one parked execution in tool outputs
type PendingInfo struct {
	PlanID       string `json:"plan_id" jsonschema:"description=Plan identifier"`
	Mode         string `json:"mode" jsonschema:"description=Execution mode that parked the plan"`
	TotalActions int    `json:"total_actions" jsonschema:"description=Number of device actions"`
	StartedAt    string `json:"started_at" jsonschema:"description=When the plan was parked"`
}

// GetPendingApprovalsOutput is the output for the get_pending_approvals tool
type GetPendingApprovalsOutput struct {
	Pending []PendingInfo `json:"pending" jsonschema:"description=Executions waiting for approval"`
	Count   int           `json:"count" jsonschema:"description=Number of pending executions"`
}

// --- Approve Plan Tool ---

// ApprovePlanOutput is the output for the approve_plan tool
type ApprovePlanOutput struct {
	Success   bool   `json:"success" jsonschema:"description=Whether the approval succeeded"`
	Message   string `json:"message" jsonschema:"description=Status message"`
	Status    string `json:"status" jsonschema:"description=Final execution status"`
	Completed int    `json:"completed_actions" jsonschema:"description=Actions that completed"`
	Failed    int    `json:"failed_actions" jsonschema:"description=Actions that failed"`
}

// --- Cancel Execution Tool ---

// CancelExecutionOutput is the output for the cancel_execution tool
type CancelExecutionOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the cancellation succeeded"`
	Message string `json:"message" jsonschema:"description=Status message"`
}
