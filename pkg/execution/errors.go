package execution

import "errors"

var (
	// ErrPlanNotFound is returned when a plan ID is not in the active registry.
	ErrPlanNotFound = errors.New("execution plan not found")
	// ErrNotPendingApproval is returned when approving a plan that is not
	// waiting for approval.
	ErrNotPendingApproval = errors.New("execution plan is not pending approval")
)
