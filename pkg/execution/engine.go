// Package execution runs approved decision plans against the device layer:
// a bounded worker pool executes actions, an approval gate holds MANUAL and
// REVIEW plans, and a history retains finished executions for auditing.
package execution

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/buildsense/buildsense/pkg/agent"
	"github.com/buildsense/buildsense/pkg/coordinator"
)

// Status is the lifecycle state of an execution or a single action.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusTimeout    Status = "timeout"
	StatusCancelled  Status = "cancelled"
)

// ActionResult tracks one action through execution.
type ActionResult struct {
	Action    agent.Action   `json:"action"`
	DeviceID  string         `json:"device_id"`
	Verb      string         `json:"action_type"`
	Status    Status         `json:"status"`
	StartedAt time.Time      `json:"start_time,omitzero"`
	EndedAt   time.Time      `json:"end_time,omitzero"`
	Error     string         `json:"error_message,omitempty"`
	Response  map[string]any `json:"response_data,omitempty"`
}

// ExecutionTimeMS returns the action's wall time in milliseconds, 0 until
// the action has finished.
func (r ActionResult) ExecutionTimeMS() float64 {
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() {
		return 0
	}
	return float64(r.EndedAt.Sub(r.StartedAt)) / float64(time.Millisecond)
}

// Execution is the run state of one decision plan.
type Execution struct {
	PlanID           string            `json:"plan_id"`
	Plan             *coordinator.Plan `json:"-"`
	Mode             string            `json:"execution_mode"`
	Status           Status            `json:"status"`
	Results          []ActionResult    `json:"action_results"`
	StartedAt        time.Time         `json:"start_time,omitzero"`
	EndedAt          time.Time         `json:"end_time,omitzero"`
	Executor         string            `json:"executor,omitempty"`
	ApprovalRequired bool              `json:"approval_required"`
	Approved         bool              `json:"approved"`
	ApprovedBy       string            `json:"approved_by,omitempty"`
	ApprovedAt       time.Time         `json:"approval_time,omitzero"`
}

// ExecutionTimeMS returns the plan's wall time in milliseconds, 0 until done.
func (e *Execution) ExecutionTimeMS() float64 {
	if e.StartedAt.IsZero() || e.EndedAt.IsZero() {
		return 0
	}
	return float64(e.EndedAt.Sub(e.StartedAt)) / float64(time.Millisecond)
}

// Progress reports the fraction of actions in a terminal state, as a
// percentage. An empty plan reports 0.
func (e *Execution) Progress() float64 {
	if len(e.Results) == 0 {
		return 0
	}
	done := 0
	for _, r := range e.Results {
		if r.Status == StatusCompleted || r.Status == StatusFailed {
			done++
		}
	}
	return float64(done) / float64(len(e.Results)) * 100
}

// CompletedActions counts actions that finished successfully.
func (e *Execution) CompletedActions() int {
	n := 0
	for _, r := range e.Results {
		if r.Status == StatusCompleted {
			n++
		}
	}
	return n
}

// FailedActions counts actions that finished with an error.
func (e *Execution) FailedActions() int {
	n := 0
	for _, r := range e.Results {
		if r.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Summary aggregates recent execution activity.
type Summary struct {
	ActiveExecutions       int     `json:"active_executions"`
	PendingApproval        int     `json:"pending_approval"`
	RecentSuccessRate      float64 `json:"recent_success_rate"`
	TotalExecutionsToday   int     `json:"total_executions_today"`
	AverageExecutionTimeMS float64 `json:"average_execution_time_ms"`
}

// Engine executes decision plans with bounded parallelism and an approval
// gate for non-AUTO modes.
type Engine struct {
	controller  Controller
	maxParallel int

	mu      sync.Mutex
	active  map[string]*Execution
	history []*Execution

	now func() time.Time
}

// NewEngine builds an Engine over the given device controller with the
// default parallelism of 5.
func NewEngine(controller Controller) *Engine {
	return &Engine{
		controller:  controller,
		maxParallel: 5,
		active:      map[string]*Execution{},
		now:         time.Now,
	}
}

// ExecutePlan starts the plan under the given mode. AUTO plans run
// immediately and the call blocks until they finish. MANUAL and REVIEW plans
// are parked pending approval and returned in state pending.
func (e *Engine) ExecutePlan(ctx context.Context, plan *coordinator.Plan, mode, executor string) *Execution {
	exec := &Execution{
		PlanID:           plan.ID,
		Plan:             plan,
		Mode:             mode,
		Status:           StatusPending,
		Executor:         executor,
		ApprovalRequired: mode != coordinator.RecommendAuto,
		StartedAt:        e.now(),
	}
	for _, a := range plan.Actions {
		exec.Results = append(exec.Results, ActionResult{
			Action:   a,
			DeviceID: a.DeviceID,
			Verb:     a.Verb,
			Status:   StatusPending,
		})
	}

	e.mu.Lock()
	e.active[exec.PlanID] = exec
	e.mu.Unlock()

	if exec.ApprovalRequired {
		log.Info().Str("plan", exec.PlanID).Str("mode", mode).Msg("Execution parked pending approval")
		return exec
	}

	e.run(ctx, exec)
	return exec
}

// ApproveAndExecute approves a parked plan and runs it, blocking until it
// finishes.
func (e *Engine) ApproveAndExecute(ctx context.Context, planID, approvedBy string) (*Execution, error) {
	e.mu.Lock()
	exec, ok := e.active[planID]
	if !ok {
		e.mu.Unlock()
		return nil, ErrPlanNotFound
	}
	if exec.Status != StatusPending || !exec.ApprovalRequired || exec.Approved {
		e.mu.Unlock()
		return nil, ErrNotPendingApproval
	}
	exec.Approved = true
	exec.ApprovedBy = approvedBy
	exec.ApprovedAt = e.now()
	e.mu.Unlock()

	log.Info().Str("plan", planID).Str("approved_by", approvedBy).Msg("Execution approved")
	e.run(ctx, exec)
	return exec, nil
}

// run executes all plan actions with bounded parallelism, then settles the
// final status: COMPLETED unless every action failed.
func (e *Engine) run(ctx context.Context, exec *Execution) {
	e.mu.Lock()
	exec.Status = StatusInProgress
	e.mu.Unlock()

	sem := make(chan struct{}, e.maxParallel)
	var wg sync.WaitGroup
	for i := range exec.Results {
		wg.Add(1)
		go func(r *ActionResult) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			e.runAction(ctx, exec, r)
		}(&exec.Results[i])
	}
	wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()

	// A concurrent cancel already settled this execution and moved it to
	// history; leave its record alone.
	if _, stillActive := e.active[exec.PlanID]; !stillActive {
		return
	}

	failed := exec.FailedActions()
	if failed == len(exec.Results) && len(exec.Results) > 0 {
		exec.Status = StatusFailed
	} else {
		// Partial failures still count as completed.
		exec.Status = StatusCompleted
	}
	exec.EndedAt = e.now()

	delete(e.active, exec.PlanID)
	e.history = append(e.history, exec)

	log.Info().
		Str("plan", exec.PlanID).
		Str("status", string(exec.Status)).
		Int("completed", exec.CompletedActions()).
		Int("failed", failed).
		Msg("Execution finished")
}

func (e *Engine) runAction(ctx context.Context, exec *Execution, r *ActionResult) {
	e.mu.Lock()
	r.Status = StatusInProgress
	r.StartedAt = e.now()
	e.mu.Unlock()

	resp, err := e.controller.Execute(ctx, r.Action)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		r.Status = StatusFailed
		r.Error = err.Error()
		log.Warn().Err(err).Str("plan", exec.PlanID).Str("device", r.DeviceID).Msg("Action failed")
	} else {
		r.Status = StatusCompleted
		r.Response = resp
	}
	r.EndedAt = e.now()
}

// Status returns a copy of the execution record for a plan, searching active
// executions first, then history.
func (e *Engine) Status(planID string) (Execution, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if exec, ok := e.active[planID]; ok {
		return snapshotExecution(exec), true
	}
	for _, exec := range e.history {
		if exec.PlanID == planID {
			return snapshotExecution(exec), true
		}
	}
	return Execution{}, false
}

// PendingApprovals returns copies of all executions waiting for approval.
func (e *Engine) PendingApprovals() []Execution {
	e.mu.Lock()
	defer e.mu.Unlock()

	var pending []Execution
	for _, exec := range e.active {
		if exec.ApprovalRequired && !exec.Approved {
			pending = append(pending, snapshotExecution(exec))
		}
	}
	return pending
}

// Cancel stops tracking an active execution, marks it cancelled and moves it
// to history. It returns false when the plan is not in the active registry,
// including on a second cancel of the same plan.
func (e *Engine) Cancel(planID, cancelledBy string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	exec, ok := e.active[planID]
	if !ok {
		return false
	}
	exec.Status = StatusCancelled
	exec.EndedAt = e.now()
	delete(e.active, planID)
	e.history = append(e.history, exec)

	log.Info().Str("plan", planID).Str("cancelled_by", cancelledBy).Msg("Execution cancelled")
	return true
}

// Summarize reports engine-wide activity: active and pending counts, the
// success rate over the last ten finished executions, today's volume, and
// the mean wall time of completed plans.
func (e *Engine) Summarize() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Summary{ActiveExecutions: len(e.active)}
	for _, exec := range e.active {
		if exec.ApprovalRequired && !exec.Approved {
			s.PendingApproval++
		}
	}

	recent := e.history
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	if len(recent) > 0 {
		successful := 0
		for _, exec := range recent {
			if exec.Status == StatusCompleted {
				successful++
			}
		}
		s.RecentSuccessRate = float64(successful) / float64(len(recent))
	}

	today := e.now()
	completedCount := 0
	totalMS := 0.0
	for _, exec := range e.history {
		if sameDay(exec.StartedAt, today) {
			s.TotalExecutionsToday++
		}
		if exec.Status == StatusCompleted && !exec.StartedAt.IsZero() && !exec.EndedAt.IsZero() {
			completedCount++
			totalMS += exec.ExecutionTimeMS()
		}
	}
	if completedCount > 0 {
		s.AverageExecutionTimeMS = totalMS / float64(completedCount)
	}
	return s
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// snapshotExecution copies an execution record so callers can read it
// without holding the engine lock.
func snapshotExecution(exec *Execution) Execution {
	out := *exec
	out.Results = make([]ActionResult, len(exec.Results))
	copy(out.Results, exec.Results)
	return out
}
