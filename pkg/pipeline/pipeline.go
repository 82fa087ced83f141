// Package pipeline wires the decision loop end to end: snapshot a room from
// storage, run a coordination round, validate the winning plan and hand it to
// the execution engine, then persist resulting device state and notify
// WebSocket subscribers.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/building/schema"
	"github.com/buildsense/buildsense/pkg/coordinator"
	"github.com/buildsense/buildsense/pkg/db"
	"github.com/buildsense/buildsense/pkg/execution"
	"github.com/buildsense/buildsense/pkg/slo"
	"github.com/buildsense/buildsense/pkg/ws"
)

// Pipeline owns one coordination-and-execution flow over a shared database.
type Pipeline struct {
	store     *db.DB
	coord     *coordinator.Coordinator
	engine    *execution.Engine
	validator *schema.Validator
	hub       *ws.Hub
}

// New assembles a Pipeline. The hub may be nil when event broadcasting is
// not wanted, e.g. in the MCP server.
func New(store *db.DB, coord *coordinator.Coordinator, engine *execution.Engine, validator *schema.Validator, hub *ws.Hub) *Pipeline {
	return &Pipeline{
		store:     store,
		coord:     coord,
		engine:    engine,
		validator: validator,
		hub:       hub,
	}
}

// CoordinationResult is the outcome of one coordination round, with the
// execution record when the round was executed immediately.
type CoordinationResult struct {
	Room      building.Room        `json:"room"`
	Plans     []*coordinator.Plan  `json:"plans"`
	Summary   coordinator.Summary  `json:"summary"`
	Execution *execution.Execution `json:"execution,omitempty"`
}

// RunCoordination runs one round for a room. When execute is set and the
// round produced plans, the best plan is immediately handed to the execution
// engine under its recommended mode; non-AUTO plans park for approval.
func (p *Pipeline) RunCoordination(ctx context.Context, roomID int64, strategies []coordinator.Strategy, execute bool, executor string) (*CoordinationResult, error) {
	snap, err := p.store.Rooms().Snapshot(ctx, roomID)
	if err != nil {
		return nil, err
	}
	slos, err := p.store.SLOs().List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load SLOs: %w", err)
	}

	plans, err := p.coord.Coordinate(ctx, snap, slos, strategies)
	if err != nil {
		return nil, err
	}

	result := &CoordinationResult{
		Room:    snap.Room,
		Plans:   plans,
		Summary: coordinator.Summarize(plans),
	}
	p.broadcast(ws.EventCoordinationComplete, result.Summary)
	p.recordAudit(ctx, roomID, plans, result.Summary)

	if execute && len(plans) > 0 {
		best := plans[0]
		exec, err := p.Execute(ctx, best, best.Meta.Recommendation, executor)
		if err != nil {
			return nil, err
		}
		result.Execution = exec
	}
	return result, nil
}

// Execute validates a plan's action parameters and hands it to the engine.
// The returned execution is pending when the mode requires approval.
func (p *Pipeline) Execute(ctx context.Context, plan *coordinator.Plan, mode, executor string) (*execution.Execution, error) {
	for _, a := range plan.Actions {
		if err := p.validator.ValidateAction(a.Verb, a.Parameters); err != nil {
			return nil, fmt.Errorf("plan %s rejected: %w", plan.ID, err)
		}
	}

	p.broadcast(ws.EventExecutionStarted, map[string]any{"plan_id": plan.ID, "mode": mode})
	exec := p.engine.ExecutePlan(ctx, plan, mode, executor)

	if !exec.ApprovalRequired {
		p.persistDeviceState(ctx, exec)
		p.broadcast(ws.EventExecutionFinished, exec)
	}
	return exec, nil
}

// ApprovePlan approves a parked plan, runs it and persists the results.
func (p *Pipeline) ApprovePlan(ctx context.Context, planID, approvedBy string) (*execution.Execution, error) {
	exec, err := p.engine.ApproveAndExecute(ctx, planID, approvedBy)
	if err != nil {
		return nil, err
	}
	p.broadcast(ws.EventExecutionApproved, map[string]any{"plan_id": planID, "approved_by": approvedBy})
	p.persistDeviceState(ctx, exec)
	p.broadcast(ws.EventExecutionFinished, exec)
	return exec, nil
}

// CancelExecution cancels an active execution.
func (p *Pipeline) CancelExecution(planID, cancelledBy string) bool {
	ok := p.engine.Cancel(planID, cancelledBy)
	if ok {
		p.broadcast(ws.EventExecutionCancelled, map[string]any{"plan_id": planID, "cancelled_by": cancelledBy})
	}
	return ok
}

// PendingApprovals lists executions waiting for an operator.
func (p *Pipeline) PendingApprovals() []execution.Execution {
	return p.engine.PendingApprovals()
}

// ExecutionStatus looks up an execution by plan ID.
func (p *Pipeline) ExecutionStatus(planID string) (execution.Execution, bool) {
	return p.engine.Status(planID)
}

// ExecutionSummary reports engine-wide activity.
func (p *Pipeline) ExecutionSummary() execution.Summary {
	return p.engine.Summarize()
}

// EvaluateSLOs evaluates the active SLOs against a room's current state.
func (p *Pipeline) EvaluateSLOs(ctx context.Context, roomID int64) (*slo.Evaluation, error) {
	snap, err := p.store.Rooms().Snapshot(ctx, roomID)
	if err != nil {
		return nil, err
	}
	slos, err := p.store.SLOs().List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load SLOs: %w", err)
	}
	eval := slo.Evaluate(snap, slos)
	p.broadcast(ws.EventSLOEvaluated, eval)
	return eval, nil
}

// recordAudit stamps the room with the round summary and appends the best
// plan's agent decisions to the decision log. Audit failures are logged, not
// fatal: the round already produced its result.
func (p *Pipeline) recordAudit(ctx context.Context, roomID int64, plans []*coordinator.Plan, summary coordinator.Summary) {
	if len(plans) == 0 {
		return
	}
	raw, err := json.Marshal(summary)
	if err == nil {
		err = p.store.Rooms().SetLastCoordination(ctx, roomID, raw)
	}
	if err != nil {
		log.Warn().Err(err).Int64("room", roomID).Msg("Failed to record coordination summary")
	}

	best := plans[0]
	if err := p.store.Decisions().Log(ctx, roomID, best.ID, best.AgentDecisions); err != nil {
		log.Warn().Err(err).Int64("room", roomID).Msg("Failed to log agent decisions")
	}
}

// persistDeviceState writes the device state changes of completed actions
// back to storage. Persistence failures are logged, not fatal: the devices
// already moved.
func (p *Pipeline) persistDeviceState(ctx context.Context, exec *execution.Execution) {
	devices := p.store.Devices()
	for _, r := range exec.Results {
		if r.Status != execution.StatusCompleted {
			continue
		}
		d, err := devices.Get(ctx, r.DeviceID)
		if err != nil {
			log.Warn().Err(err).Str("device", r.DeviceID).Msg("Cannot persist state for unknown device")
			continue
		}
		if !applyVerb(d, r.Action.Verb, r.Action.Parameters) {
			continue
		}
		if err := devices.UpdateState(ctx, *d); err != nil {
			log.Warn().Err(err).Str("device", r.DeviceID).Msg("Failed to persist device state")
		}
	}
}

// applyVerb mutates a device record per action verb, reporting whether the
// verb changed any persisted state.
func applyVerb(d *building.Device, verb string, params map[string]any) bool {
	switch verb {
	case building.VerbTurnOn:
		d.Status = building.StatusOn
		if b, ok := params["brightness"].(float64); ok {
			d.Brightness = b
		}
	case building.VerbTurnOff:
		d.Status = building.StatusOff
	case building.VerbDim:
		d.Status = building.StatusOn
		if b, ok := params["brightness"].(float64); ok {
			d.Brightness = b
		} else {
			d.Brightness = 0.5
		}
	case building.VerbSetTemperature:
		if t, ok := params["temperature"].(float64); ok {
			d.TargetTemperature = t
		} else {
			d.TargetTemperature = 23
		}
	default:
		return false
	}
	return true
}

func (p *Pipeline) broadcast(eventType string, data any) {
	if p.hub == nil {
		return
	}
	p.hub.Broadcast(eventType, data)
}
