package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/buildsense/buildsense/pkg/agent"
	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/building/schema"
	"github.com/buildsense/buildsense/pkg/coordinator"
	"github.com/buildsense/buildsense/pkg/db"
	"github.com/buildsense/buildsense/pkg/execution"
	"github.com/buildsense/buildsense/pkg/slo"
	"github.com/buildsense/buildsense/pkg/ws"
)

type stubAgent struct {
	confidence float64
	actions    []agent.Action
}

func (s *stubAgent) ID() string       { return "comfort_stub" }
func (s *stubAgent) Category() string { return agent.CategoryComfort }

func (s *stubAgent) Propose(ctx context.Context, snap building.Snapshot, slos []slo.SLO) (agent.Decision, error) {
	return agent.Decision{
		AgentID:    s.ID(),
		Category:   s.Category(),
		Priority:   agent.PriorityWeight(s.Category()),
		Actions:    s.actions,
		Confidence: s.confidence,
	}, nil
}

type fakeController struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeController) Execute(ctx context.Context, action agent.Action) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return map[string]any{"device_id": action.DeviceID, "status": "success"}, nil
}

func openTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	ctx := context.Background()
	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	if err := database.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	return database
}

// newTestPipeline wires a pipeline over a bootstrapped database, a stub
// agent and a fake controller, returning the Office Space room and its fan.
func newTestPipeline(t *testing.T, stub *stubAgent) (*Pipeline, *db.DB, building.Room, building.Device, *fakeController) {
	t.Helper()

	database := openTestDB(t)
	ctx := context.Background()

	room, err := database.Rooms().GetByName(ctx, "Office Space")
	if err != nil {
		t.Fatalf("GetByName returned error: %v", err)
	}
	devices, err := database.Devices().ListByRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("ListByRoom returned error: %v", err)
	}
	var fan building.Device
	for _, d := range devices {
		if d.Type == building.DeviceTypeAirFlow {
			fan = d
		}
	}
	if fan.ID == "" {
		t.Fatal("seeded room should have a fan")
	}

	ctrl := &fakeController{}
	pipe := New(
		database,
		coordinator.New(agent.NewRegistry(stub)),
		execution.NewEngine(ctrl),
		schema.NewValidator(),
		ws.NewHub(),
	)
	return pipe, database, *room, fan, ctrl
}

func TestRunCoordinationExecutesAutoPlan(t *testing.T) {
	stub := &stubAgent{confidence: 1.0}
	pipe, database, room, fan, ctrl := newTestPipeline(t, stub)
	stub.actions = []agent.Action{{DeviceID: fan.ID, Verb: building.VerbTurnOff}}

	ctx := context.Background()
	result, err := pipe.RunCoordination(ctx, room.ID, []coordinator.Strategy{coordinator.StrategyPriorityWeighted}, true, "api")
	if err != nil {
		t.Fatalf("RunCoordination returned error: %v", err)
	}

	if len(result.Plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(result.Plans))
	}
	best := result.Plans[0]
	if best.Meta.Recommendation != coordinator.RecommendAuto {
		t.Fatalf("recommendation = %s, want AUTO (score=%v conf=%v)", best.Meta.Recommendation, best.Score, best.Confidence)
	}

	if result.Execution == nil {
		t.Fatal("AUTO plan should have been executed")
	}
	if result.Execution.Status != execution.StatusCompleted {
		t.Errorf("execution status = %s, want completed", result.Execution.Status)
	}
	if ctrl.calls != 1 {
		t.Errorf("controller called %d times, want 1", ctrl.calls)
	}

	// The fan's new state was written back to storage.
	got, err := database.Devices().Get(ctx, fan.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Status != building.StatusOff {
		t.Errorf("fan status = %s, want OFF", got.Status)
	}

	// The round left an audit trail.
	updated, _ := database.Rooms().Get(ctx, room.ID)
	if updated.LastCoordinatedAt.IsZero() || len(updated.LastCoordination) == 0 {
		t.Error("room should carry the last coordination summary")
	}
	logged, err := database.Decisions().ListByRoom(ctx, room.ID, 0)
	if err != nil {
		t.Fatalf("ListByRoom returned error: %v", err)
	}
	if len(logged) != 1 || logged[0].AgentID != "comfort_stub" {
		t.Errorf("decision log = %+v, want one comfort_stub entry", logged)
	}
	if logged[0].PlanID != best.ID {
		t.Errorf("logged plan = %q, want %q", logged[0].PlanID, best.ID)
	}
}

func TestRunCoordinationParksManualPlan(t *testing.T) {
	stub := &stubAgent{confidence: 0.3}
	pipe, database, room, fan, ctrl := newTestPipeline(t, stub)
	stub.actions = []agent.Action{{DeviceID: fan.ID, Verb: building.VerbTurnOff}}

	ctx := context.Background()
	result, err := pipe.RunCoordination(ctx, room.ID, []coordinator.Strategy{coordinator.StrategyPriorityWeighted}, true, "api")
	if err != nil {
		t.Fatalf("RunCoordination returned error: %v", err)
	}

	if result.Execution == nil || result.Execution.Status != execution.StatusPending {
		t.Fatalf("low-confidence plan should park pending approval, got %+v", result.Execution)
	}
	if ctrl.calls != 0 {
		t.Fatalf("no device calls before approval, got %d", ctrl.calls)
	}

	pending := pipe.PendingApprovals()
	if len(pending) != 1 {
		t.Fatalf("pending approvals = %d, want 1", len(pending))
	}

	exec, err := pipe.ApprovePlan(ctx, pending[0].PlanID, "alex")
	if err != nil {
		t.Fatalf("ApprovePlan returned error: %v", err)
	}
	if exec.Status != execution.StatusCompleted {
		t.Errorf("status after approval = %s, want completed", exec.Status)
	}

	// Approval also persists device state.
	got, _ := database.Devices().Get(ctx, fan.ID)
	if got.Status != building.StatusOff {
		t.Errorf("fan status = %s, want OFF after approved execution", got.Status)
	}
}

func TestExecuteRejectsInvalidParameters(t *testing.T) {
	stub := &stubAgent{confidence: 1.0}
	pipe, _, room, _, ctrl := newTestPipeline(t, stub)
	stub.actions = []agent.Action{{
		DeviceID:   "light-1",
		Verb:       building.VerbDim,
		Parameters: map[string]any{"brightness": 2.5},
	}}

	_, err := pipe.RunCoordination(context.Background(), room.ID, []coordinator.Strategy{coordinator.StrategyPriorityWeighted}, true, "api")
	if err == nil {
		t.Fatal("out-of-range brightness should reject the plan")
	}
	if ctrl.calls != 0 {
		t.Errorf("rejected plan must not reach the controller, got %d calls", ctrl.calls)
	}
}

func TestCancelExecution(t *testing.T) {
	stub := &stubAgent{confidence: 0.3}
	pipe, _, room, fan, _ := newTestPipeline(t, stub)
	stub.actions = []agent.Action{{DeviceID: fan.ID, Verb: building.VerbTurnOff}}

	ctx := context.Background()
	result, err := pipe.RunCoordination(ctx, room.ID, []coordinator.Strategy{coordinator.StrategyPriorityWeighted}, true, "api")
	if err != nil {
		t.Fatalf("RunCoordination returned error: %v", err)
	}
	planID := result.Execution.PlanID

	if !pipe.CancelExecution(planID, "alex") {
		t.Fatal("cancel of a pending plan should succeed")
	}
	if pipe.CancelExecution(planID, "alex") {
		t.Error("second cancel should return false")
	}

	status, ok := pipe.ExecutionStatus(planID)
	if !ok || status.Status != execution.StatusCancelled {
		t.Errorf("status = %+v, %v, want cancelled", status, ok)
	}
}

func TestEvaluateSLOs(t *testing.T) {
	stub := &stubAgent{confidence: 1.0}
	pipe, _, room, _, _ := newTestPipeline(t, stub)

	eval, err := pipe.EvaluateSLOs(context.Background(), room.ID)
	if err != nil {
		t.Fatalf("EvaluateSLOs returned error: %v", err)
	}
	// Office Space is seeded fully compliant: 23°C, 45% humidity, 540ppm,
	// occupied with every device on.
	if eval.OverallCompliance != 1.0 {
		t.Errorf("overall compliance = %v, want 1.0", eval.OverallCompliance)
	}
	if len(eval.Violations) != 0 {
		t.Errorf("violations = %+v, want none", eval.Violations)
	}
}
