package execution

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/buildsense/buildsense/pkg/agent"
	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/coordinator"
)

type fakeController struct {
	mu      sync.Mutex
	failFor map[string]bool
	calls   int
}

func (f *fakeController) Execute(ctx context.Context, action agent.Action) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failFor[action.DeviceID] {
		return nil, errors.New("device unreachable")
	}
	return map[string]any{"device_id": action.DeviceID, "status": "success"}, nil
}

func planWithActions(id string, deviceIDs ...string) *coordinator.Plan {
	p := &coordinator.Plan{ID: id}
	for _, d := range deviceIDs {
		p.Actions = append(p.Actions, agent.Action{DeviceID: d, Verb: building.VerbTurnOn})
	}
	return p
}

func TestExecutePlanCompleteness(t *testing.T) {
	ctrl := &fakeController{}
	eng := NewEngine(ctrl)

	exec := eng.ExecutePlan(context.Background(), planWithActions("p1", "d1", "d2", "d3"), coordinator.RecommendAuto, "")

	if exec.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", exec.Status)
	}
	if exec.CompletedActions() != 3 || exec.FailedActions() != 0 {
		t.Errorf("completed/failed = %d/%d, want 3/0", exec.CompletedActions(), exec.FailedActions())
	}
	if exec.Progress() != 100 {
		t.Errorf("progress = %v, want 100", exec.Progress())
	}
	if ctrl.calls != 3 {
		t.Errorf("controller called %d times, want 3", ctrl.calls)
	}
	for _, r := range exec.Results {
		if r.Status != StatusCompleted || r.Response == nil {
			t.Errorf("action result = %+v", r)
		}
	}
}

func TestExecutePlanPartialFailure(t *testing.T) {
	ctrl := &fakeController{failFor: map[string]bool{"d2": true}}
	eng := NewEngine(ctrl)

	exec := eng.ExecutePlan(context.Background(), planWithActions("p1", "d1", "d2", "d3"), coordinator.RecommendAuto, "")

	if exec.Status != StatusCompleted {
		t.Errorf("partial failure should still complete, got %s", exec.Status)
	}
	if exec.CompletedActions() != 2 || exec.FailedActions() != 1 {
		t.Errorf("completed/failed = %d/%d, want 2/1", exec.CompletedActions(), exec.FailedActions())
	}
	for _, r := range exec.Results {
		if r.DeviceID == "d2" {
			if r.Status != StatusFailed || r.Error == "" {
				t.Errorf("d2 result = %+v, want failed with message", r)
			}
		}
	}
}

func TestExecutePlanAllFailed(t *testing.T) {
	ctrl := &fakeController{failFor: map[string]bool{"d1": true, "d2": true}}
	eng := NewEngine(ctrl)

	exec := eng.ExecutePlan(context.Background(), planWithActions("p1", "d1", "d2"), coordinator.RecommendAuto, "")
	if exec.Status != StatusFailed {
		t.Errorf("status = %s, want failed when every action fails", exec.Status)
	}
}

func TestApprovalGating(t *testing.T) {
	ctrl := &fakeController{}
	eng := NewEngine(ctrl)

	exec := eng.ExecutePlan(context.Background(), planWithActions("p1", "d1"), coordinator.RecommendManual, "operator")
	if exec.Status != StatusPending {
		t.Fatalf("manual plan should park as pending, got %s", exec.Status)
	}
	if ctrl.calls != 0 {
		t.Fatalf("no device calls before approval, got %d", ctrl.calls)
	}

	pending := eng.PendingApprovals()
	if len(pending) != 1 || pending[0].PlanID != "p1" {
		t.Fatalf("pending approvals = %+v", pending)
	}

	approved, err := eng.ApproveAndExecute(context.Background(), "p1", "alex")
	if err != nil {
		t.Fatalf("ApproveAndExecute returned error: %v", err)
	}
	if approved.Status != StatusCompleted {
		t.Errorf("status after approval = %s, want completed", approved.Status)
	}
	if !approved.Approved || approved.ApprovedBy != "alex" || approved.ApprovedAt.IsZero() {
		t.Errorf("approval fields not recorded: %+v", approved)
	}
	if ctrl.calls != 1 {
		t.Errorf("controller called %d times, want 1", ctrl.calls)
	}

	// The finished plan left the active registry.
	if _, err := eng.ApproveAndExecute(context.Background(), "p1", "alex"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("second approval err = %v, want ErrPlanNotFound", err)
	}
	if len(eng.PendingApprovals()) != 0 {
		t.Errorf("pending approvals should be empty after execution")
	}
}

func TestApproveUnknownPlan(t *testing.T) {
	eng := NewEngine(&fakeController{})
	if _, err := eng.ApproveAndExecute(context.Background(), "nope", "alex"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("err = %v, want ErrPlanNotFound", err)
	}
}

func TestCancelPendingPlan(t *testing.T) {
	eng := NewEngine(&fakeController{})

	eng.ExecutePlan(context.Background(), planWithActions("p1", "d1"), coordinator.RecommendReview, "")

	if !eng.Cancel("p1", "alex") {
		t.Fatal("cancel of a pending plan should succeed")
	}

	status, ok := eng.Status("p1")
	if !ok {
		t.Fatal("cancelled plan should be in history")
	}
	if status.Status != StatusCancelled || status.EndedAt.IsZero() {
		t.Errorf("status = %+v, want cancelled with end time", status)
	}

	// A second cancel finds nothing in the active registry.
	if eng.Cancel("p1", "alex") {
		t.Error("second cancel of the same plan should return false")
	}
	// The cancelled plan can no longer be approved.
	if _, err := eng.ApproveAndExecute(context.Background(), "p1", "alex"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("approval after cancel err = %v, want ErrPlanNotFound", err)
	}
}

func TestStatusLookup(t *testing.T) {
	eng := NewEngine(&fakeController{})

	if _, ok := eng.Status("missing"); ok {
		t.Error("unknown plan should not be found")
	}

	eng.ExecutePlan(context.Background(), planWithActions("active", "d1"), coordinator.RecommendManual, "")
	if s, ok := eng.Status("active"); !ok || s.Status != StatusPending {
		t.Errorf("active lookup = %+v, %v", s, ok)
	}

	eng.ExecutePlan(context.Background(), planWithActions("done", "d1"), coordinator.RecommendAuto, "")
	if s, ok := eng.Status("done"); !ok || s.Status != StatusCompleted {
		t.Errorf("history lookup = %+v, %v", s, ok)
	}
}

func TestSummarize(t *testing.T) {
	ctrl := &fakeController{failFor: map[string]bool{"bad": true}}
	eng := NewEngine(ctrl)

	eng.ExecutePlan(context.Background(), planWithActions("ok-1", "d1"), coordinator.RecommendAuto, "")
	eng.ExecutePlan(context.Background(), planWithActions("ok-2", "d1"), coordinator.RecommendAuto, "")
	eng.ExecutePlan(context.Background(), planWithActions("bad-1", "bad"), coordinator.RecommendAuto, "")
	eng.ExecutePlan(context.Background(), planWithActions("parked", "d1"), coordinator.RecommendManual, "")

	s := eng.Summarize()
	if s.ActiveExecutions != 1 || s.PendingApproval != 1 {
		t.Errorf("active/pending = %d/%d, want 1/1", s.ActiveExecutions, s.PendingApproval)
	}
	want := 2.0 / 3.0
	if diff := s.RecentSuccessRate - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("success rate = %v, want %v", s.RecentSuccessRate, want)
	}
	if s.TotalExecutionsToday != 3 {
		t.Errorf("executions today = %d, want 3", s.TotalExecutionsToday)
	}
}

func TestSimulatedControllerResponses(t *testing.T) {
	typeOf := func(id string) string {
		switch id {
		case "light-1":
			return building.DeviceTypeLighting
		case "fan-1":
			return building.DeviceTypeAirFlow
		default:
			return ""
		}
	}
	ctrl := NewSimulatedController(typeOf)
	ctrl.MaxDelay = 0
	ctrl.Rand = func() float64 { return 1.0 } // never fail

	resp, err := ctrl.Execute(context.Background(), agent.Action{
		DeviceID: "light-1", Verb: building.VerbDim, Parameters: map[string]any{"brightness": 0.5},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if resp["new_status"] != building.StatusOn || resp["brightness"] != 0.5 {
		t.Errorf("dim response = %+v", resp)
	}
	if resp["power_consumption"] != 30.0 { // 60W * 0.5
		t.Errorf("power = %v, want 30", resp["power_consumption"])
	}

	resp, err = ctrl.Execute(context.Background(), agent.Action{
		DeviceID: "fan-1", Verb: building.VerbIncreaseVentilation, Parameters: map[string]any{"ventilation_level": "max"},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if resp["fan_speed"] != 4 || resp["air_flow_rate"] != 500.0 {
		t.Errorf("ventilation response = %+v", resp)
	}
}

func TestSimulatedControllerFailureRate(t *testing.T) {
	ctrl := NewSimulatedController(nil)
	ctrl.MaxDelay = 0
	ctrl.Rand = func() float64 { return 0.0 } // always under the threshold

	_, err := ctrl.Execute(context.Background(), agent.Action{DeviceID: "d1", Verb: building.VerbTurnOn})
	if err == nil {
		t.Fatal("expected a simulated communication failure")
	}

	ctrl.FailureRate = 0
	if _, err := ctrl.Execute(context.Background(), agent.Action{DeviceID: "d1", Verb: building.VerbTurnOn}); err != nil {
		t.Errorf("zero failure rate should never fail, got %v", err)
	}
}
