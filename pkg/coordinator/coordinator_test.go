package coordinator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/buildsense/buildsense/pkg/agent"
	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/slo"
)

type stubAgent struct {
	id       string
	category string
	decision agent.Decision
	err      error
}

func (s *stubAgent) ID() string       { return s.id }
func (s *stubAgent) Category() string { return s.category }

func (s *stubAgent) Propose(ctx context.Context, snap building.Snapshot, slos []slo.SLO) (agent.Decision, error) {
	return s.decision, s.err
}

func stub(category string, confidence float64, actions ...agent.Action) *stubAgent {
	return &stubAgent{
		id:       category + "_stub",
		category: category,
		decision: agent.Decision{
			AgentID:    category + "_stub",
			Category:   category,
			Priority:   agent.PriorityWeight(category),
			Actions:    actions,
			Confidence: confidence,
		},
	}
}

func calmSnapshot() building.Snapshot {
	return building.Snapshot{
		Room:    building.Room{ID: 1, Name: "Office Space"},
		Sensors: building.SensorReadings{Temperature: 23, Humidity: 50, CO2: 400},
	}
}

func comfortSLOs() []slo.SLO {
	return []slo.SLO{{
		Name:   "Temperature Comfort",
		Metric: slo.MetricTemperatureComfort,
		Weight: 0.25,
		Active: true,
		Config: map[string]float64{"min_temp": 22, "max_temp": 24},
	}}
}

func TestCoordinateOnePlanPerStrategy(t *testing.T) {
	reg := agent.NewRegistry(
		stub(agent.CategoryComfort, 0.8, agent.Action{DeviceID: "hvac-1", Verb: building.VerbTurnOn}),
		stub(agent.CategoryEnergy, 0.6, agent.Action{DeviceID: "hvac-1", Verb: building.VerbTurnOff}),
	)
	c := New(reg)
	c.now = func() time.Time { return time.Date(2026, 3, 10, 14, 30, 45, 0, time.UTC) }

	strategies := []Strategy{StrategyPriorityWeighted, StrategyMajorityVote, StrategySafetyFirst, StrategyEnergyBalance}
	plans, err := c.Coordinate(context.Background(), calmSnapshot(), comfortSLOs(), strategies)
	if err != nil {
		t.Fatalf("Coordinate returned error: %v", err)
	}
	if len(plans) != len(strategies) {
		t.Fatalf("got %d plans, want %d", len(plans), len(strategies))
	}

	for i, p := range plans {
		if p.Meta.Rank != i+1 {
			t.Errorf("plan %d rank = %d", i, p.Meta.Rank)
		}
		if p.Meta.TotalPlans != len(strategies) {
			t.Errorf("plan %d total_plans = %d", i, p.Meta.TotalPlans)
		}
		if !strings.HasSuffix(p.ID, "_143045") {
			t.Errorf("plan ID %q missing timestamp suffix", p.ID)
		}
		if !strings.HasPrefix(p.ID, string(p.Meta.ResolutionStrategy)) {
			t.Errorf("plan ID %q does not carry its strategy %q", p.ID, p.Meta.ResolutionStrategy)
		}
		if i > 0 && plans[i-1].Score < p.Score {
			t.Errorf("plans not sorted by score: %v then %v", plans[i-1].Score, p.Score)
		}
	}
}

func TestCoordinateSkipsFailingAgents(t *testing.T) {
	reg := agent.NewRegistry(
		stub(agent.CategoryComfort, 0.8, agent.Action{DeviceID: "hvac-1", Verb: building.VerbTurnOn}),
		&stubAgent{id: "broken", category: agent.CategorySecurity, err: errors.New("boom")},
	)

	plans, err := New(reg).Coordinate(context.Background(), calmSnapshot(), comfortSLOs(), nil)
	if err != nil {
		t.Fatalf("Coordinate returned error: %v", err)
	}
	if len(plans) != len(DefaultStrategies) {
		t.Fatalf("got %d plans, want %d", len(plans), len(DefaultStrategies))
	}
	for _, p := range plans {
		if len(p.AgentDecisions) != 1 {
			t.Errorf("plan should carry only the surviving decision, got %d", len(p.AgentDecisions))
		}
	}
}

func TestRecommendationThresholds(t *testing.T) {
	// One decision, no actions, perfect compliance: score 0.7+0.3c.
	run := func(confidence float64) *Plan {
		reg := agent.NewRegistry(stub(agent.CategoryComfort, confidence))
		plans, err := New(reg).Coordinate(context.Background(), calmSnapshot(), comfortSLOs(), []Strategy{StrategyPriorityWeighted})
		if err != nil {
			t.Fatalf("Coordinate returned error: %v", err)
		}
		return plans[0]
	}

	if p := run(1.0); p.Meta.Recommendation != RecommendAuto { // score 1.0, confidence 1.0
		t.Errorf("recommendation = %s, want AUTO (score=%v conf=%v)", p.Meta.Recommendation, p.Score, p.Confidence)
	}
	if p := run(0.75); p.Meta.Recommendation != RecommendReview { // score 0.925, confidence 0.75
		t.Errorf("recommendation = %s, want REVIEW (score=%v conf=%v)", p.Meta.Recommendation, p.Score, p.Confidence)
	}
	if p := run(0.3); p.Meta.Recommendation != RecommendManual { // confidence below review floor
		t.Errorf("recommendation = %s, want MANUAL (score=%v conf=%v)", p.Meta.Recommendation, p.Score, p.Confidence)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(nil)
	if s.Status != "no_plans" {
		t.Errorf("status = %s, want no_plans", s.Status)
	}

	plans := []*Plan{
		{ID: "safety_first_120000", Score: 0.95, Confidence: 0.9,
			Meta: PlanMeta{Recommendation: RecommendAuto, SLOViolations: 0}},
		{ID: "priority_weighted_120000", Score: 0.8, Confidence: 0.75,
			Meta: PlanMeta{Recommendation: RecommendReview}},
	}
	s = Summarize(plans)
	if s.Status != "plans_available" || s.TotalPlans != 2 {
		t.Errorf("summary = %+v", s)
	}
	if s.Best == nil || s.Best.PlanID != "safety_first_120000" {
		t.Fatalf("best = %+v", s.Best)
	}
	if !s.AutoExecutable {
		t.Errorf("AUTO best plan should be auto executable")
	}
	if !s.RequiresReview {
		t.Errorf("a REVIEW plan in the top three should set RequiresReview")
	}
}
