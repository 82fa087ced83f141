// Package coordinator runs multi-agent coordination rounds: it fans out to
// the decision agents, reconciles their conflicting proposals under several
// strategies, scores each resulting plan against the SLOs, and returns the
// plans ranked for execution.
package coordinator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/buildsense/buildsense/pkg/agent"
	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/slo"
)

// Recommendation thresholds. AUTO requires both a near-perfect score and
// high agent confidence; REVIEW accepts good-but-imperfect plans.
const (
	autoScoreThreshold        = 0.9
	autoConfidenceThreshold   = 0.85
	reviewScoreThreshold      = 0.7
	reviewConfidenceThreshold = 0.7
)

// Coordinator orchestrates one decision round per call.
type Coordinator struct {
	registry *agent.Registry

	// now is used for plan IDs; tests pin it.
	now func() time.Time
}

// New builds a Coordinator over the given agent registry.
func New(registry *agent.Registry) *Coordinator {
	return &Coordinator{registry: registry, now: time.Now}
}

// Coordinate collects proposals from every agent, resolves them under each
// strategy, and returns the scored plans in descending score order. A nil
// strategies slice uses DefaultStrategies. Agents that fail are skipped; the
// round proceeds with the remainder.
func (c *Coordinator) Coordinate(ctx context.Context, snap building.Snapshot, slos []slo.SLO, strategies []Strategy) ([]*Plan, error) {
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}

	decisions := c.collectDecisions(ctx, snap, slos)

	plans := make([]*Plan, 0, len(strategies))
	stamp := c.now().Format("150405")
	for _, strategy := range strategies {
		resolution := Resolve(decisions, strategy)

		plan := &Plan{
			ID:             fmt.Sprintf("%s_%s", strategy, stamp),
			Actions:        resolution.Actions,
			Reasoning:      fmt.Sprintf("Plan resolved using %s strategy with %d actions", strategy, len(resolution.Actions)),
			AgentDecisions: decisions,
			CreatedAt:      c.now(),
			Meta: PlanMeta{
				ResolutionStrategy: strategy,
				ConflictsResolved:  len(resolution.Conflicts),
				TotalActions:       len(resolution.Actions),
			},
		}
		scorePlan(plan, snap, slos)
		plans = append(plans, plan)
	}

	sort.SliceStable(plans, func(i, j int) bool { return plans[i].Score > plans[j].Score })
	annotate(plans)

	log.Info().
		Int64("room", snap.Room.ID).
		Int("agents", len(decisions)).
		Int("plans", len(plans)).
		Msg("Coordination round complete")

	return plans, nil
}

// collectDecisions queries all agents in parallel and keeps the successful
// responses in registry order.
func (c *Coordinator) collectDecisions(ctx context.Context, snap building.Snapshot, slos []slo.SLO) []agent.Decision {
	agents := c.registry.Agents()
	results := make([]agent.Decision, len(agents))
	errs := make([]error, len(agents))

	var wg sync.WaitGroup
	for i, a := range agents {
		wg.Add(1)
		go func(i int, a agent.Agent) {
			defer wg.Done()
			results[i], errs[i] = a.Propose(ctx, snap, slos)
		}(i, a)
	}
	wg.Wait()

	decisions := make([]agent.Decision, 0, len(agents))
	for i := range agents {
		if errs[i] != nil {
			log.Error().Err(errs[i]).Str("agent", agents[i].ID()).Msg("Agent decision failed, excluding from round")
			continue
		}
		decisions = append(decisions, results[i])
	}
	return decisions
}

// annotate assigns recommendations, 1-based ranks and SLO impact counts to
// the already-sorted plans.
func annotate(plans []*Plan) {
	for i, plan := range plans {
		switch {
		case plan.Score >= autoScoreThreshold && plan.Confidence >= autoConfidenceThreshold:
			plan.Meta.Recommendation = RecommendAuto
			plan.Meta.RecommendationReason = "High confidence and SLO compliance"
		case plan.Score >= reviewScoreThreshold && plan.Confidence >= reviewConfidenceThreshold:
			plan.Meta.Recommendation = RecommendReview
			plan.Meta.RecommendationReason = "Good plan, recommended for manual review"
		default:
			plan.Meta.Recommendation = RecommendManual
			plan.Meta.RecommendationReason = "Requires manual evaluation"
		}

		plan.Meta.Rank = i + 1
		plan.Meta.TotalPlans = len(plans)

		if plan.SLOCompliance != nil {
			plan.Meta.SLOViolations = len(plan.SLOCompliance.Violations)
			critical := 0
			for _, v := range plan.SLOCompliance.Violations {
				if v.Severity == slo.SeverityCritical {
					critical++
				}
			}
			plan.Meta.CriticalViolations = critical
		}
	}
}
