package coordinator

import (
	"time"

	"github.com/buildsense/buildsense/pkg/agent"
	"github.com/buildsense/buildsense/pkg/slo"
)

// Execution recommendations attached to ranked plans.
const (
	RecommendAuto   = "AUTO"
	RecommendReview = "REVIEW"
	RecommendManual = "MANUAL"
)

// PlanMeta carries ranking and recommendation details for a plan.
type PlanMeta struct {
	ResolutionStrategy   Strategy `json:"resolution_strategy"`
	ConflictsResolved    int      `json:"conflicts_resolved"`
	TotalActions         int      `json:"total_actions"`
	Recommendation       string   `json:"execution_recommendation,omitempty"`
	RecommendationReason string   `json:"recommendation_reason,omitempty"`
	Rank                 int      `json:"rank,omitempty"`
	TotalPlans           int      `json:"total_plans,omitempty"`
	SLOViolations        int      `json:"slo_violations"`
	CriticalViolations   int      `json:"critical_violations"`
}

// Plan is one resolved, scored candidate for execution. Plans from the same
// coordination round differ only by resolution strategy.
type Plan struct {
	ID             string           `json:"plan_id"`
	Score          float64          `json:"score"`
	Confidence     float64          `json:"confidence"`
	SLOCompliance  *slo.Evaluation  `json:"slo_compliance,omitempty"`
	Actions        []agent.Action   `json:"actions"`
	Reasoning      string           `json:"reasoning"`
	AgentDecisions []agent.Decision `json:"agent_decisions"`
	Meta           PlanMeta         `json:"metadata"`
	CreatedAt      time.Time        `json:"timestamp"`
}

// BestPlan summarizes the top-ranked plan for operators.
type BestPlan struct {
	PlanID         string  `json:"plan_id"`
	Score          float64 `json:"score"`
	Confidence     float64 `json:"confidence"`
	Recommendation string  `json:"execution_recommendation"`
	TotalActions   int     `json:"total_actions"`
	SLOViolations  int     `json:"slo_violations"`
}

// Summary condenses a ranked plan list into an execution overview.
type Summary struct {
	Status         string    `json:"status"`
	Message        string    `json:"message,omitempty"`
	TotalPlans     int       `json:"total_plans,omitempty"`
	Best           *BestPlan `json:"best_plan,omitempty"`
	AutoExecutable bool      `json:"auto_executable"`
	RequiresReview bool      `json:"requires_review"`
}

// Summarize reports the best plan and whether it can run unattended.
// RequiresReview looks at the top three plans only.
func Summarize(plans []*Plan) Summary {
	if len(plans) == 0 {
		return Summary{Status: "no_plans", Message: "No decision plans available"}
	}

	best := plans[0]
	requiresReview := false
	for i, p := range plans {
		if i >= 3 {
			break
		}
		if p.Meta.Recommendation == RecommendReview {
			requiresReview = true
		}
	}

	return Summary{
		Status:     "plans_available",
		TotalPlans: len(plans),
		Best: &BestPlan{
			PlanID:         best.ID,
			Score:          best.Score,
			Confidence:     best.Confidence,
			Recommendation: best.Meta.Recommendation,
			TotalActions:   len(best.Actions),
			SLOViolations:  best.Meta.SLOViolations,
		},
		AutoExecutable: best.Meta.Recommendation == RecommendAuto,
		RequiresReview: requiresReview,
	}
}
