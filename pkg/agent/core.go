package agent

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/llm"
	"github.com/buildsense/buildsense/pkg/slo"
)

// core holds the state shared by every agent variant: identity, the role
// prompt for the model path, and the model source itself.
type core struct {
	id       string
	category string
	weight   float64
	prompt   string
	source   llm.Source
}

func (c *core) ID() string       { return c.id }
func (c *core) Category() string { return c.category }

// proposeLLM runs the model path. It returns ok=false when the source is
// unavailable or errored, signaling the caller to use its rule fallback.
func (c *core) proposeLLM(ctx context.Context, snap building.Snapshot, slos []slo.SLO) (Decision, bool) {
	if c.source == nil || !c.source.Available() {
		return Decision{}, false
	}
	proposal, err := c.source.Propose(ctx, c.prompt, snap, slos)
	if err != nil {
		log.Warn().Err(err).Str("agent", c.id).Msg("LLM proposal failed, falling back to rules")
		return Decision{}, false
	}
	return c.decisionFromProposal(proposal), true
}

func (c *core) decisionFromProposal(p llm.Proposal) Decision {
	actions := make([]Action, 0, len(p.Actions))
	for _, a := range p.Actions {
		actions = append(actions, Action{
			DeviceID:   a.DeviceID,
			Verb:       a.Verb,
			Parameters: a.Parameters,
			Priority:   a.Priority,
			Reason:     a.Reason,
		})
	}
	return Decision{
		AgentID:        c.id,
		Category:       c.category,
		Priority:       c.weight,
		Timestamp:      time.Now(),
		Actions:        actions,
		Reasoning:      p.Reasoning,
		Scores:         scoresFromMap(p.Scores),
		Confidence:     p.Confidence,
		EmergencyLevel: p.EmergencyLevel,
	}
}

// decision assembles a rule-based fallback decision.
func (c *core) decision(actions []Action, reasoning string, scores Scores, confidence float64, emergencyLevel int) Decision {
	return Decision{
		AgentID:        c.id,
		Category:       c.category,
		Priority:       c.weight,
		Timestamp:      time.Now(),
		Actions:        actions,
		Reasoning:      reasoning,
		Scores:         scores,
		Confidence:     confidence,
		EmergencyLevel: emergencyLevel,
	}
}

func scoresFromMap(m map[string]float64) Scores {
	get := func(key string) float64 {
		if v, ok := m[key]; ok {
			return v
		}
		return 0.5
	}
	return Scores{
		Comfort:     get("comfort"),
		Energy:      get("energy"),
		Reliability: get("reliability"),
		Security:    get("security"),
	}
}
