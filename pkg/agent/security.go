package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/llm"
	"github.com/buildsense/buildsense/pkg/slo"
)

const securityPrompt = `You are a Security Agent responsible for building security and surveillance.

MISSION: Ensure optimal security conditions while balancing other building needs.

KEY RESPONSIBILITIES:
- Maintain adequate lighting for surveillance
- Monitor and respond to security device status
- Ensure emergency access and safety compliance
- Balance security needs with energy efficiency

DECISION PRINCIPLES:
1. Security requirements always take precedence in emergencies
2. Maintain minimum lighting levels for surveillance
3. Respond to security device malfunctions immediately
4. Consider occupancy patterns for security optimization

Analyze the current context and provide specific device actions to maintain security standards.`

// SecurityAgent keeps surveillance lighting and security devices operational.
type SecurityAgent struct {
	core
}

func NewSecurityAgent(source llm.Source) *SecurityAgent {
	return &SecurityAgent{core{
		id:       "security_agent",
		category: CategorySecurity,
		weight:   Configs[CategorySecurity].PriorityWeight,
		prompt:   securityPrompt,
		source:   source,
	}}
}

func (a *SecurityAgent) Propose(ctx context.Context, snap building.Snapshot, slos []slo.SLO) (Decision, error) {
	if d, ok := a.proposeLLM(ctx, snap, slos); ok {
		return d, nil
	}
	return a.fallback(snap, slos), nil
}

func (a *SecurityAgent) fallback(snap building.Snapshot, slos []slo.SLO) Decision {
	lights := snap.DevicesOfType(building.DeviceTypeLighting)
	securityDevices := snap.DevicesOfType(building.DeviceTypeSecurity)

	var actions []Action
	var reasons []string

	hasSecuritySLO := false
	for _, s := range slos {
		if strings.Contains(strings.ToLower(s.Name), "security") {
			hasSecuritySLO = true
			break
		}
	}

	// Surveillance needs at least one light on.
	if hasSecuritySLO && len(lights) > 0 {
		anyOn := false
		for _, d := range lights {
			if d.On() {
				anyOn = true
				break
			}
		}
		if !anyOn {
			actions = append(actions, Action{
				DeviceID:   lights[0].ID,
				Verb:       building.VerbTurnOn,
				Parameters: map[string]any{"brightness": 0.3},
				Priority:   0.9,
			})
			reasons = append(reasons, "Activating minimum lighting for security surveillance")
		}
	}

	for _, d := range securityDevices {
		if !d.On() {
			actions = append(actions, Action{
				DeviceID:   d.ID,
				Verb:       building.VerbTurnOn,
				Parameters: map[string]any{},
				Priority:   0.8,
			})
			reasons = append(reasons, fmt.Sprintf("Activating %s for security coverage", d.Name))
		}
	}

	reasoning := "Security conditions maintained"
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, "; ")
	}

	return a.decision(actions, reasoning, Scores{Comfort: 0.2, Energy: 0.1, Reliability: 0.9, Security: 1.0}, 0.7, 0)
}
