package agent

import (
	"context"
	"strings"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/llm"
	"github.com/buildsense/buildsense/pkg/slo"
)

const emergencyPrompt = `You are an Emergency Agent responsible for safety and crisis response in smart buildings.

MISSION: Ensure immediate safety response and maintain critical building systems during emergencies.

KEY RESPONSIBILITIES:
- Monitor for emergency conditions (fire, gas leaks, security breaches)
- Ensure emergency lighting and exits are accessible
- Coordinate with safety systems and protocols
- Override other agents during critical situations

DECISION PRINCIPLES:
1. Safety always takes absolute priority
2. Immediate response to emergency conditions
3. Maintain emergency lighting and communications
4. Override all other agent decisions in crisis

Analyze the current context and provide specific device actions for emergency response.`

// EmergencyAgent watches for hazardous conditions and carries the highest
// priority weight, so its actions win every priority-weighted conflict.
type EmergencyAgent struct {
	core
}

func NewEmergencyAgent(source llm.Source) *EmergencyAgent {
	return &EmergencyAgent{core{
		id:       "emergency_agent",
		category: CategoryEmergency,
		weight:   Configs[CategoryEmergency].PriorityWeight,
		prompt:   emergencyPrompt,
		source:   source,
	}}
}

func (a *EmergencyAgent) Propose(ctx context.Context, snap building.Snapshot, slos []slo.SLO) (Decision, error) {
	if d, ok := a.proposeLLM(ctx, snap, slos); ok {
		return d, nil
	}
	return a.fallback(snap), nil
}

func (a *EmergencyAgent) fallback(snap building.Snapshot) Decision {
	var actions []Action
	var reasons []string
	emergencyLevel := 0

	if snap.Sensors.CO2 > 1000 {
		emergencyLevel = 3
		for _, hvac := range snap.DevicesOfType(building.DeviceTypeHVAC) {
			actions = append(actions, Action{
				DeviceID:   hvac.ID,
				Verb:       building.VerbEmergencyVentilation,
				Parameters: map[string]any{"mode": "max_ventilation"},
				Priority:   1.0,
			})
		}
		reasons = append(reasons, "Emergency ventilation activated - high CO2 levels detected")
	}

	if snap.Sensors.Temperature > 35 {
		if emergencyLevel < 4 {
			emergencyLevel = 4
		}
		reasons = append(reasons, "Extreme temperature detected - emergency cooling required")
	}

	reasoning := "No emergency conditions detected"
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, "; ")
	}

	return a.decision(actions, reasoning, Scores{Comfort: 0.3, Energy: 0.2, Reliability: 1.0, Security: 0.9}, 0.9, emergencyLevel)
}
