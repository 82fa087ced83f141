package agent

import (
	"context"
	"strings"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/llm"
	"github.com/buildsense/buildsense/pkg/slo"
)

const environmentalPrompt = `You are an Environmental Agent responsible for air quality and environmental health.

MISSION: Maintain optimal indoor environmental conditions for health and productivity.

KEY RESPONSIBILITIES:
- Monitor and control air quality parameters
- Manage humidity and ventilation systems
- Respond to environmental hazards
- Optimize indoor environmental health

DECISION PRINCIPLES:
1. Maintain healthy air quality levels
2. Control humidity within optimal ranges
3. Ensure adequate ventilation for occupants
4. Balance environmental quality with energy efficiency

Analyze the current context and provide specific device actions for environmental optimization.`

// EnvironmentalAgent manages humidity and CO2 through the HVAC systems.
type EnvironmentalAgent struct {
	core
}

func NewEnvironmentalAgent(source llm.Source) *EnvironmentalAgent {
	return &EnvironmentalAgent{core{
		id:       "environmental_agent",
		category: CategoryEnvironmental,
		weight:   Configs[CategoryEnvironmental].PriorityWeight,
		prompt:   environmentalPrompt,
		source:   source,
	}}
}

func (a *EnvironmentalAgent) Propose(ctx context.Context, snap building.Snapshot, slos []slo.SLO) (Decision, error) {
	if d, ok := a.proposeLLM(ctx, snap, slos); ok {
		return d, nil
	}
	return a.fallback(snap), nil
}

func (a *EnvironmentalAgent) fallback(snap building.Snapshot) Decision {
	var actions []Action
	var reasons []string

	hvacs := snap.DevicesOfType(building.DeviceTypeHVAC)
	humidity := snap.Sensors.Humidity
	co2 := snap.Sensors.CO2

	switch {
	case humidity > 70:
		for _, hvac := range hvacs {
			actions = append(actions, Action{
				DeviceID:   hvac.ID,
				Verb:       building.VerbDehumidify,
				Parameters: map[string]any{"target_humidity": 60},
				Priority:   0.6,
			})
		}
		reasons = append(reasons, "High humidity detected - activating dehumidification")
	case humidity < 30:
		for _, hvac := range hvacs {
			actions = append(actions, Action{
				DeviceID:   hvac.ID,
				Verb:       building.VerbHumidify,
				Parameters: map[string]any{"target_humidity": 45},
				Priority:   0.6,
			})
		}
		reasons = append(reasons, "Low humidity detected - activating humidification")
	}

	if co2 > 800 {
		for _, hvac := range hvacs {
			actions = append(actions, Action{
				DeviceID:   hvac.ID,
				Verb:       building.VerbIncreaseVentilation,
				Parameters: map[string]any{"ventilation_level": "high"},
				Priority:   0.7,
			})
		}
		reasons = append(reasons, "Elevated CO2 levels - increasing ventilation")
	}

	reasoning := "Environmental conditions optimal"
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, "; ")
	}

	return a.decision(actions, reasoning, Scores{Comfort: 0.8, Energy: 0.5, Reliability: 0.7, Security: 0.3}, 0.7, 0)
}
