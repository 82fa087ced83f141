package agent

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/llm"
	"github.com/buildsense/buildsense/pkg/slo"
)

const comfortPrompt = `You are a Comfort Agent responsible for occupant comfort and well-being.

MISSION: Maintain optimal comfort conditions while balancing energy efficiency and other building needs.

KEY RESPONSIBILITIES:
- Manage temperature control systems for optimal comfort
- Ensure proper lighting for activities and wellbeing
- Maintain air quality and circulation
- Respond to occupancy patterns and preferences

DECISION PRINCIPLES:
1. Prioritize occupant comfort within reasonable energy bounds
2. Adjust systems based on occupancy levels and activities
3. Maintain temperature within comfort ranges (22-24°C)
4. Ensure adequate air circulation for occupied spaces

Analyze the current context and provide specific device actions to optimize comfort.`

// Comfort setpoints. Meeting rooms run slightly cooler.
const (
	comfortTargetTemp = 23.0
	meetingTargetTemp = 22.0
	tempTolerance     = 1.0
)

// ComfortAgent keeps temperature near the comfort setpoint and circulates
// air in occupied rooms.
type ComfortAgent struct {
	core
}

func NewComfortAgent(source llm.Source) *ComfortAgent {
	return &ComfortAgent{core{
		id:       "comfort_agent",
		category: CategoryComfort,
		weight:   Configs[CategoryComfort].PriorityWeight,
		prompt:   comfortPrompt,
		source:   source,
	}}
}

func (a *ComfortAgent) Propose(ctx context.Context, snap building.Snapshot, slos []slo.SLO) (Decision, error) {
	if d, ok := a.proposeLLM(ctx, snap, slos); ok {
		return d, nil
	}
	return a.fallback(snap, slos), nil
}

func (a *ComfortAgent) fallback(snap building.Snapshot, slos []slo.SLO) Decision {
	currentTemp := snap.Sensors.Temperature
	occupancy := snap.Sensors.Occupancy

	targetTemp := comfortTargetTemp
	for _, s := range slos {
		name := strings.ToLower(s.Name)
		if strings.Contains(name, "meeting") || strings.Contains(name, "conference") {
			targetTemp = meetingTargetTemp
			break
		}
	}

	var actions []Action

	if math.Abs(currentTemp-targetTemp) > tempTolerance {
		for _, hvac := range snap.DevicesOfType(building.DeviceTypeHVAC) {
			if currentTemp < targetTemp-tempTolerance {
				actions = append(actions, Action{
					DeviceID: hvac.ID,
					Verb:     building.VerbTurnOn,
					Reason:   fmt.Sprintf("Temperature %g°C below comfort range. Heating required.", currentTemp),
				})
			} else if currentTemp > targetTemp+tempTolerance {
				actions = append(actions, Action{
					DeviceID: hvac.ID,
					Verb:     building.VerbTurnOn,
					Reason:   fmt.Sprintf("Temperature %g°C above comfort range. Cooling required.", currentTemp),
				})
			}
		}
	}

	if occupancy > 0 {
		for _, airflow := range snap.DevicesOfType(building.DeviceTypeAirFlow) {
			if !airflow.On() {
				actions = append(actions, Action{
					DeviceID: airflow.ID,
					Verb:     building.VerbTurnOn,
					Reason:   "Air circulation required for occupied room",
				})
			}
		}
	}

	reasoning := fmt.Sprintf("Comfort optimization: Target temp %g°C, Current %g°C, Occupancy %d",
		targetTemp, currentTemp, occupancy)

	return a.decision(actions, reasoning, Scores{Comfort: 1.0, Energy: 0.4, Reliability: 0.7, Security: 0.3}, 0.5, 0)
}
