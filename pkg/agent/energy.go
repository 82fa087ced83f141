package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/llm"
	"github.com/buildsense/buildsense/pkg/slo"
)

const energyPrompt = `You are an Energy Agent responsible for optimizing energy consumption and efficiency.

MISSION: Minimize energy usage while maintaining essential building operations and occupant comfort.

KEY RESPONSIBILITIES:
- Optimize power consumption across all building systems
- Implement energy-saving strategies during off-peak hours
- Coordinate with other agents to balance energy vs comfort/security
- Monitor and reduce wasteful energy usage

DECISION PRINCIPLES:
1. Minimize energy consumption without compromising critical operations
2. Turn off non-essential systems in unoccupied areas
3. Optimize HVAC and lighting based on occupancy patterns
4. Consider time-of-use rates and peak demand periods

Analyze the current context and provide specific device actions to optimize energy usage.`

// EnergyAgent sheds load in unoccupied rooms and during night hours.
type EnergyAgent struct {
	core
	now func() time.Time
}

func NewEnergyAgent(source llm.Source) *EnergyAgent {
	return &EnergyAgent{
		core: core{
			id:       "energy_agent",
			category: CategoryEnergy,
			weight:   Configs[CategoryEnergy].PriorityWeight,
			prompt:   energyPrompt,
			source:   source,
		},
		now: time.Now,
	}
}

func (a *EnergyAgent) Propose(ctx context.Context, snap building.Snapshot, slos []slo.SLO) (Decision, error) {
	if d, ok := a.proposeLLM(ctx, snap, slos); ok {
		return d, nil
	}
	return a.fallback(snap), nil
}

func (a *EnergyAgent) fallback(snap building.Snapshot) Decision {
	occupancy := snap.Sensors.Occupancy
	hour := a.now().Hour()

	var actions []Action

	if occupancy == 0 {
		lightsOn := 0
		for _, d := range snap.DevicesOfType(building.DeviceTypeLighting) {
			if d.On() {
				lightsOn++
			}
		}

		for _, d := range snap.Devices {
			if !d.On() {
				continue
			}
			switch d.Type {
			case building.DeviceTypeLighting:
				// Leave one light on for surveillance.
				if lightsOn > 1 {
					actions = append(actions, Action{
						DeviceID: d.ID,
						Verb:     building.VerbTurnOff,
						Reason:   "Energy saving: Room unoccupied, excess lighting not needed",
					})
				}
			case building.DeviceTypeAirFlow:
				actions = append(actions, Action{
					DeviceID: d.ID,
					Verb:     building.VerbTurnOff,
					Reason:   "Energy saving: Room unoccupied",
				})
			}
		}
	}

	if (hour >= 22 || hour <= 6) && occupancy == 0 {
		for _, d := range snap.DevicesOfType(building.DeviceTypeHVAC) {
			if d.On() {
				actions = append(actions, Action{
					DeviceID: d.ID,
					Verb:     building.VerbTurnOff,
					Reason:   "Night-time energy saving: HVAC not needed for unoccupied room",
				})
			}
		}
	}

	reasoning := fmt.Sprintf("Energy optimization: %d devices active, Occupancy: %d, Hour: %d",
		snap.CountOn(), occupancy, hour)

	return a.decision(actions, reasoning, Scores{Comfort: 0.3, Energy: 1.0, Reliability: 0.6, Security: 0.4}, 0.5, 0)
}
