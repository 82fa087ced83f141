package coordinator

import (
	"math"

	"github.com/buildsense/buildsense/pkg/agent"
	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/slo"
)

// Scoring weights: SLO compliance dominates, agent confidence refines, and
// a small complexity penalty (2% per action, capped at 10%) favors simpler
// plans between otherwise equal candidates.
const (
	sloWeight            = 0.7
	confidenceWeight     = 0.3
	perActionPenalty     = 0.02
	maxComplexityPenalty = 0.1
)

// scorePlan simulates the plan against the current snapshot, evaluates the
// predicted state against the SLOs, and writes score, confidence and
// compliance back onto the plan.
func scorePlan(plan *Plan, snap building.Snapshot, slos []slo.SLO) {
	predicted := simulateImpact(plan.Actions, snap)
	eval := slo.Evaluate(predicted, slos)

	confidence := 0.0
	if len(plan.AgentDecisions) > 0 {
		for _, d := range plan.AgentDecisions {
			confidence += d.Confidence
		}
		confidence /= float64(len(plan.AgentDecisions))
	}

	penalty := math.Min(maxComplexityPenalty, float64(len(plan.Actions))*perActionPenalty)
	score := eval.OverallCompliance*sloWeight + confidence*confidenceWeight - penalty

	plan.Score = math.Max(0, math.Min(1, score))
	plan.Confidence = confidence
	plan.SLOCompliance = eval
}

// simulateImpact predicts the room state after executing the actions:
// device status changes apply directly, then a coarse environmental model
// adjusts the sensor readings.
func simulateImpact(actions []agent.Action, snap building.Snapshot) building.Snapshot {
	predicted := snap.Clone()

	for _, a := range actions {
		applyAction(a, &predicted)
	}
	simulateEnvironment(&predicted)

	return predicted
}

func applyAction(a agent.Action, snap *building.Snapshot) {
	for i := range snap.Devices {
		d := &snap.Devices[i]
		if d.ID != a.DeviceID {
			continue
		}
		switch a.Verb {
		case building.VerbTurnOn:
			d.Status = building.StatusOn
		case building.VerbTurnOff:
			d.Status = building.StatusOff
		case building.VerbDim:
			d.Status = building.StatusOn
			d.Brightness = floatParam(a.Parameters, "brightness", 0.5)
		case building.VerbSetTemperature:
			d.TargetTemperature = floatParam(a.Parameters, "temperature", 23)
		}
		return
	}
}

// simulateEnvironment models the sensor response to the new device states:
// temperature moves 20% toward the mean HVAC setpoint, each running airflow
// unit strips 50ppm CO2 (floor 350), and active HVAC dehumidifies slightly.
func simulateEnvironment(snap *building.Snapshot) {
	var hvacOn []building.Device
	airflowOn := 0
	for _, d := range snap.Devices {
		if !d.On() {
			continue
		}
		switch d.Type {
		case building.DeviceTypeHVAC:
			hvacOn = append(hvacOn, d)
		case building.DeviceTypeAirFlow:
			airflowOn++
		}
	}

	if len(hvacOn) > 0 {
		targetSum := 0.0
		for _, d := range hvacOn {
			target := d.TargetTemperature
			if target == 0 {
				target = 23
			}
			targetSum += target
		}
		target := targetSum / float64(len(hvacOn))
		snap.Sensors.Temperature += (target - snap.Sensors.Temperature) * 0.2
	}

	if airflowOn > 0 {
		snap.Sensors.CO2 = math.Max(350, snap.Sensors.CO2-float64(airflowOn)*50)
	}

	if len(hvacOn) > 0 {
		snap.Sensors.Humidity = math.Max(30, snap.Sensors.Humidity-2)
	}
}

func floatParam(params map[string]any, key string, fallback float64) float64 {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return fallback
	}
}
