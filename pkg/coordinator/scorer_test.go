package coordinator

import (
	"math"
	"testing"

	"github.com/buildsense/buildsense/pkg/agent"
	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/slo"
)

func scorerSnapshot(sensors building.SensorReadings, devices ...building.Device) building.Snapshot {
	return building.Snapshot{
		Room:    building.Room{ID: 1, Name: "Conference Room B"},
		Devices: devices,
		Sensors: sensors,
	}
}

func TestSimulateTemperaturePull(t *testing.T) {
	snap := scorerSnapshot(building.SensorReadings{Temperature: 28.5},
		building.Device{ID: "ac-1", Type: building.DeviceTypeHVAC, Status: building.StatusOff},
	)

	predicted := simulateImpact([]agent.Action{{DeviceID: "ac-1", Verb: building.VerbTurnOn}}, snap)

	// Default setpoint 23: temperature moves 20% toward it.
	want := 28.5 + (23-28.5)*0.2
	if math.Abs(predicted.Sensors.Temperature-want) > 1e-9 {
		t.Errorf("predicted temperature = %v, want %v", predicted.Sensors.Temperature, want)
	}
	if predicted.Devices[0].Status != building.StatusOn {
		t.Errorf("device should be on after simulation")
	}
	// The input snapshot is untouched.
	if snap.Devices[0].Status != building.StatusOff || snap.Sensors.Temperature != 28.5 {
		t.Errorf("simulation mutated the input snapshot")
	}
}

func TestSimulateSetTemperatureParameter(t *testing.T) {
	snap := scorerSnapshot(building.SensorReadings{Temperature: 28},
		building.Device{ID: "ac-1", Type: building.DeviceTypeHVAC, Status: building.StatusOn},
	)

	actions := []agent.Action{
		{DeviceID: "ac-1", Verb: building.VerbSetTemperature, Parameters: map[string]any{"temperature": 20.0}},
	}
	predicted := simulateImpact(actions, snap)

	want := 28 + (20.0-28)*0.2
	if math.Abs(predicted.Sensors.Temperature-want) > 1e-9 {
		t.Errorf("predicted temperature = %v, want %v", predicted.Sensors.Temperature, want)
	}
}

func TestSimulateVentilationAndHumidity(t *testing.T) {
	snap := scorerSnapshot(building.SensorReadings{CO2: 950, Humidity: 31},
		building.Device{ID: "fan-1", Type: building.DeviceTypeAirFlow, Status: building.StatusOn},
		building.Device{ID: "fan-2", Type: building.DeviceTypeAirFlow, Status: building.StatusOn},
		building.Device{ID: "ac-1", Type: building.DeviceTypeHVAC, Status: building.StatusOn},
	)

	predicted := simulateImpact(nil, snap)
	if predicted.Sensors.CO2 != 850 {
		t.Errorf("predicted CO2 = %v, want 850 (two fans x 50ppm)", predicted.Sensors.CO2)
	}
	// HVAC dehumidifies by 2 but never below 30.
	if predicted.Sensors.Humidity != 30 {
		t.Errorf("predicted humidity = %v, want floor of 30", predicted.Sensors.Humidity)
	}

	// CO2 floor.
	snap.Sensors.CO2 = 380
	predicted = simulateImpact(nil, snap)
	if predicted.Sensors.CO2 != 350 {
		t.Errorf("predicted CO2 = %v, want floor of 350", predicted.Sensors.CO2)
	}
}

func TestSimulateDim(t *testing.T) {
	snap := scorerSnapshot(building.SensorReadings{},
		building.Device{ID: "light-1", Type: building.DeviceTypeLighting, Status: building.StatusOff},
	)

	predicted := simulateImpact([]agent.Action{
		{DeviceID: "light-1", Verb: building.VerbDim, Parameters: map[string]any{"brightness": 0.1}},
	}, snap)

	d := predicted.Devices[0]
	if !d.On() || d.Brightness != 0.1 {
		t.Errorf("dim should power on at requested brightness, got %+v", d)
	}
}

func TestScoreComposite(t *testing.T) {
	// No devices, sensors perfectly at target: the single temperature SLO
	// evaluates to 1.0 after simulation.
	snap := scorerSnapshot(building.SensorReadings{Temperature: 23})
	slos := []slo.SLO{{
		Name:   "Temperature Comfort",
		Metric: slo.MetricTemperatureComfort,
		Weight: 0.25,
		Active: true,
		Config: map[string]float64{"min_temp": 22, "max_temp": 24},
	}}

	plan := &Plan{
		Actions: []agent.Action{
			{DeviceID: "x", Verb: building.VerbTurnOn},
			{DeviceID: "y", Verb: building.VerbTurnOn},
		},
		AgentDecisions: []agent.Decision{
			{Confidence: 0.8},
			{Confidence: 0.6},
		},
	}
	scorePlan(plan, snap, slos)

	// 1.0*0.7 + 0.7*0.3 - 2*0.02 = 0.87
	if math.Abs(plan.Score-0.87) > 1e-9 {
		t.Errorf("score = %v, want 0.87", plan.Score)
	}
	if math.Abs(plan.Confidence-0.7) > 1e-9 {
		t.Errorf("confidence = %v, want 0.7", plan.Confidence)
	}
	if plan.SLOCompliance == nil || plan.SLOCompliance.OverallCompliance != 1.0 {
		t.Errorf("compliance not attached or wrong: %+v", plan.SLOCompliance)
	}
}

func TestScoreComplexityPenaltyCap(t *testing.T) {
	snap := scorerSnapshot(building.SensorReadings{Temperature: 23})
	slos := []slo.SLO{{
		Name: "Temperature Comfort", Metric: slo.MetricTemperatureComfort, Weight: 1, Active: true,
	}}

	plan := &Plan{AgentDecisions: []agent.Decision{{Confidence: 1.0}}}
	for i := 0; i < 20; i++ {
		plan.Actions = append(plan.Actions, agent.Action{DeviceID: "none", Verb: building.VerbTurnOn})
	}
	scorePlan(plan, snap, slos)

	// Penalty caps at 0.1: 0.7 + 0.3 - 0.1 = 0.9 even with 20 actions.
	if math.Abs(plan.Score-0.9) > 1e-9 {
		t.Errorf("score = %v, want 0.9 with capped penalty", plan.Score)
	}
}

func TestScoreNoDecisionsZeroConfidence(t *testing.T) {
	snap := scorerSnapshot(building.SensorReadings{Temperature: 23})
	plan := &Plan{}
	scorePlan(plan, snap, nil)

	if plan.Confidence != 0 {
		t.Errorf("confidence = %v, want 0 with no agent decisions", plan.Confidence)
	}
	// No SLOs: compliance 0, confidence 0, no actions: score clamps at 0.
	if plan.Score != 0 {
		t.Errorf("score = %v, want 0", plan.Score)
	}
}
