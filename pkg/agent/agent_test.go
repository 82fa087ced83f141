package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/llm"
	"github.com/buildsense/buildsense/pkg/slo"
)

type fakeSource struct {
	proposal  llm.Proposal
	err       error
	available bool
}

func (f *fakeSource) Available() bool { return f.available }

func (f *fakeSource) Propose(ctx context.Context, prompt string, snap building.Snapshot, slos []slo.SLO) (llm.Proposal, error) {
	return f.proposal, f.err
}

func testSnapshot(sensors building.SensorReadings, devices ...building.Device) building.Snapshot {
	return building.Snapshot{
		Room:    building.Room{ID: 1, Name: "Office Space"},
		Devices: devices,
		Sensors: sensors,
	}
}

func TestSecurityAgentFallbackLighting(t *testing.T) {
	snap := testSnapshot(building.SensorReadings{},
		building.Device{ID: "light-1", Name: "Light", Type: building.DeviceTypeLighting, Status: building.StatusOff},
		building.Device{ID: "cam-1", Name: "Camera", Type: building.DeviceTypeSecurity, Status: building.StatusOff},
	)
	slos := []slo.SLO{{Name: "Security Lighting", Metric: slo.MetricSecurityLighting, Active: true}}

	d, err := NewSecurityAgent(nil).Propose(context.Background(), snap, slos)
	if err != nil {
		t.Fatalf("Propose returned error: %v", err)
	}
	if d.Category != CategorySecurity || d.Priority != 0.9 {
		t.Errorf("category/priority = %s/%v, want security/0.9", d.Category, d.Priority)
	}
	if len(d.Actions) != 2 {
		t.Fatalf("got %d actions, want 2 (light + camera)", len(d.Actions))
	}
	if d.Actions[0].DeviceID != "light-1" || d.Actions[0].Verb != building.VerbTurnOn {
		t.Errorf("first action = %+v, want turn_on light-1", d.Actions[0])
	}
	if b, ok := d.Actions[0].Parameters["brightness"]; !ok || b != 0.3 {
		t.Errorf("surveillance light brightness = %v, want 0.3", b)
	}
	if d.Actions[1].DeviceID != "cam-1" {
		t.Errorf("second action targets %s, want cam-1", d.Actions[1].DeviceID)
	}
}

func TestSecurityAgentNoSecuritySLO(t *testing.T) {
	snap := testSnapshot(building.SensorReadings{},
		building.Device{ID: "light-1", Type: building.DeviceTypeLighting, Status: building.StatusOff},
	)

	d, _ := NewSecurityAgent(nil).Propose(context.Background(), snap, nil)
	if len(d.Actions) != 0 {
		t.Errorf("without a security SLO the lighting rule should not fire, got %+v", d.Actions)
	}
	if d.Reasoning != "Security conditions maintained" {
		t.Errorf("reasoning = %q", d.Reasoning)
	}
}

func TestEmergencyAgentFallbackLevels(t *testing.T) {
	hvac := building.Device{ID: "ac-1", Type: building.DeviceTypeHVAC, Status: building.StatusOff}

	d, _ := NewEmergencyAgent(nil).Propose(context.Background(),
		testSnapshot(building.SensorReadings{CO2: 1100}, hvac), nil)
	if d.EmergencyLevel != 3 {
		t.Errorf("emergency level = %d, want 3 for high CO2", d.EmergencyLevel)
	}
	if len(d.Actions) != 1 || d.Actions[0].Verb != building.VerbEmergencyVentilation {
		t.Errorf("actions = %+v, want one emergency_ventilation", d.Actions)
	}

	d, _ = NewEmergencyAgent(nil).Propose(context.Background(),
		testSnapshot(building.SensorReadings{CO2: 1100, Temperature: 36}, hvac), nil)
	if d.EmergencyLevel != 4 {
		t.Errorf("emergency level = %d, want 4 for extreme temperature", d.EmergencyLevel)
	}

	d, _ = NewEmergencyAgent(nil).Propose(context.Background(),
		testSnapshot(building.SensorReadings{CO2: 400, Temperature: 22}, hvac), nil)
	if d.EmergencyLevel != 0 || len(d.Actions) != 0 {
		t.Errorf("calm room should produce no emergency, got level=%d actions=%+v", d.EmergencyLevel, d.Actions)
	}
	if d.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", d.Confidence)
	}
}

func TestEnvironmentalAgentFallback(t *testing.T) {
	hvac := building.Device{ID: "ac-1", Type: building.DeviceTypeHVAC, Status: building.StatusOn}

	d, _ := NewEnvironmentalAgent(nil).Propose(context.Background(),
		testSnapshot(building.SensorReadings{Humidity: 75, CO2: 900}, hvac), nil)
	if len(d.Actions) != 2 {
		t.Fatalf("got %d actions, want dehumidify + increase_ventilation", len(d.Actions))
	}
	if d.Actions[0].Verb != building.VerbDehumidify {
		t.Errorf("first verb = %s, want dehumidify", d.Actions[0].Verb)
	}
	if d.Actions[1].Verb != building.VerbIncreaseVentilation {
		t.Errorf("second verb = %s, want increase_ventilation", d.Actions[1].Verb)
	}

	d, _ = NewEnvironmentalAgent(nil).Propose(context.Background(),
		testSnapshot(building.SensorReadings{Humidity: 25}, hvac), nil)
	if len(d.Actions) != 1 || d.Actions[0].Verb != building.VerbHumidify {
		t.Errorf("low humidity should humidify, got %+v", d.Actions)
	}
}

func TestOccupancyAgentFallback(t *testing.T) {
	lightOn := building.Device{ID: "light-1", Type: building.DeviceTypeLighting, Status: building.StatusOn}
	hvac := building.Device{ID: "ac-1", Type: building.DeviceTypeHVAC, Status: building.StatusOn}

	// Unoccupied: dim the lit lights.
	d, _ := NewOccupancyAgent(nil).Propose(context.Background(),
		testSnapshot(building.SensorReadings{Occupancy: 0}, lightOn, hvac), nil)
	if len(d.Actions) != 1 || d.Actions[0].Verb != building.VerbDim {
		t.Errorf("unoccupied room should dim lights, got %+v", d.Actions)
	}

	// Crowded: boost ventilation.
	d, _ = NewOccupancyAgent(nil).Propose(context.Background(),
		testSnapshot(building.SensorReadings{Occupancy: 8}, lightOn, hvac), nil)
	if len(d.Actions) != 1 || d.Actions[0].Verb != building.VerbIncreaseVentilation {
		t.Errorf("crowded room should increase ventilation, got %+v", d.Actions)
	}
	if !strings.Contains(d.Reasoning, "Security OK") {
		t.Errorf("reasoning should note surveillance status, got %q", d.Reasoning)
	}

	// Dark room: restore the surveillance minimum.
	lightOff := building.Device{ID: "light-1", Type: building.DeviceTypeLighting, Status: building.StatusOff}
	d, _ = NewOccupancyAgent(nil).Propose(context.Background(),
		testSnapshot(building.SensorReadings{Occupancy: 3}, lightOff), nil)
	if len(d.Actions) != 1 || d.Actions[0].Verb != building.VerbTurnOn {
		t.Errorf("dark room should turn a light on, got %+v", d.Actions)
	}
}

func TestComfortAgentFallback(t *testing.T) {
	hvac := building.Device{ID: "ac-1", Type: building.DeviceTypeHVAC, Status: building.StatusOff}
	fan := building.Device{ID: "fan-1", Type: building.DeviceTypeAirFlow, Status: building.StatusOff}

	d, _ := NewComfortAgent(nil).Propose(context.Background(),
		testSnapshot(building.SensorReadings{Temperature: 26, Occupancy: 2}, hvac, fan), nil)
	if len(d.Actions) != 2 {
		t.Fatalf("got %d actions, want HVAC cooling + airflow", len(d.Actions))
	}
	if d.Actions[0].DeviceID != "ac-1" || !strings.Contains(d.Actions[0].Reason, "Cooling required") {
		t.Errorf("first action = %+v, want cooling on ac-1", d.Actions[0])
	}
	if d.Actions[1].DeviceID != "fan-1" {
		t.Errorf("second action targets %s, want fan-1", d.Actions[1].DeviceID)
	}

	// Conference SLOs lower the setpoint to 22, making 23.5 too warm.
	slos := []slo.SLO{{Name: "Conference Room Comfort", Active: true}}
	d, _ = NewComfortAgent(nil).Propose(context.Background(),
		testSnapshot(building.SensorReadings{Temperature: 23.5}, hvac), slos)
	if len(d.Actions) != 1 {
		t.Errorf("meeting setpoint should trigger cooling at 23.5°C, got %+v", d.Actions)
	}
}

func TestEnergyAgentFallback(t *testing.T) {
	a := NewEnergyAgent(nil)
	a.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	snap := testSnapshot(building.SensorReadings{Occupancy: 0},
		building.Device{ID: "l1", Type: building.DeviceTypeLighting, Status: building.StatusOn},
		building.Device{ID: "l2", Type: building.DeviceTypeLighting, Status: building.StatusOn},
		building.Device{ID: "fan", Type: building.DeviceTypeAirFlow, Status: building.StatusOn},
		building.Device{ID: "ac", Type: building.DeviceTypeHVAC, Status: building.StatusOn},
	)

	d, _ := a.Propose(context.Background(), snap, nil)
	// Both lights shed (two are on) plus the fan; HVAC stays during the day.
	if len(d.Actions) != 3 {
		t.Fatalf("got %d actions, want 3: %+v", len(d.Actions), d.Actions)
	}
	for _, act := range d.Actions {
		if act.Verb != building.VerbTurnOff {
			t.Errorf("unexpected verb %s", act.Verb)
		}
		if act.DeviceID == "ac" {
			t.Errorf("HVAC should not be shed during daytime")
		}
	}

	a.now = func() time.Time { return time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC) }
	d, _ = a.Propose(context.Background(), snap, nil)
	if len(d.Actions) != 4 {
		t.Errorf("night hours should also shed HVAC, got %d actions", len(d.Actions))
	}

	// A single lit light survives load shedding for surveillance.
	snap = testSnapshot(building.SensorReadings{Occupancy: 0},
		building.Device{ID: "l1", Type: building.DeviceTypeLighting, Status: building.StatusOn},
	)
	a.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	d, _ = a.Propose(context.Background(), snap, nil)
	if len(d.Actions) != 0 {
		t.Errorf("last light should stay on, got %+v", d.Actions)
	}
}

func TestLLMPathConversion(t *testing.T) {
	src := &fakeSource{
		available: true,
		proposal: llm.Proposal{
			Actions: []llm.ProposedAction{
				{DeviceID: "ac-1", Verb: building.VerbSetTemperature, Parameters: map[string]any{"temperature": 22.5}, Priority: 0.8},
			},
			Reasoning:  "Cooling toward setpoint",
			Confidence: 0.85,
			Scores:     map[string]float64{"comfort": 0.9, "energy": 0.4, "reliability": 0.8, "security": 0.2},
		},
	}

	d, err := NewComfortAgent(src).Propose(context.Background(), testSnapshot(building.SensorReadings{}), nil)
	if err != nil {
		t.Fatalf("Propose returned error: %v", err)
	}
	if d.AgentID != "comfort_agent" || d.Priority != 0.7 {
		t.Errorf("identity = %s/%v, want comfort_agent/0.7", d.AgentID, d.Priority)
	}
	if len(d.Actions) != 1 || d.Actions[0].Verb != building.VerbSetTemperature {
		t.Errorf("actions = %+v", d.Actions)
	}
	if d.Confidence != 0.85 || d.Scores.Comfort != 0.9 {
		t.Errorf("confidence/scores not carried over: %v %+v", d.Confidence, d.Scores)
	}
}

func TestLLMErrorFallsBack(t *testing.T) {
	src := &fakeSource{available: true, err: errors.New("backend unreachable")}

	d, err := NewComfortAgent(src).Propose(context.Background(),
		testSnapshot(building.SensorReadings{Temperature: 23}), nil)
	if err != nil {
		t.Fatalf("Propose should absorb source errors, got %v", err)
	}
	if !strings.Contains(d.Reasoning, "Comfort optimization") {
		t.Errorf("expected rule-based reasoning, got %q", d.Reasoning)
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(nil)
	if len(r.Agents()) != 6 {
		t.Fatalf("registry holds %d agents, want 6", len(r.Agents()))
	}
	seen := map[string]bool{}
	for _, a := range r.Agents() {
		seen[a.Category()] = true
	}
	for _, cat := range []string{CategorySecurity, CategoryComfort, CategoryEnergy, CategoryEmergency, CategoryEnvironmental, CategoryOccupancy} {
		if !seen[cat] {
			t.Errorf("missing agent for category %s", cat)
		}
	}
	if _, ok := r.ByCategory(CategoryEmergency); !ok {
		t.Errorf("ByCategory(emergency_response) not found")
	}
}
