package execution

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/buildsense/buildsense/pkg/agent"
	"github.com/buildsense/buildsense/pkg/building"
)

// Controller executes a single device action and returns the device response.
type Controller interface {
	Execute(ctx context.Context, action agent.Action) (map[string]any, error)
}

// Per-type execution latency. HVAC and emergency systems are mechanical and
// slow; lighting switches fast.
var deviceLatency = map[string]time.Duration{
	building.DeviceTypeHVAC:      10 * time.Second,
	building.DeviceTypeLighting:  3 * time.Second,
	building.DeviceTypeAirFlow:   5 * time.Second,
	building.DeviceTypeSecurity:  5 * time.Second,
	building.DeviceTypeEmergency: 15 * time.Second,
}

const defaultLatency = 3 * time.Second

// Nominal power draw in watts when a device is on.
var basePowerWatts = map[string]float64{
	building.DeviceTypeHVAC:      2500,
	building.DeviceTypeLighting:  60,
	building.DeviceTypeAirFlow:   150,
	building.DeviceTypeSecurity:  25,
	building.DeviceTypeEmergency: 100,
}

const defaultPowerWatts = 50

var fanSpeedForLevel = map[string]int{"low": 1, "medium": 2, "high": 3, "max": 4}

var airFlowForLevel = map[string]float64{"low": 100, "medium": 200, "high": 350, "max": 500}

// SimulatedController stands in for real device transports (MQTT, CoAP,
// Zigbee). It sleeps for a capped per-type latency, fabricates a plausible
// device response, and fails a configurable fraction of calls.
type SimulatedController struct {
	// MaxDelay caps the simulated communication delay per action.
	MaxDelay time.Duration
	// FailureRate is the probability in [0,1] that an action fails with a
	// communication error.
	FailureRate float64
	// TypeOf resolves a device ID to its type for latency and power
	// simulation. Nil treats every device as unknown.
	TypeOf func(deviceID string) string
	// Rand supplies the failure roll; defaults to the shared PRNG.
	Rand func() float64

	now func() time.Time
}

// NewSimulatedController returns a controller with a 2s delay cap and a 5%
// failure rate.
func NewSimulatedController(typeOf func(deviceID string) string) *SimulatedController {
	return &SimulatedController{
		MaxDelay:    2 * time.Second,
		FailureRate: 0.05,
		TypeOf:      typeOf,
		Rand:        rand.Float64,
		now:         time.Now,
	}
}

// Execute simulates one device action. The context bounds the simulated
// communication delay.
func (c *SimulatedController) Execute(ctx context.Context, action agent.Action) (map[string]any, error) {
	deviceType := "Unknown"
	if c.TypeOf != nil {
		if t := c.TypeOf(action.DeviceID); t != "" {
			deviceType = t
		}
	}

	latency, ok := deviceLatency[deviceType]
	if !ok {
		latency = defaultLatency
	}
	if latency > c.MaxDelay {
		latency = c.MaxDelay
	}
	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if c.Rand() < c.FailureRate {
		return nil, fmt.Errorf("simulated device communication failure for %s", action.DeviceID)
	}

	return c.response(action, deviceType), nil
}

func (c *SimulatedController) response(action agent.Action, deviceType string) map[string]any {
	resp := map[string]any{
		"device_id": action.DeviceID,
		"timestamp": c.now().Format(time.RFC3339),
		"status":    "success",
	}

	switch action.Verb {
	case building.VerbTurnOn:
		resp["new_status"] = building.StatusOn
		resp["power_consumption"] = powerWatts(deviceType)
	case building.VerbTurnOff:
		resp["new_status"] = building.StatusOff
		resp["power_consumption"] = 0.0
	case building.VerbDim:
		brightness := floatParam(action.Parameters, "brightness", 0.5)
		resp["new_status"] = building.StatusOn
		resp["brightness"] = brightness
		resp["power_consumption"] = powerWatts(deviceType) * brightness
	case building.VerbSetTemperature:
		target := floatParam(action.Parameters, "temperature", 23)
		resp["target_temperature"] = target
		resp["current_temperature"] = target - 1.0
		resp["heating_cooling_active"] = true
	case building.VerbIncreaseVentilation:
		level := stringParam(action.Parameters, "ventilation_level", "medium")
		resp["ventilation_level"] = level
		resp["fan_speed"] = fanSpeed(level)
		resp["air_flow_rate"] = airFlow(level)
	}

	return resp
}

func powerWatts(deviceType string) float64 {
	if w, ok := basePowerWatts[deviceType]; ok {
		return w
	}
	return defaultPowerWatts
}

func fanSpeed(level string) int {
	if s, ok := fanSpeedForLevel[level]; ok {
		return s
	}
	return fanSpeedForLevel["medium"]
}

func airFlow(level string) float64 {
	if f, ok := airFlowForLevel[level]; ok {
		return f
	}
	return airFlowForLevel["medium"]
}

func floatParam(params map[string]any, key string, fallback float64) float64 {
	switch n := params[key].(type) {
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

func stringParam(params map[string]any, key, fallback string) string {
	if s, ok := params[key].(string); ok {
		return s
	}
	return fallback
}
