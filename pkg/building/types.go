package building

import (
	"encoding/json"
	"time"
)

// Device type constants
const (
	DeviceTypeHVAC      = "HVAC"
	DeviceTypeLighting  = "Lighting"
	DeviceTypeAirFlow   = "AirFlow"
	DeviceTypeSecurity  = "Security"
	DeviceTypeEmergency = "Emergency"
)

// Device status constants
const (
	StatusOn  = "ON"
	StatusOff = "OFF"
)

// Action verbs understood by the plan simulator and the device controller.
// Unknown verbs are passed through and treated as no-ops by the simulator.
const (
	VerbTurnOn              = "turn_on"
	VerbTurnOff             = "turn_off"
	VerbDim                 = "dim"
	VerbSetTemperature      = "set_temperature"
	VerbIncreaseVentilation = "increase_ventilation"

	// Verbs issued by agents that simulate as no-ops but still reach the
	// device controller during execution.
	VerbDehumidify           = "dehumidify"
	VerbHumidify             = "humidify"
	VerbEmergencyVentilation = "emergency_ventilation"
)

// Room describes a managed space. The last-coordination fields are filled by
// the audit trail after each coordination round.
type Room struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	LastCoordinatedAt time.Time       `json:"last_coordinated_at,omitzero"`
	LastCoordination  json.RawMessage `json:"last_coordination,omitempty"`
}

// Device represents one controllable device in a room.
type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`

	// Type-specific attributes. Zero values mean "unset".
	Brightness        float64 `json:"brightness,omitempty"`
	TargetTemperature float64 `json:"target_temperature,omitempty"`
}

// On reports whether the device is currently powered on.
func (d Device) On() bool {
	return d.Status == StatusOn
}

// SensorReadings holds the latest scalar readings for a room.
// Units: temperature °C, humidity %, CO2 ppm, light level lux.
type SensorReadings struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	CO2         float64 `json:"co2"`
	Occupancy   int     `json:"occupancy"`
	LightLevel  float64 `json:"light_level"`
}

// ByName returns the reading for a named metric. Unknown names read as 0,
// matching the behavior expected by generic SLO evaluation.
func (s SensorReadings) ByName(name string) float64 {
	switch name {
	case "temperature":
		return s.Temperature
	case "humidity":
		return s.Humidity
	case "co2":
		return s.CO2
	case "occupancy":
		return float64(s.Occupancy)
	case "light_level":
		return s.LightLevel
	default:
		return 0
	}
}

// Snapshot is the immutable input to one coordination round: the room, its
// devices and the latest sensor readings, captured at a single instant.
// The coordination core never mutates a Snapshot; simulations work on a Clone.
type Snapshot struct {
	Room    Room           `json:"room"`
	Devices []Device       `json:"devices"`
	Sensors SensorReadings `json:"sensors"`
	TakenAt time.Time      `json:"taken_at"`
}

// Clone returns a deep copy of the snapshot. Devices are value types, so
// reallocating the slice is sufficient to isolate the copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Devices = make([]Device, len(s.Devices))
	copy(out.Devices, s.Devices)
	return out
}

// DevicesOfType returns the devices matching the given type.
func (s Snapshot) DevicesOfType(deviceType string) []Device {
	var out []Device
	for _, d := range s.Devices {
		if d.Type == deviceType {
			out = append(out, d)
		}
	}
	return out
}

// CountOn returns how many devices are currently on.
func (s Snapshot) CountOn() int {
	n := 0
	for _, d := range s.Devices {
		if d.On() {
			n++
		}
	}
	return n
}
