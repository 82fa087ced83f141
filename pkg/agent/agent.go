// Package agent implements the decision agents that propose device actions
// for a room. Each variant covers one concern (security, comfort, energy,
// emergency response, environment, occupancy), consults a language model when
// one is configured, and falls back to rule-based logic otherwise.
package agent

import (
	"context"
	"time"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/slo"
)

// Agent categories. The category doubles as the conflict-resolution identity:
// priority weights and safety ordering key off it.
const (
	CategorySecurity      = "security"
	CategoryComfort       = "comfort"
	CategoryEnergy        = "energy_efficiency"
	CategoryEmergency     = "emergency_response"
	CategoryEnvironmental = "environmental"
	CategoryOccupancy     = "occupancy"
)

// Agent proposes device actions for a room snapshot.
type Agent interface {
	ID() string
	Category() string
	Propose(ctx context.Context, snap building.Snapshot, slos []slo.SLO) (Decision, error)
}

// Scores are an agent's self-assessment of how its proposal trades off the
// four building concerns, each in [0,1].
type Scores struct {
	Comfort     float64 `json:"comfort"`
	Energy      float64 `json:"energy"`
	Reliability float64 `json:"reliability"`
	Security    float64 `json:"security"`
}

// Action is one device command inside a decision.
type Action struct {
	DeviceID   string         `json:"device_id"`
	Verb       string         `json:"action"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Priority   float64        `json:"priority,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

// Decision is an agent's full proposal for one coordination round.
type Decision struct {
	AgentID        string    `json:"agent_id"`
	Category       string    `json:"agent_type"`
	Priority       float64   `json:"priority"`
	Timestamp      time.Time `json:"timestamp"`
	Actions        []Action  `json:"decisions"`
	Reasoning      string    `json:"reasoning"`
	Scores         Scores    `json:"scores"`
	Confidence     float64   `json:"confidence"`
	EmergencyLevel int       `json:"emergency_level,omitempty"`
}

// Config describes an agent variant.
type Config struct {
	Name           string
	Description    string
	PriorityWeight float64
}

// Configs maps each category to its variant configuration. Emergency response
// carries the highest weight and wins priority-weighted conflicts outright.
var Configs = map[string]Config{
	CategorySecurity: {
		Name:           "Security Guardian",
		Description:    "Ensures physical security and surveillance requirements",
		PriorityWeight: 0.9,
	},
	CategoryComfort: {
		Name:           "Comfort Optimizer",
		Description:    "Optimizes temperature, lighting, and air quality for occupant comfort",
		PriorityWeight: 0.7,
	},
	CategoryEnergy: {
		Name:           "Energy Saver",
		Description:    "Minimizes energy consumption while maintaining essential services",
		PriorityWeight: 0.6,
	},
	CategoryEmergency: {
		Name:           "Emergency Handler",
		Description:    "Handles emergency situations and safety protocols",
		PriorityWeight: 1.0,
	},
	CategoryEnvironmental: {
		Name:           "Environment Controller",
		Description:    "Monitors and controls environmental conditions",
		PriorityWeight: 0.6,
	},
	CategoryOccupancy: {
		Name:           "Occupancy Coordinator",
		Description:    "Optimizes room usage and occupancy-based services",
		PriorityWeight: 0.7,
	},
}

// PriorityWeight returns the configured weight for a category, 0.5 for
// unknown categories.
func PriorityWeight(category string) float64 {
	if cfg, ok := Configs[category]; ok {
		return cfg.PriorityWeight
	}
	return 0.5
}
