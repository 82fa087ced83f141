// Package llm provides the language-model backend used by the decision
// agents: an OpenAI-compatible chat client with rate limiting, plus strict
// parsing of model output into action proposals.
package llm

import (
	"context"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/slo"
)

// Source produces action proposals for a room context. Agents fall back to
// rule-based logic when the source is nil or unavailable.
type Source interface {
	// Available reports whether the backend is configured and usable.
	Available() bool
	// Propose sends the agent prompt plus the formatted room context to the
	// model and returns the parsed proposal.
	Propose(ctx context.Context, prompt string, snap building.Snapshot, slos []slo.SLO) (Proposal, error)
}

// ProposedAction is a single device action suggested by the model.
type ProposedAction struct {
	DeviceID   string         `json:"device_id"`
	Verb       string         `json:"action"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Priority   float64        `json:"priority,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

// Proposal is the validated decision payload extracted from a model response.
type Proposal struct {
	Actions        []ProposedAction   `json:"decisions"`
	Reasoning      string             `json:"reasoning"`
	Confidence     float64            `json:"confidence"`
	Scores         map[string]float64 `json:"scores"`
	EmergencyLevel int                `json:"emergency_level"`
}
