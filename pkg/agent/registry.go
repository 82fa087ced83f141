package agent

import "github.com/buildsense/buildsense/pkg/llm"

// Registry holds the active agents in a stable order. Order matters for
// conflict resolution: strategies that award a device to the first claimant
// see submissions in registry order.
type Registry struct {
	agents []Agent
}

// NewRegistry builds a registry from an explicit agent list.
func NewRegistry(agents ...Agent) *Registry {
	return &Registry{agents: agents}
}

// DefaultRegistry returns the six standard agents, all sharing one model
// source. A nil source puts every agent on its rule-based fallback.
func DefaultRegistry(source llm.Source) *Registry {
	return NewRegistry(
		NewSecurityAgent(source),
		NewComfortAgent(source),
		NewEnergyAgent(source),
		NewEmergencyAgent(source),
		NewEnvironmentalAgent(source),
		NewOccupancyAgent(source),
	)
}

// Agents returns the registered agents in registration order.
func (r *Registry) Agents() []Agent {
	return r.agents
}

// ByCategory returns the first registered agent for a category.
func (r *Registry) ByCategory(category string) (Agent, bool) {
	for _, a := range r.agents {
		if a.Category() == category {
			return a, true
		}
	}
	return nil, false
}
