package coordinator

import (
	"sort"

	"github.com/buildsense/buildsense/pkg/agent"
)

// Strategy selects how conflicting agent actions are reconciled.
type Strategy string

const (
	StrategyPriorityWeighted Strategy = "priority_weighted"
	StrategyMajorityVote     Strategy = "majority_vote"
	StrategySafetyFirst      Strategy = "safety_first"
	StrategyEnergyBalance    Strategy = "energy_balance"
)

// DefaultStrategies are tried on every coordination round, yielding one
// candidate plan each.
var DefaultStrategies = []Strategy{StrategyPriorityWeighted, StrategySafetyFirst, StrategyEnergyBalance}

// Conflict records a device that multiple agents tried to control and which
// agent won.
type Conflict struct {
	DeviceID          string   `json:"device_id"`
	ConflictingAgents []string `json:"conflicting_agents"`
	Winner            string   `json:"winner"`
	ResolutionMethod  string   `json:"resolution_method"`
}

// Resolution is the outcome of applying one strategy to the agent decisions.
type Resolution struct {
	Actions   []agent.Action `json:"resolved_actions"`
	Conflicts []Conflict     `json:"conflicts"`
	Method    Strategy       `json:"resolution_method"`
}

// safetyOrder ranks agent categories for the safety-first strategy. Lower
// index wins. Unknown categories sort after all known ones.
var safetyOrder = []string{
	agent.CategoryEmergency,
	agent.CategorySecurity,
	agent.CategoryEnvironmental,
	agent.CategoryComfort,
	agent.CategoryOccupancy,
	agent.CategoryEnergy,
}

// Resolve reconciles the actions proposed by all agents under the given
// strategy. Unknown strategies fall back to priority weighting. Resolution is
// deterministic: devices and vote keys are processed in first-submission
// order.
func Resolve(decisions []agent.Decision, strategy Strategy) Resolution {
	switch strategy {
	case StrategyMajorityVote:
		return resolveMajorityVote(decisions)
	case StrategySafetyFirst:
		return resolveSafetyFirst(decisions)
	case StrategyEnergyBalance:
		return resolveEnergyBalance(decisions)
	default:
		return resolvePriorityWeighted(decisions)
	}
}

type claim struct {
	action   agent.Action
	category string
	priority float64
}

// resolvePriorityWeighted awards each contested device to the agent with the
// highest priority weight. Ties keep the earliest submission.
func resolvePriorityWeighted(decisions []agent.Decision) Resolution {
	byDevice := map[string][]claim{}
	var order []string

	for _, d := range decisions {
		for _, a := range d.Actions {
			if _, seen := byDevice[a.DeviceID]; !seen {
				order = append(order, a.DeviceID)
			}
			byDevice[a.DeviceID] = append(byDevice[a.DeviceID], claim{
				action:   a,
				category: d.Category,
				priority: d.Priority,
			})
		}
	}

	res := Resolution{Method: StrategyPriorityWeighted, Actions: []agent.Action{}}
	for _, deviceID := range order {
		claims := byDevice[deviceID]
		if len(claims) == 1 {
			res.Actions = append(res.Actions, claims[0].action)
			continue
		}

		winner := claims[0]
		agents := make([]string, 0, len(claims))
		for _, c := range claims {
			agents = append(agents, c.category)
			if c.priority > winner.priority {
				winner = c
			}
		}
		res.Actions = append(res.Actions, winner.action)
		res.Conflicts = append(res.Conflicts, Conflict{
			DeviceID:          deviceID,
			ConflictingAgents: agents,
			Winner:            winner.category,
			ResolutionMethod:  string(StrategyPriorityWeighted),
		})
	}
	return res
}

// resolveMajorityVote keeps only actions that at least two agents proposed
// for the same device and verb. A round where no action reaches two votes
// resolves to an empty plan.
func resolveMajorityVote(decisions []agent.Decision) Resolution {
	type tally struct {
		action agent.Action
		votes  int
	}
	votes := map[[2]string]*tally{}
	var order [][2]string

	for _, d := range decisions {
		for _, a := range d.Actions {
			key := [2]string{a.DeviceID, a.Verb}
			t, ok := votes[key]
			if !ok {
				t = &tally{action: a}
				votes[key] = t
				order = append(order, key)
			}
			t.votes++
		}
	}

	res := Resolution{Method: StrategyMajorityVote, Actions: []agent.Action{}}
	for _, key := range order {
		if votes[key].votes >= 2 {
			res.Actions = append(res.Actions, votes[key].action)
		}
	}
	return res
}

// resolveSafetyFirst processes decisions in safety precedence order and
// gives each device to its first claimant.
func resolveSafetyFirst(decisions []agent.Decision) Resolution {
	rank := func(category string) int {
		for i, c := range safetyOrder {
			if c == category {
				return i
			}
		}
		return len(safetyOrder)
	}

	ordered := make([]agent.Decision, len(decisions))
	copy(ordered, decisions)
	// Stable sort keeps submission order within a category.
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank(ordered[i].Category) < rank(ordered[j].Category)
	})

	claimed := map[string]bool{}
	res := Resolution{Method: StrategySafetyFirst, Actions: []agent.Action{}}
	for _, d := range ordered {
		for _, a := range d.Actions {
			if claimed[a.DeviceID] {
				continue
			}
			claimed[a.DeviceID] = true
			res.Actions = append(res.Actions, a)
		}
	}
	return res
}

// resolveEnergyBalance includes every non-energy action, then admits energy
// actions only for devices nothing else touched.
func resolveEnergyBalance(decisions []agent.Decision) Resolution {
	var energyActions, otherActions []agent.Action
	for _, d := range decisions {
		if d.Category == agent.CategoryEnergy {
			energyActions = append(energyActions, d.Actions...)
		} else {
			otherActions = append(otherActions, d.Actions...)
		}
	}

	claimed := map[string]bool{}
	for _, a := range otherActions {
		claimed[a.DeviceID] = true
	}

	res := Resolution{Method: StrategyEnergyBalance, Actions: []agent.Action{}}
	res.Actions = append(res.Actions, otherActions...)
	for _, a := range energyActions {
		if !claimed[a.DeviceID] {
			res.Actions = append(res.Actions, a)
		}
	}
	return res
}
