package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

var scoreKeys = []string{"comfort", "energy", "reliability", "security"}

// ParseProposal decodes a raw model response into a Proposal. Missing fields
// are filled with conservative defaults and out-of-range numbers are coerced
// rather than rejected: model output is untrusted but a partial answer is
// still more useful than none. A response that is not JSON at all returns
// Fallback() alongside the decode error.
func ParseProposal(text string) (Proposal, error) {
	var raw struct {
		Decisions      *[]ProposedAction   `json:"decisions"`
		Reasoning      *string             `json:"reasoning"`
		Confidence     *float64            `json:"confidence"`
		Scores         *map[string]float64 `json:"scores"`
		EmergencyLevel *int                `json:"emergency_level"`
	}
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return Fallback(), fmt.Errorf("llm: response is not valid JSON: %w", err)
	}

	p := Proposal{
		Actions:   []ProposedAction{},
		Reasoning: "Unable to parse agent reasoning",
		Scores:    map[string]float64{},
	}

	if raw.Decisions != nil {
		p.Actions = *raw.Decisions
	}
	if raw.Reasoning != nil {
		p.Reasoning = *raw.Reasoning
	}

	switch {
	case raw.Confidence == nil:
		p.Confidence = 0.5
	case *raw.Confidence < 0 || *raw.Confidence > 1 || math.IsNaN(*raw.Confidence):
		p.Confidence = 0.8
	default:
		p.Confidence = *raw.Confidence
	}

	if raw.Scores != nil {
		for k, v := range *raw.Scores {
			if v < 0 || v > 1 || math.IsNaN(v) {
				v = 0.5
			}
			p.Scores[k] = v
		}
	} else {
		for _, k := range scoreKeys {
			p.Scores[k] = 0.5
		}
	}

	if raw.EmergencyLevel != nil {
		p.EmergencyLevel = *raw.EmergencyLevel
	}

	return p, nil
}

// Fallback is the safe proposal used when the model response cannot be
// parsed: hold current device state with low confidence.
func Fallback() Proposal {
	return Proposal{
		Actions: []ProposedAction{
			{DeviceID: "system", Verb: "maintain_current_state", Parameters: map[string]any{}, Priority: 0.5},
		},
		Reasoning:  "Fallback decision due to LLM API failure. Maintaining current device states for safety.",
		Confidence: 0.3,
		Scores: map[string]float64{
			"comfort":     0.5,
			"energy":      0.5,
			"reliability": 0.8,
			"security":    0.7,
		},
	}
}

// stripFences removes a surrounding markdown code fence, which models emit
// despite instructions not to.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
