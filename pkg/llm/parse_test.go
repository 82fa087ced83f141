package llm

import (
	"strings"
	"testing"
)

func TestParseProposalComplete(t *testing.T) {
	text := `{
		"decisions": [
			{"device_id": "hvac-1", "action": "set_temperature", "parameters": {"target": 23}, "priority": 0.8}
		],
		"reasoning": "Cooling toward setpoint",
		"confidence": 0.85,
		"scores": {"comfort": 0.9, "energy": 0.4, "reliability": 0.8, "security": 0.2},
		"emergency_level": 1
	}`

	p, err := ParseProposal(text)
	if err != nil {
		t.Fatalf("ParseProposal returned error: %v", err)
	}
	if len(p.Actions) != 1 || p.Actions[0].DeviceID != "hvac-1" || p.Actions[0].Verb != "set_temperature" {
		t.Errorf("unexpected actions: %+v", p.Actions)
	}
	if p.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", p.Confidence)
	}
	if p.Scores["comfort"] != 0.9 {
		t.Errorf("comfort score = %v, want 0.9", p.Scores["comfort"])
	}
	if p.EmergencyLevel != 1 {
		t.Errorf("emergency level = %d, want 1", p.EmergencyLevel)
	}
}

func TestParseProposalMissingFields(t *testing.T) {
	p, err := ParseProposal(`{}`)
	if err != nil {
		t.Fatalf("ParseProposal returned error: %v", err)
	}
	if len(p.Actions) != 0 {
		t.Errorf("actions should default empty, got %+v", p.Actions)
	}
	if p.Reasoning != "Unable to parse agent reasoning" {
		t.Errorf("reasoning = %q", p.Reasoning)
	}
	if p.Confidence != 0.5 {
		t.Errorf("missing confidence should default to 0.5, got %v", p.Confidence)
	}
	for _, k := range scoreKeys {
		if p.Scores[k] != 0.5 {
			t.Errorf("score %s = %v, want 0.5", k, p.Scores[k])
		}
	}
}

func TestParseProposalCoercesInvalidNumbers(t *testing.T) {
	p, err := ParseProposal(`{"confidence": 1.7, "scores": {"comfort": -0.2, "energy": 0.6}}`)
	if err != nil {
		t.Fatalf("ParseProposal returned error: %v", err)
	}
	if p.Confidence != 0.8 {
		t.Errorf("out-of-range confidence should coerce to 0.8, got %v", p.Confidence)
	}
	if p.Scores["comfort"] != 0.5 {
		t.Errorf("out-of-range score should coerce to 0.5, got %v", p.Scores["comfort"])
	}
	if p.Scores["energy"] != 0.6 {
		t.Errorf("valid score should pass through, got %v", p.Scores["energy"])
	}
}

func TestParseProposalStripsCodeFence(t *testing.T) {
	text := "```json\n{\"reasoning\": \"fenced\", \"confidence\": 0.6}\n```"
	p, err := ParseProposal(text)
	if err != nil {
		t.Fatalf("ParseProposal returned error: %v", err)
	}
	if p.Reasoning != "fenced" || p.Confidence != 0.6 {
		t.Errorf("unexpected proposal: %+v", p)
	}
}

func TestParseProposalGarbageReturnsFallback(t *testing.T) {
	p, err := ParseProposal("I think you should turn everything off.")
	if err == nil {
		t.Fatal("expected an error for non-JSON input")
	}
	if p.Confidence != 0.3 {
		t.Errorf("fallback confidence = %v, want 0.3", p.Confidence)
	}
	if len(p.Actions) != 1 || p.Actions[0].Verb != "maintain_current_state" {
		t.Errorf("fallback actions = %+v", p.Actions)
	}
	if !strings.Contains(p.Reasoning, "Fallback decision") {
		t.Errorf("fallback reasoning = %q", p.Reasoning)
	}
}
