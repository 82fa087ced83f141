package llm

import (
	"fmt"
	"strings"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/slo"
)

const responseFormat = `IMPORTANT: Respond ONLY with valid JSON in the following format:
{
    "decisions": [
        {
            "device_id": "device_identifier",
            "action": "specific_action",
            "parameters": {"param1": "value1"},
            "priority": 0.8
        }
    ],
    "reasoning": "Clear explanation of decision logic and SLO considerations",
    "confidence": 0.85,
    "scores": {
        "comfort": 0.8,
        "energy": 0.7,
        "reliability": 0.9,
        "security": 0.8
    },
    "emergency_level": 0
}

Do not include any text before or after the JSON response.`

// buildPrompt assembles the full model prompt: the agent's role prompt, the
// formatted room context and the JSON response contract.
func buildPrompt(prompt string, snap building.Snapshot, slos []slo.SLO) string {
	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nCURRENT CONTEXT:\n")
	b.WriteString(formatContext(snap, slos))
	b.WriteString("\n\n")
	b.WriteString(responseFormat)
	return b.String()
}

func formatContext(snap building.Snapshot, slos []slo.SLO) string {
	var sections []string

	sections = append(sections, fmt.Sprintf("Room: %s (ID: %d)", snap.Room.Name, snap.Room.ID))

	if len(snap.Devices) > 0 {
		lines := make([]string, 0, len(snap.Devices))
		for _, d := range snap.Devices {
			lines = append(lines, fmt.Sprintf("- %s (%s): %s", d.Name, d.Type, d.Status))
		}
		sections = append(sections, "Devices:\n"+strings.Join(lines, "\n"))
	}

	if len(slos) > 0 {
		lines := make([]string, 0, len(slos))
		for _, s := range slos {
			lines = append(lines, fmt.Sprintf("- %s: Target %g", s.Name, s.TargetValue))
		}
		sections = append(sections, "Active SLOs:\n"+strings.Join(lines, "\n"))
	}

	sensors := snap.Sensors
	sections = append(sections, fmt.Sprintf(
		"Sensors: Temperature: %g°C, Humidity: %g%%, CO2: %gppm, Occupancy: %d people, Light Level: %g lux",
		sensors.Temperature, sensors.Humidity, sensors.CO2, sensors.Occupancy, sensors.LightLevel))

	return strings.Join(sections, "\n\n")
}
