package schema

import (
	"encoding/json"
	"testing"

	"github.com/buildsense/buildsense/pkg/building"
)

func TestValidateAction_ValidDim(t *testing.T) {
	v := NewValidator()

	err := v.ValidateAction(building.VerbDim, map[string]any{
		"brightness": 0.3,
	})
	if err != nil {
		t.Errorf("expected valid parameters, got: %v", err)
	}
}

func TestValidateAction_BrightnessOutOfRange(t *testing.T) {
	v := NewValidator()

	err := v.ValidateAction(building.VerbDim, map[string]any{
		"brightness": 1.5,
	})
	if err == nil {
		t.Error("expected validation error for out-of-range brightness")
	}
}

func TestValidateAction_TemperatureBounds(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateAction(building.VerbSetTemperature, map[string]any{"temperature": float64(23)}); err != nil {
		t.Errorf("expected valid parameters, got: %v", err)
	}
	if err := v.ValidateAction(building.VerbSetTemperature, map[string]any{"temperature": float64(50)}); err == nil {
		t.Error("expected validation error for temperature above range")
	}
}

func TestValidateAction_InvalidVentilationLevel(t *testing.T) {
	v := NewValidator()

	err := v.ValidateAction(building.VerbIncreaseVentilation, map[string]any{
		"ventilation_level": "turbo",
	})
	if err == nil {
		t.Error("expected validation error for unknown ventilation level")
	}
}

func TestValidateAction_UnknownProperty(t *testing.T) {
	v := NewValidator()

	err := v.ValidateAction(building.VerbTurnOff, map[string]any{
		"unknown": "value",
	})
	if err == nil {
		t.Error("expected validation error for unknown property")
	}
}

func TestValidateAction_NoParameters(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateAction(building.VerbTurnOn, nil); err != nil {
		t.Errorf("nil parameters should pass, got: %v", err)
	}
}

func TestValidateAction_UnknownVerbPasses(t *testing.T) {
	v := NewValidator()

	err := v.ValidateAction("maintain_current_state", map[string]any{"anything": "goes"})
	if err != nil {
		t.Errorf("verbs without a schema should pass, got: %v", err)
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	v := NewValidator()

	// Empty schema means no validation
	err := v.Validate(json.RawMessage(`{}`), map[string]any{
		"anything": "goes",
	})
	if err != nil {
		t.Errorf("empty schema should skip validation, got: %v", err)
	}
}

func TestValidate_WrongType(t *testing.T) {
	v := NewValidator()

	err := v.ValidateAction(building.VerbDim, map[string]any{
		"brightness": "not_a_number",
	})
	if err == nil {
		t.Error("expected validation error for wrong type")
	}
}

func TestValidate_CachesSchema(t *testing.T) {
	v := NewValidator()

	// First call compiles, second should hit the cache.
	if err := v.ValidateAction(building.VerbDim, map[string]any{"brightness": 0.1}); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateAction(building.VerbDim, map[string]any{"brightness": 0.9}); err != nil {
		t.Fatal(err)
	}

	v.mu.RLock()
	cacheSize := len(v.cache)
	v.mu.RUnlock()
	if cacheSize != 1 {
		t.Errorf("expected 1 cached schema, got %d", cacheSize)
	}
}
