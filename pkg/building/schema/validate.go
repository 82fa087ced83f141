// Package schema validates action parameters against per-verb JSON Schema
// documents before a plan is executed against real devices.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/buildsense/buildsense/pkg/building"
)

// Built-in parameter schemas per action verb. Verbs without an entry accept
// any parameters.
var verbSchemas = map[string]json.RawMessage{
	building.VerbDim: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"brightness": {"type": "number", "minimum": 0, "maximum": 1}
		},
		"additionalProperties": false
	}`),
	building.VerbSetTemperature: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"temperature": {"type": "number", "minimum": 10, "maximum": 35}
		},
		"additionalProperties": false
	}`),
	building.VerbIncreaseVentilation: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"ventilation_level": {"type": "string", "enum": ["low", "medium", "high", "max"]}
		},
		"additionalProperties": false
	}`),
	building.VerbDehumidify: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"target_humidity": {"type": "number", "minimum": 0, "maximum": 100}
		},
		"additionalProperties": false
	}`),
	building.VerbHumidify: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"target_humidity": {"type": "number", "minimum": 0, "maximum": 100}
		},
		"additionalProperties": false
	}`),
	building.VerbTurnOn: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"brightness": {"type": "number", "minimum": 0, "maximum": 1}
		},
		"additionalProperties": false
	}`),
	building.VerbTurnOff: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"additionalProperties": false
	}`),
}

// Validator validates JSON payloads against JSON Schema documents.
// It caches compiled schemas keyed by their raw bytes.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a new Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// ValidateAction checks an action's parameters against the built-in schema
// for its verb. Verbs without a schema pass, as do actions with no
// parameters.
func (v *Validator) ValidateAction(verb string, params map[string]any) error {
	doc, ok := verbSchemas[verb]
	if !ok {
		return nil
	}
	if params == nil {
		params = map[string]any{}
	}
	if err := v.Validate(doc, params); err != nil {
		return fmt.Errorf("invalid parameters for %s: %w", verb, err)
	}
	return nil
}

// Validate validates payload against the given JSON Schema document.
// Returns nil if valid, or an error describing the validation failures.
func (v *Validator) Validate(schemaDoc json.RawMessage, payload map[string]any) error {
	if len(schemaDoc) == 0 || string(schemaDoc) == "{}" || string(schemaDoc) == "null" {
		return nil // No schema = no validation
	}

	compiled, err := v.compile(schemaDoc)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	return compiled.Validate(payload)
}

func (v *Validator) compile(schemaDoc json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schemaDoc)

	v.mu.RLock()
	if s, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	// Double-check after acquiring write lock
	if s, ok := v.cache[key]; ok {
		return s, nil
	}

	var schemaMap any
	if err := json.Unmarshal(schemaDoc, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaMap); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	v.cache[key] = compiled
	return compiled, nil
}
