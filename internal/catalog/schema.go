package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/careerquest/internal/scoring"
)

func obj(required []any, props map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

var (
	str       = map[string]any{"type": "string"}
	nonEmpty  = map[string]any{"type": "string", "minLength": 1}
	nonNegNum = map[string]any{"type": "number", "minimum": 0}
	posNum    = map[string]any{"type": "number", "exclusiveMinimum": 0}
	num       = map[string]any{"type": "number"}
)

func strList(minItems int) map[string]any {
	return map[string]any{"type": "array", "items": nonEmpty, "minItems": minItems}
}

// configSchemas holds the JSON Schema each archetype's config must satisfy.
// Semantic cross-field rules live in the scoring configs' Validate methods.
var configSchemas = map[scoring.Archetype]map[string]any{
	scoring.ArchetypeSelection: obj([]any{"options", "correct"}, map[string]any{
		"prompt":          str,
		"options":         strList(2),
		"correct":         strList(1),
		"contraindicated": strList(0),
		"par_seconds":     nonNegNum,
	}),
	scoring.ArchetypeBalance: obj([]any{"items", "targets"}, map[string]any{
		"prompt": str,
		"items": map[string]any{
			"type":          "object",
			"minProperties": 1,
			"additionalProperties": obj([]any{"category"}, map[string]any{
				"label":    str,
				"category": nonEmpty,
				"cost":     nonNegNum,
			}),
		},
		"targets": map[string]any{
			"type":                 "object",
			"minProperties":        1,
			"additionalProperties": map[string]any{"type": "integer", "minimum": 1},
		},
		"budget": nonNegNum,
		"conflicts": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "array",
				"items":    nonEmpty,
				"minItems": 2,
				"maxItems": 2,
			},
		},
	}),
	scoring.ArchetypeTiming: obj([]any{"cues_ms", "tolerance_ms"}, map[string]any{
		"prompt": str,
		"cues_ms": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "integer", "minimum": 0},
			"minItems": 1,
		},
		"tolerance_ms": map[string]any{"type": "integer", "minimum": 1},
	}),
	scoring.ArchetypeMeasurement: obj([]any{"targets"}, map[string]any{
		"prompt": str,
		"targets": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": obj([]any{"name", "value", "tolerance"}, map[string]any{
				"name":      nonEmpty,
				"unit":      str,
				"value":     num,
				"tolerance": posNum,
				"safe_min":  num,
				"safe_max":  num,
			}),
		},
		"par_seconds": nonNegNum,
	}),
	scoring.ArchetypeSequence: obj([]any{"steps"}, map[string]any{
		"prompt": str,
		"steps":  strList(2),
		"labels": map[string]any{
			"type":                 "object",
			"additionalProperties": str,
		},
	}),
	scoring.ArchetypeRounds: obj([]any{"rounds"}, map[string]any{
		"rounds": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": obj([]any{"prompt", "choices", "answer"}, map[string]any{
				"prompt":        nonEmpty,
				"choices":       strList(2),
				"answer":        map[string]any{"type": "integer", "minimum": 0},
				"limit_seconds": nonNegNum,
			}),
		},
	}),
}

var (
	compileOnce sync.Once
	compiled    map[scoring.Archetype]*jsonschema.Schema
	compileErr  error
)

// configSchema returns the compiled schema for an archetype.
func configSchema(a scoring.Archetype) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = compileSchemas()
	})
	if compileErr != nil {
		return nil, compileErr
	}
	sch, ok := compiled[a]
	if !ok {
		return nil, fmt.Errorf("%w: %q", scoring.ErrUnknownArchetype, a)
	}
	return sch, nil
}

func compileSchemas() (map[scoring.Archetype]*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	out := make(map[scoring.Archetype]*jsonschema.Schema, len(configSchemas))
	for a, def := range configSchemas {
		// Round-trip through JSON so the compiler sees plain JSON values.
		raw, err := json.Marshal(def)
		if err != nil {
			return nil, fmt.Errorf("marshal %s schema: %w", a, err)
		}
		parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse %s schema: %w", a, err)
		}
		url := fmt.Sprintf("schema://careerquest/%s.json", a)
		if err := c.AddResource(url, parsed); err != nil {
			return nil, fmt.Errorf("add %s schema: %w", a, err)
		}
		sch, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", a, err)
		}
		out[a] = sch
	}
	return out, nil
}

// validateConfig checks a JSON-encoded config blob against its archetype schema.
func validateConfig(a scoring.Archetype, raw []byte) error {
	sch, err := configSchema(a)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return sch.Validate(inst)
}
