// Package tools holds the agent's capability registry: named, schema
// validated actions that always produce observation text, never errors.
package tools

import (
	"fmt"
	"strings"
)

// FinalAnswerTool is the reserved pseudo-capability name the agent loop
// interprets as "stop and return". It is never part of the registry.
const FinalAnswerTool = "final_answer"

// Field describes one named argument in a tool's input schema
type Field struct {
	Name        string
	Type        string // "string", "int", "float"
	Description string
	Optional    bool
	Default     any // Used when an optional field is absent
}

// Schema is the ordered set of named fields a tool accepts
type Schema struct {
	Fields []Field
}

// Tool is a single capability the agent can invoke.
//
// Execute must never panic or return an error across its boundary: schema
// and runtime failures are converted into a textual "Error: ..." observation
// so one failing tool cannot abort the reasoning cycle.
type Tool interface {
	Name() string
	Description() string
	Schema() Schema
	Execute(args any) string
}

// Coerce validates raw decision args against the schema and returns a
// normalized field map.
//
// A bare scalar is accepted when the schema has exactly one field and is
// coerced into {field_name: value}. A map is validated field by field.
// Any other shape fails.
func (s Schema) Coerce(args any) (map[string]any, error) {
	if args == nil {
		if len(requiredFields(s)) == 0 {
			return s.applyDefaults(map[string]any{}), nil
		}
		return nil, fmt.Errorf("missing arguments")
	}

	switch v := args.(type) {
	case map[string]any:
		return s.coerceMap(v)
	case string, bool, int, int64, float64:
		if len(s.Fields) == 1 {
			return s.coerceMap(map[string]any{s.Fields[0].Name: v})
		}
		return nil, fmt.Errorf("single value given but schema has %d fields", len(s.Fields))
	default:
		return nil, fmt.Errorf("unsupported argument shape %T", args)
	}
}

func (s Schema) coerceMap(args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		raw, ok := args[f.Name]
		if !ok {
			if f.Optional {
				if f.Default != nil {
					out[f.Name] = f.Default
				}
				continue
			}
			return nil, fmt.Errorf("missing required field %q", f.Name)
		}

		val, err := coerceValue(raw, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out[f.Name] = val
	}
	return out, nil
}

func (s Schema) applyDefaults(out map[string]any) map[string]any {
	for _, f := range s.Fields {
		if _, ok := out[f.Name]; !ok && f.Optional && f.Default != nil {
			out[f.Name] = f.Default
		}
	}
	return out
}

func requiredFields(s Schema) []Field {
	var req []Field
	for _, f := range s.Fields {
		if !f.Optional {
			req = append(req, f)
		}
	}
	return req
}

// coerceValue converts a raw decoded value into the declared primitive type.
// JSON decoding yields float64 for all numbers, so int fields accept whole
// floats.
func coerceValue(raw any, fieldType string) (any, error) {
	switch fieldType {
	case "string":
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("expected string, got %T", raw)
	case "int":
		switch n := raw.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n == float64(int(n)) {
				return int(n), nil
			}
			return nil, fmt.Errorf("expected integer, got %v", n)
		default:
			return nil, fmt.Errorf("expected integer, got %T", raw)
		}
	case "float":
		switch n := raw.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		default:
			return nil, fmt.Errorf("expected number, got %T", raw)
		}
	default:
		return nil, fmt.Errorf("unknown field type %q", fieldType)
	}
}

// Describe renders the schema for inclusion in the oracle prompt
func (s Schema) Describe() string {
	if len(s.Fields) == 0 {
		return "(no arguments)"
	}

	parts := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		desc := fmt.Sprintf("%s (%s): %s", f.Name, f.Type, f.Description)
		if f.Optional {
			desc += " [optional]"
		}
		parts = append(parts, desc)
	}
	return strings.Join(parts, "; ")
}

// errorText wraps a failure into the tool observation contract
func errorText(action string, err error) string {
	return fmt.Sprintf("Error %s: %v", action, err)
}

// argString extracts a required string field from coerced args
func argString(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

// argInt extracts an int field from coerced args
func argInt(args map[string]any, name string, fallback int) int {
	if n, ok := args[name].(int); ok {
		return n
	}
	return fallback
}
