package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"docqc/constants"
)

// BuildJSONSchema renders a document type's field tables as a JSON-Schema
// (draft 2020-12 subset) map. Extractor output routinely carries extra keys,
// so additionalProperties stays open; this is a structural pre-check, not the
// semantic validator.
func BuildJSONSchema(dt constants.DocumentType) (map[string]any, bool) {
	s, ok := ForType(dt)
	if !ok {
		return nil, false
	}

	props := map[string]any{}
	addField := func(name string, ft FieldType) {
		props[name] = jsonType(ft, s.LenientNumbers)
	}
	for name, ft := range s.Required {
		addField(name, ft)
	}
	for name, ft := range s.Optional {
		addField(name, ft)
	}

	required := make([]string, 0, len(s.Required))
	for name := range s.Required {
		required = append(required, name)
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties":           props,
		"required":             required,
	}, true
}

func jsonType(ft FieldType, lenient bool) map[string]any {
	switch ft {
	case TypeNumber:
		if lenient {
			return map[string]any{"type": []string{"number", "string"}}
		}
		return map[string]any{"type": "number"}
	case TypeDate:
		return map[string]any{"type": "string"}
	case TypeArray:
		return map[string]any{"type": "array"}
	case TypeObject:
		return map[string]any{"type": "object"}
	default:
		return map[string]any{"type": "string"}
	}
}

// ValidateShape validates raw JSON bytes against the document type's
// structural schema. Callers treat a failure as advisory; the semantic
// validator still runs and degrades gracefully.
func ValidateShape(dt constants.DocumentType, raw []byte) error {
	schemaMap, ok := BuildJSONSchema(dt)
	if !ok {
		return fmt.Errorf("unknown document type %q", dt)
	}
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("json does not match %s shape: %w", dt, err)
	}
	return nil
}
