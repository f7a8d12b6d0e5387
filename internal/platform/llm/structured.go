package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DecodeStructured recovers a JSON object from model output and validates it
// against schema. Every failure wraps ErrMalformedOutput.
func DecodeStructured(schemaName string, schema map[string]any, content string) (map[string]any, error) {
	raw, err := parseStructuredJSON(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON object: %v", ErrMalformedOutput, err)
	}
	if err := validateStructured(schemaName, schema, obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return obj, nil
}

// parseStructuredJSON parses JSON from model output, with lightweight recovery
// for markdown code fences and surrounding text.
func parseStructuredJSON(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty structured output")
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}
	return nil, fmt.Errorf("failed to parse structured JSON")
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractJSONCandidate(content string) string {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(trimmed, "}")
	if end < start {
		return ""
	}
	return strings.TrimSpace(trimmed[start : end+1])
}

var compiled sync.Map // schemaName + raw schema -> *jsonschema.Schema

func validateStructured(schemaName string, schema map[string]any, doc map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("serialize schema %q: %w", schemaName, err)
	}
	key := schemaName + "\x00" + string(raw)
	var sch *jsonschema.Schema
	if v, ok := compiled.Load(key); ok {
		sch = v.(*jsonschema.Schema)
	} else {
		compiler := jsonschema.NewCompiler()
		url := "mem://" + strings.ReplaceAll(strings.TrimSpace(schemaName), " ", "_") + ".json"
		if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
			return fmt.Errorf("load schema %q: %w", schemaName, err)
		}
		sch, err = compiler.Compile(url)
		if err != nil {
			return fmt.Errorf("compile schema %q: %w", schemaName, err)
		}
		compiled.Store(key, sch)
	}
	// Round-trip so numbers are float64 the way the validator expects.
	var generic any
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, &generic); err != nil {
		return err
	}
	if err := sch.Validate(generic); err != nil {
		return fmt.Errorf("output does not match schema %q: %w", schemaName, err)
	}
	return nil
}
