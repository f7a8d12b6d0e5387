package refiner

// Presence of non-critical fields is not required; missing values are
// defaulted after decoding. Types are still enforced, except clarityScore,
// which may arrive as a numeric string.

func analysisSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":      map[string]any{"type": "string"},
			"gaps":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"weaknesses":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"clarityScore": map[string]any{"type": []any{"number", "string"}},
		},
	}
}

func questionsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":       map[string]any{"type": "string"},
						"question": map[string]any{"type": "string"},
						"type":     map[string]any{"type": "string"},
						"options":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
				},
			},
		},
		"required": []any{"questions"},
	}
}
