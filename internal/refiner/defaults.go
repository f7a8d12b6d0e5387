package refiner

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
)

const (
	defaultSummary  = "Unable to analyze prompt"
	defaultQuestion = "What additional information can you provide?"
)

func analysisFromJSON(obj map[string]any) *types.AnalysisResult {
	out := &types.AnalysisResult{
		Summary:      strings.TrimSpace(stringField(obj, "summary")),
		Gaps:         stringList(obj["gaps"]),
		Weaknesses:   stringList(obj["weaknesses"]),
		ClarityScore: ClampScore(numberField(obj, "clarityScore")),
	}
	if out.Summary == "" {
		out.Summary = defaultSummary
	}
	return out
}

func questionsFromJSON(obj map[string]any) []types.Question {
	items, _ := obj["questions"].([]any)
	out := make([]types.Question, 0, len(items))
	seen := map[string]int{}
	for i, item := range items {
		m, _ := item.(map[string]any)
		q := types.Question{
			ID:       strings.TrimSpace(stringField(m, "id")),
			Question: strings.TrimSpace(stringField(m, "question")),
			Type:     types.QuestionType(strings.ToLower(strings.TrimSpace(stringField(m, "type")))),
			Required: true,
		}
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		if q.Question == "" {
			q.Question = defaultQuestion
		}
		if !q.Type.Valid() {
			q.Type = types.QuestionText
		}
		if q.Type.HasOptions() {
			q.Options = stringList(m["options"])
			if len(q.Options) == 0 {
				q.Type = types.QuestionText
				q.Options = nil
			}
		}
		q.ID = uniqueID(seen, q.ID)
		out = append(out, q)
	}
	return out
}

// uniqueID suffixes repeats: q1, q1-2, q1-3.
func uniqueID(seen map[string]int, id string) string {
	seen[id]++
	if seen[id] == 1 {
		return id
	}
	for {
		candidate := fmt.Sprintf("%s-%d", id, seen[id])
		if _, taken := seen[candidate]; !taken {
			seen[candidate] = 1
			return candidate
		}
		seen[id]++
	}
}

// ClampScore bounds a clarity score to [0,100].
func ClampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func numberField(m map[string]any, key string) float64 {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
