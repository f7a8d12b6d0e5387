package refiner

import (
	"fmt"
	"strings"

	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
)

const (
	analysisSystem = `You are a prompt analysis expert. Analyze the given prompt and identify its weaknesses, ambiguities, and missing elements.`

	questionsSystem = `You are an expert at generating clarifying questions to improve prompts. Based on the original prompt and analysis, generate 3-5 targeted questions that will help gather missing information.`

	synthesisSystem = `You are a prompt enhancement expert. Take the original prompt and the user's answers to clarifying questions, then create a comprehensive, well-structured prompt that addresses all the identified gaps and weaknesses.`
)

func analysisUser(prompt string) string {
	return fmt.Sprintf(`Analyze this prompt: %q

Respond with JSON containing:
- summary: Brief analysis summary
- gaps: Array of identified gaps
- weaknesses: Array of weaknesses
- clarityScore: Number between 0 and 100`, prompt)
}

func questionsUser(prompt string, analysis *types.AnalysisResult) string {
	summary, gaps, weaknesses := "", "", ""
	if analysis != nil {
		summary = analysis.Summary
		gaps = strings.Join(analysis.Gaps, ", ")
		weaknesses = strings.Join(analysis.Weaknesses, ", ")
	}
	return fmt.Sprintf(`Original prompt: %q

Analysis summary: %s
Identified gaps: %s
Weaknesses: %s

Generate targeted clarifying questions to address these issues. Each question should have:
- id: unique identifier
- question: the question text
- type: one of "text", "choice", "scale", "checkbox"
- options: array of options (only for choice/checkbox types, otherwise an empty array)

Respond with JSON containing a "questions" array.`, prompt, summary, gaps, weaknesses)
}

func synthesisUser(in SynthesisInput, styleInstructions string) string {
	gaps := "None"
	if in.Analysis != nil && len(in.Analysis.Gaps) > 0 {
		gaps = strings.Join(in.Analysis.Gaps, ", ")
	}
	return fmt.Sprintf(`Style: %s
%s

Original prompt: %q

Analysis issues identified: %s

User's answers to clarifying questions:
%s

Create an enhanced version of this prompt that incorporates all the additional information, addresses the identified issues, and follows the specified style guidelines. The enhanced prompt should be engaging and effective for the chosen style. Return only the enhanced prompt text, no additional formatting or explanation.`,
		in.Style, styleInstructions, in.OriginalPrompt, gaps, answersBlock(in.Questions, in.Answers))
}

// answersBlock renders each answer as a Q/A pair, resolving question text by id.
func answersBlock(questions []types.Question, answers []types.Answer) string {
	byID := make(map[string]string, len(questions))
	for _, q := range questions {
		byID[q.ID] = q.Question
	}
	blocks := make([]string, 0, len(answers))
	for _, a := range answers {
		text, ok := byID[a.QuestionID]
		if !ok || strings.TrimSpace(text) == "" {
			text = "Unknown"
		}
		blocks = append(blocks, fmt.Sprintf("Q: %s\nA: %s", text, a.Answer.Text()))
	}
	return strings.Join(blocks, "\n\n")
}
