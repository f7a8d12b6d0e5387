package refiner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
	"github.com/yungbote/promptcraft-backend/internal/platform/llm"
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
	"github.com/yungbote/promptcraft-backend/internal/platform/promptstyle"
)

type fakeClient struct {
	json    map[string]any
	text    string
	err     error
	systems []string
	users   []string
	schemas []string
}

func (f *fakeClient) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	f.schemas = append(f.schemas, schemaName)
	if f.err != nil {
		return nil, f.err
	}
	return f.json, nil
}

func (f *fakeClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeClient) Provider() string { return "fake" }
func (f *fakeClient) Model() string    { return "fake-1" }

func newEngine(c llm.Client) Engine {
	return New(logger.NewNop(), c, nil)
}

func TestAnalyzeAppliesDefaults(t *testing.T) {
	t.Parallel()

	c := &fakeClient{json: map[string]any{
		"gaps":         []any{" audience ", "", 3.0},
		"clarityScore": 140.0,
	}}
	out, err := newEngine(c).Analyze(context.Background(), "Write a story")
	require.NoError(t, err)
	assert.Equal(t, "Unable to analyze prompt", out.Summary)
	assert.Equal(t, []string{"audience"}, out.Gaps)
	assert.Empty(t, out.Weaknesses)
	assert.NotNil(t, out.Weaknesses)
	assert.Equal(t, 100.0, out.ClarityScore)
	require.Len(t, c.users, 1)
	assert.Contains(t, c.users[0], `"Write a story"`)
	assert.Equal(t, "prompt_analysis", c.schemas[0])
}

func TestAnalyzeAcceptsNumericStringScore(t *testing.T) {
	t.Parallel()

	obj, err := llm.DecodeStructured("prompt_analysis", analysisSchema(), `{"summary":"ok","clarityScore":" 80 "}`)
	require.NoError(t, err)

	out, err := newEngine(&fakeClient{json: obj}).Analyze(context.Background(), "Write a story")
	require.NoError(t, err)
	assert.Equal(t, 80.0, out.ClarityScore)

	out, err = newEngine(&fakeClient{json: map[string]any{"clarityScore": "high"}}).Analyze(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.ClarityScore)
}

func TestAnalyzePropagatesUpstreamErrors(t *testing.T) {
	t.Parallel()

	c := &fakeClient{err: llm.ErrMalformedOutput}
	_, err := newEngine(c).Analyze(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrMalformedOutput))
}

func TestGenerateQuestionsNormalizes(t *testing.T) {
	t.Parallel()

	c := &fakeClient{json: map[string]any{"questions": []any{
		map[string]any{"id": "q1", "question": "Who is the audience?", "type": "TEXT"},
		map[string]any{"id": "q1", "question": "Tone?", "type": "choice", "options": []any{"formal", "casual"}},
		map[string]any{"question": "Pick features", "type": "checkbox"},
		map[string]any{"type": "slider"},
		map[string]any{"id": "q5", "question": "How long?", "type": "scale", "options": []any{"ignored"}},
	}}}
	analysis := &types.AnalysisResult{Summary: "vague", Gaps: []string{"audience", "tone"}}
	qs, err := newEngine(c).GenerateQuestions(context.Background(), "Write a story", analysis)
	require.NoError(t, err)
	require.Len(t, qs, 5)

	assert.Equal(t, "q1", qs[0].ID)
	assert.Equal(t, types.QuestionText, qs[0].Type)
	assert.Equal(t, "q1-2", qs[1].ID)
	assert.Equal(t, []string{"formal", "casual"}, qs[1].Options)
	assert.Equal(t, "q3", qs[2].ID)
	assert.Equal(t, types.QuestionText, qs[2].Type, "checkbox without options degrades to text")
	assert.Equal(t, "q4", qs[3].ID)
	assert.Equal(t, types.QuestionText, qs[3].Type)
	assert.Equal(t, "What additional information can you provide?", qs[3].Question)
	assert.Equal(t, types.QuestionScale, qs[4].Type)
	assert.Nil(t, qs[4].Options)
	for _, q := range qs {
		assert.True(t, q.Required)
	}
	assert.Contains(t, c.users[0], "Identified gaps: audience, tone")
}

func TestGenerateQuestionsEmptyIsError(t *testing.T) {
	t.Parallel()

	c := &fakeClient{json: map[string]any{"questions": []any{}}}
	_, err := newEngine(c).GenerateQuestions(context.Background(), "x", nil)
	require.ErrorIs(t, err, ErrNoQuestions)
}

func TestSynthesizeBuildsAnswerBlock(t *testing.T) {
	t.Parallel()

	c := &fakeClient{text: "  Enhanced prompt text \n"}
	out, err := newEngine(c).Synthesize(context.Background(), SynthesisInput{
		OriginalPrompt: "Write a story",
		Analysis:       &types.AnalysisResult{},
		Questions: []types.Question{
			{ID: "q1", Question: "Audience?", Type: types.QuestionText},
			{ID: "q2", Question: "Features?", Type: types.QuestionCheckbox, Options: []string{"a", "b"}},
		},
		Answers: []types.Answer{
			{QuestionID: "q1", Answer: types.StringAnswer("kids")},
			{QuestionID: "q2", Answer: types.ListAnswer([]string{"a", "b"})},
		},
		Style: types.StyleTechnical,
	})
	require.NoError(t, err)
	assert.Equal(t, "Enhanced prompt text", out)

	user := c.users[0]
	assert.Contains(t, user, "Q: Audience?\nA: kids\n\nQ: Features?\nA: a, b")
	assert.Contains(t, user, "Analysis issues identified: None")
	assert.Contains(t, user, "Style: technical")
	assert.Contains(t, user, promptstyle.Default().Instructions("technical"))
}

func TestSynthesizeEmptyOutputFallsBack(t *testing.T) {
	t.Parallel()

	c := &fakeClient{text: "   "}
	out, err := newEngine(c).Synthesize(context.Background(), SynthesisInput{OriginalPrompt: "Write a story"})
	require.NoError(t, err)
	assert.Equal(t, "Write a story", out)
	assert.Contains(t, c.users[0], "Style: detailed")
}

func TestStyleCatalogCoversDomainStyles(t *testing.T) {
	t.Parallel()

	cat := promptstyle.Default()
	for _, s := range types.Styles {
		_, ok := cat.Lookup(string(s))
		assert.True(t, ok, "style %q missing from catalog", s)
	}
	assert.Equal(t, string(types.StyleDetailed), cat.Default)
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ClampScore(-5))
	assert.Equal(t, 42.5, ClampScore(42.5))
	assert.Equal(t, 100.0, ClampScore(101))
}
