package refiner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
	"github.com/yungbote/promptcraft-backend/internal/platform/llm"
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
	"github.com/yungbote/promptcraft-backend/internal/platform/promptstyle"
)

// ErrNoQuestions is returned when generation yields an empty question list.
var ErrNoQuestions = errors.New("model returned no follow-up questions")

// Engine is the LLM collaborator behind the enhancement workflow.
type Engine interface {
	Analyze(ctx context.Context, prompt string) (*types.AnalysisResult, error)
	GenerateQuestions(ctx context.Context, prompt string, analysis *types.AnalysisResult) ([]types.Question, error)
	Synthesize(ctx context.Context, in SynthesisInput) (string, error)
}

type SynthesisInput struct {
	OriginalPrompt string
	Analysis       *types.AnalysisResult
	Questions      []types.Question
	Answers        []types.Answer
	Style          types.Style
}

type engine struct {
	log    *logger.Logger
	client llm.Client
	styles *promptstyle.Catalog
}

func New(log *logger.Logger, client llm.Client, styles *promptstyle.Catalog) Engine {
	if styles == nil {
		styles = promptstyle.Default()
	}
	return &engine{
		log:    log.With("service", "RefinerEngine"),
		client: client,
		styles: styles,
	}
}

func (e *engine) Analyze(ctx context.Context, prompt string) (*types.AnalysisResult, error) {
	obj, err := e.client.GenerateJSON(ctx, analysisSystem, analysisUser(prompt), "prompt_analysis", analysisSchema())
	if err != nil {
		return nil, fmt.Errorf("analyze prompt: %w", err)
	}
	out := analysisFromJSON(obj)
	e.log.Debug("prompt analyzed",
		"prompt_len", utf8.RuneCountInString(prompt),
		"gaps", len(out.Gaps),
		"weaknesses", len(out.Weaknesses),
		"clarity_score", out.ClarityScore,
	)
	return out, nil
}

func (e *engine) GenerateQuestions(ctx context.Context, prompt string, analysis *types.AnalysisResult) ([]types.Question, error) {
	obj, err := e.client.GenerateJSON(ctx, questionsSystem, questionsUser(prompt, analysis), "follow_up_questions", questionsSchema())
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	out := questionsFromJSON(obj)
	if len(out) == 0 {
		return nil, fmt.Errorf("generate questions: %w", ErrNoQuestions)
	}
	e.log.Debug("questions generated", "count", len(out))
	return out, nil
}

func (e *engine) Synthesize(ctx context.Context, in SynthesisInput) (string, error) {
	style := in.Style
	if !style.Valid() {
		style = types.StyleDetailed
	}
	in.Style = style
	text, err := e.client.GenerateText(ctx, synthesisSystem, synthesisUser(in, e.styles.Instructions(string(style))))
	if err != nil {
		return "", fmt.Errorf("synthesize prompt: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		e.log.Warn("empty synthesis output, falling back to original prompt", "style", style)
		return in.OriginalPrompt, nil
	}
	return text, nil
}
