package services

import (
	"context"
	"fmt"
	"math"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/promptcraft-backend/internal/data/repos"
	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
	"github.com/yungbote/promptcraft-backend/internal/observability"
	"github.com/yungbote/promptcraft-backend/internal/platform/apierr"
	"github.com/yungbote/promptcraft-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptcraft-backend/internal/platform/dbctx"
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
	"github.com/yungbote/promptcraft-backend/internal/refiner"
)

// EnhancedClarityScore is reported for every synthesized prompt. It is a
// fixed value, not a measurement.
const EnhancedClarityScore = 95.0

type EnhancementWorkflow interface {
	// Start creates a record, analyzes the prompt and attaches follow-up questions.
	Start(ctx context.Context, req types.AnalyzeRequest) (*types.Enhancement, error)
	// Answer synthesizes the enhanced prompt from the caller's answers and completes the record.
	Answer(ctx context.Context, req types.EnhanceRequest) (*types.Enhancement, error)
	Get(ctx context.Context, id string) (*types.Enhancement, error)
}

type enhancementWorkflow struct {
	log    *logger.Logger
	repo   repos.EnhancementRepo
	engine refiner.Engine
}

func NewEnhancementWorkflow(log *logger.Logger, repo repos.EnhancementRepo, engine refiner.Engine) EnhancementWorkflow {
	return &enhancementWorkflow{
		log:    log.With("service", "EnhancementWorkflow"),
		repo:   repo,
		engine: engine,
	}
}

func (w *enhancementWorkflow) Start(ctx context.Context, req types.AnalyzeRequest) (*types.Enhancement, error) {
	if err := types.Validate(req); err != nil {
		return nil, invalid(err)
	}
	style, _ := types.ParseStyle(req.Style)

	// A client that goes away must not abort model calls or store writes.
	ctx = context.WithoutCancel(ctx)
	ctx, span := observability.StartSpan(ctx, "workflow.start", attribute.String("style", string(style)))
	defer span.End()
	dbc := dbctx.New(ctx)

	rec, err := w.repo.Create(dbc, types.New(req.OriginalPrompt, style))
	if err != nil {
		w.step("start", "storage_error")
		return nil, storeErr(CodeAnalysisFailed, err)
	}
	log := w.log.With(append([]interface{}{"enhancement_id", rec.ID}, ctxutil.LogFields(ctx)...)...)

	analysis, err := w.engine.Analyze(ctx, rec.OriginalPrompt)
	if err != nil {
		// The created record stays behind without analysis; it never reaches history.
		log.Warn("analysis failed", "error", err)
		w.step("start", "upstream_error")
		return nil, apierr.Upstream(CodeAnalysisFailed, err)
	}
	questions, err := w.engine.GenerateQuestions(ctx, rec.OriginalPrompt, analysis)
	if err != nil {
		log.Warn("question generation failed", "error", err)
		w.step("start", "upstream_error")
		return nil, apierr.Upstream(CodeAnalysisFailed, err)
	}

	out, err := w.repo.UpdateFields(dbc, rec.ID, repos.EnhancementPatch{
		AnalysisResults:   analysis,
		FollowUpQuestions: questions,
	})
	if err != nil {
		w.step("start", "storage_error")
		return nil, storeErr(CodeAnalysisFailed, err)
	}
	log.Info("prompt analyzed",
		"style", out.Style,
		"prompt_len", utf8.RuneCountInString(out.OriginalPrompt),
		"questions", len(questions),
		"clarity_score", analysis.ClarityScore,
	)
	w.step("start", "ok")
	return out, nil
}

func (w *enhancementWorkflow) Answer(ctx context.Context, req types.EnhanceRequest) (*types.Enhancement, error) {
	if err := types.Validate(req); err != nil {
		return nil, invalid(err)
	}
	override, _ := types.ParseStyle(req.Style)

	ctx = context.WithoutCancel(ctx)
	ctx, span := observability.StartSpan(ctx, "workflow.answer", attribute.String("enhancement_id", req.EnhancementID))
	defer span.End()
	dbc := dbctx.New(ctx)

	rec, err := w.repo.GetByID(dbc, req.EnhancementID)
	if err != nil {
		w.step("answer", "lookup_error")
		return nil, storeErr(CodeEnhancementFailed, err)
	}
	questions := rec.FollowUpQuestions.Data()
	if err := checkAnswers(questions, req.Answers); err != nil {
		w.step("answer", "invalid")
		return nil, err
	}

	style := EffectiveStyle(override, rec.Style)
	analysis := rec.AnalysisResults.Data()
	enhanced, err := w.engine.Synthesize(ctx, refiner.SynthesisInput{
		OriginalPrompt: rec.OriginalPrompt,
		Analysis:       analysis,
		Questions:      questions,
		Answers:        req.Answers,
		Style:          style,
	})
	if err != nil {
		w.log.Warn("synthesis failed", "enhancement_id", rec.ID, "error", err)
		w.step("answer", "upstream_error")
		return nil, apierr.Upstream(CodeEnhancementFailed, err)
	}

	summary := Summarize(rec.OriginalPrompt, enhanced, analysis)
	completed := true
	out, err := w.repo.UpdateFields(dbc, rec.ID, repos.EnhancementPatch{
		Answers:            req.Answers,
		EnhancedPrompt:     &enhanced,
		ImprovementSummary: summary,
		Completed:          &completed,
	})
	if err != nil {
		w.step("answer", "storage_error")
		return nil, storeErr(CodeEnhancementFailed, err)
	}
	w.log.Info("prompt enhanced",
		"enhancement_id", out.ID,
		"style", style,
		"original_len", summary.OriginalLength,
		"enhanced_len", summary.EnhancedLength,
		"ratio", summary.ImprovementRatio,
	)
	w.step("answer", "ok")
	return out, nil
}

func (w *enhancementWorkflow) Get(ctx context.Context, id string) (*types.Enhancement, error) {
	rec, err := w.repo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, storeErr(CodeFetchFailed, err)
	}
	return rec, nil
}

func (w *enhancementWorkflow) step(step, status string) {
	observability.Current().IncWorkflowStep(step, status)
}

// EffectiveStyle resolves override, then the stored style, then detailed.
func EffectiveStyle(override, stored types.Style) types.Style {
	if override.Valid() {
		return override
	}
	if stored.Valid() {
		return stored
	}
	return types.StyleDetailed
}

// Summarize computes the improvement summary. Lengths count code points.
func Summarize(original, enhanced string, analysis *types.AnalysisResult) *types.ImprovementSummary {
	origLen := utf8.RuneCountInString(original)
	enhLen := utf8.RuneCountInString(enhanced)
	ratio := 0.0
	if origLen > 0 {
		ratio = math.Round(float64(enhLen)/float64(origLen)*100) / 100
	}
	clarity := 0.0
	if analysis != nil {
		clarity = refiner.ClampScore(analysis.ClarityScore)
	}
	return &types.ImprovementSummary{
		OriginalLength:       origLen,
		EnhancedLength:       enhLen,
		ImprovementRatio:     ratio,
		ClarityScore:         clarity,
		EnhancedClarityScore: EnhancedClarityScore,
	}
}

// checkAnswers requires exactly one well-shaped answer per stored question.
func checkAnswers(questions []types.Question, answers []types.Answer) error {
	if questions == nil {
		return invalidMsg("answers", "enhancement has no follow-up questions")
	}
	if len(answers) != len(questions) {
		return invalidMsg("answers", fmt.Sprintf("expected %d answers, got %d", len(questions), len(answers)))
	}
	byID := make(map[string]types.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	seen := make(map[string]struct{}, len(answers))
	for i, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return invalidMsg(fmt.Sprintf("answers[%d].questionId", i), fmt.Sprintf("unknown question %q", a.QuestionID))
		}
		if _, dup := seen[a.QuestionID]; dup {
			return invalidMsg(fmt.Sprintf("answers[%d].questionId", i), fmt.Sprintf("duplicate answer for question %q", a.QuestionID))
		}
		seen[a.QuestionID] = struct{}{}
		if !q.Type.Accepts(a.Answer) {
			return invalidMsg(fmt.Sprintf("answers[%d].answer", i), fmt.Sprintf("answer for question %q does not match type %s", a.QuestionID, q.Type))
		}
	}
	return nil
}
