package testutil

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
)

// Seed describes a row inserted directly, bypassing the workflow.
type Seed struct {
	Prompt    string
	Style     types.Style
	CreatedAt time.Time
	Completed bool
	Saved     bool
	Title     *string
}

// SeedEnhancement inserts a record in the state described by s. Completed
// records get answers, an enhanced prompt and a summary so they satisfy the
// completion invariant.
func SeedEnhancement(tb testing.TB, ctx context.Context, tx *gorm.DB, s Seed) *types.Enhancement {
	tb.Helper()
	prompt := s.Prompt
	if prompt == "" {
		prompt = "seeded prompt"
	}
	e := types.New(prompt, s.Style)
	if !s.CreatedAt.IsZero() {
		e.CreatedAt = s.CreatedAt.UTC().Truncate(time.Microsecond)
		e.UpdatedAt = e.CreatedAt
	}
	if s.Completed {
		enhanced := prompt + " (enhanced)"
		e.Answers = datatypes.NewJSONType([]types.Answer{})
		e.EnhancedPrompt = &enhanced
		e.ImprovementSummary = datatypes.NewJSONType(&types.ImprovementSummary{
			OriginalLength:       utf8.RuneCountInString(prompt),
			EnhancedLength:       utf8.RuneCountInString(enhanced),
			EnhancedClarityScore: 95,
		})
		e.Completed = true
	}
	e.Saved = s.Saved
	if s.Saved {
		e.Title = s.Title
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enhancement: %v", err)
	}
	return e
}
