package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/promptcraft-backend/internal/data/repos"
	"github.com/yungbote/promptcraft-backend/internal/data/repos/testutil"
	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
	"github.com/yungbote/promptcraft-backend/internal/platform/apierr"
	"github.com/yungbote/promptcraft-backend/internal/platform/cache"
	"github.com/yungbote/promptcraft-backend/internal/platform/dbctx"
)

func ctxDB(ctx context.Context) dbctx.Context { return dbctx.New(ctx) }

func newLibrary(t *testing.T) (LibraryService, EnhancementWorkflow, *gorm.DB) {
	t.Helper()
	log := testutil.Logger(t)
	gdb := testutil.DB(t)
	repo := repos.NewEnhancementRepo(gdb, log, cache.NewMemory())
	return NewLibraryService(log, repo), NewEnhancementWorkflow(log, repo, defaultEngine()), gdb
}

func completeOne(t *testing.T, wf EnhancementWorkflow, prompt string) *types.Enhancement {
	t.Helper()
	ctx := context.Background()
	rec, err := wf.Start(ctx, types.AnalyzeRequest{OriginalPrompt: prompt})
	require.NoError(t, err)
	done, err := wf.Answer(ctx, types.EnhanceRequest{EnhancementID: rec.ID, Answers: validAnswers()})
	require.NoError(t, err)
	return done
}

func TestLibraryHistoryOnlyCompleted(t *testing.T) {
	lib, _, gdb := newLibrary(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	first := testutil.SeedEnhancement(t, ctx, gdb, testutil.Seed{Prompt: "first", CreatedAt: base, Completed: true})
	testutil.SeedEnhancement(t, ctx, gdb, testutil.Seed{Prompt: "pending", CreatedAt: base.Add(time.Minute)})
	second := testutil.SeedEnhancement(t, ctx, gdb, testutil.Seed{Prompt: "second", CreatedAt: base.Add(2 * time.Minute), Completed: true})

	got, err := lib.History(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	for _, rec := range got {
		assert.True(t, rec.Completed)
	}

	one, err := lib.History(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, one, 1)

	title := "Kept"
	testutil.SeedEnhancement(t, ctx, gdb, testutil.Seed{Prompt: "bookmarked", CreatedAt: base.Add(3 * time.Minute), Saved: true, Title: &title})
	saved, err := lib.Saved(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Kept", *saved[0].Title)
	assert.False(t, saved[0].Completed)
}

func TestLibrarySaveAndUnsave(t *testing.T) {
	lib, wf, _ := newLibrary(t)
	ctx := context.Background()
	rec := completeOne(t, wf, "save me")

	title := "  Foo  "
	saved, err := lib.Save(ctx, rec.ID, types.SaveRequest{Title: &title})
	require.NoError(t, err)
	assert.True(t, saved.Saved)
	require.NotNil(t, saved.Title)
	assert.Equal(t, "Foo", *saved.Title)

	list, err := lib.Saved(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)

	unsaved, err := lib.Unsave(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, unsaved.Saved)
	assert.Nil(t, unsaved.Title)

	list, err = lib.Saved(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	untitled, err := lib.Save(ctx, rec.ID, types.SaveRequest{})
	require.NoError(t, err)
	assert.True(t, untitled.Saved)
	assert.Nil(t, untitled.Title)
}

func TestLibrarySaveErrors(t *testing.T) {
	lib, wf, _ := newLibrary(t)
	ctx := context.Background()
	rec := completeOne(t, wf, "x")

	blank := "   "
	_, err := lib.Save(ctx, rec.ID, types.SaveRequest{Title: &blank})
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))

	long := strings.Repeat("é", types.MaxTitleLength+1)
	_, err = lib.Save(ctx, rec.ID, types.SaveRequest{Title: &long})
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))

	exact := strings.Repeat("é", types.MaxTitleLength)
	_, err = lib.Save(ctx, rec.ID, types.SaveRequest{Title: &exact})
	assert.NoError(t, err)

	_, err = lib.Save(ctx, "missing", types.SaveRequest{})
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
	_, err = lib.Unsave(ctx, "missing")
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
}

func TestParseHistoryLimit(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"":     DefaultHistoryLimit,
		"abc":  DefaultHistoryLimit,
		"0":    DefaultHistoryLimit,
		"-3":   DefaultHistoryLimit,
		"5":    5,
		" 7 ":  7,
		"1000": MaxHistoryLimit,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseHistoryLimit(raw), raw)
	}
}
