package enhancement

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/promptcraft-backend/internal/data/db"
	"github.com/yungbote/promptcraft-backend/internal/data/repos/testutil"
	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
	"github.com/yungbote/promptcraft-backend/internal/platform/cache"
	"github.com/yungbote/promptcraft-backend/internal/platform/dbctx"
)

func newRepo(t *testing.T) (EnhancementRepo, *cache.Memory) {
	t.Helper()
	mem := cache.NewMemory()
	return NewEnhancementRepo(testutil.DB(t), testutil.Logger(t), mem), mem
}

func ptrBool(b bool) *bool    { return &b }
func ptrStr(s string) *string { return &s }

func TestEnhancementRepoLifecycle(t *testing.T) {
	repo, mem := newRepo(t)
	dbc := dbctx.New(context.Background())

	created, err := repo.Create(dbc, types.New("write a haiku", types.StyleCreative))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("Create: expected id and created_at, got %+v", created)
	}
	if created.Completed || created.Saved || created.Title != nil || created.EnhancedPrompt != nil {
		t.Fatalf("Create: expected empty draft, got %+v", created)
	}
	if created.AnalysisResults.Data() != nil || created.FollowUpQuestions.Data() != nil {
		t.Fatalf("Create: expected null step fields")
	}
	if _, ok := mem.Get(context.Background(), created.ID); !ok {
		t.Fatalf("Create: expected cache entry")
	}

	got, err := repo.GetByID(dbc, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.OriginalPrompt != "write a haiku" || got.Style != types.StyleCreative {
		t.Fatalf("GetByID: unexpected row %+v", got)
	}

	updated, err := repo.UpdateFields(dbc, created.ID, Patch{
		AnalysisResults:   &types.AnalysisResult{Summary: "vague", Gaps: []string{"audience"}, Weaknesses: []string{}, ClarityScore: 40},
		FollowUpQuestions: []types.Question{{ID: "q1", Question: "Who reads it?", Type: types.QuestionText, Required: true}},
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if a := updated.AnalysisResults.Data(); a == nil || a.ClarityScore != 40 || a.Gaps[0] != "audience" {
		t.Fatalf("UpdateFields: analysis not stored: %+v", a)
	}
	if qs := updated.FollowUpQuestions.Data(); len(qs) != 1 || qs[0].ID != "q1" {
		t.Fatalf("UpdateFields: questions not stored: %+v", qs)
	}
	if updated.OriginalPrompt != "write a haiku" || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("UpdateFields: immutable fields changed")
	}
	if updated.Answers.Data() != nil || updated.Completed {
		t.Fatalf("UpdateFields: untouched fields changed")
	}

	// Read from a cold cache must match the cached copy byte for byte.
	warm, _ := json.Marshal(mustGet(t, repo, dbc, created.ID))
	mem.Delete(context.Background(), created.ID)
	cold, _ := json.Marshal(mustGet(t, repo, dbc, created.ID))
	if string(warm) != string(cold) {
		t.Fatalf("cached and stored reads differ:\n%s\n%s", warm, cold)
	}
}

func mustGet(t *testing.T, repo EnhancementRepo, dbc dbctx.Context, id string) *types.Enhancement {
	t.Helper()
	row, err := repo.GetByID(dbc, id)
	if err != nil {
		t.Fatalf("GetByID(%s): %v", id, err)
	}
	return row
}

func TestEnhancementRepoNotFound(t *testing.T) {
	repo, _ := newRepo(t)
	dbc := dbctx.New(context.Background())

	if _, err := repo.GetByID(dbc, "missing"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("GetByID: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.UpdateFields(dbc, "missing", Patch{Completed: ptrBool(true)}); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("UpdateFields: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.SetSaved(dbc, "missing", nil); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("SetSaved: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.SetUnsaved(dbc, ""); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("SetUnsaved: expected ErrNotFound, got %v", err)
	}
}

func TestEnhancementRepoListings(t *testing.T) {
	repo, _ := newRepo(t)
	dbc := dbctx.New(context.Background())
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)

	ids := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		draft := types.New("prompt", types.StyleDetailed)
		draft.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		row, err := repo.Create(dbc, draft)
		if err != nil {
			t.Fatalf("Create[%d]: %v", i, err)
		}
		ids = append(ids, row.ID)
	}
	// Complete 0, 2, 3; save 1 and 3.
	for _, i := range []int{0, 2, 3} {
		if _, err := repo.UpdateFields(dbc, ids[i], Patch{
			Answers:            []types.Answer{},
			EnhancedPrompt:     ptrStr("better prompt"),
			ImprovementSummary: &types.ImprovementSummary{OriginalLength: 6, EnhancedLength: 13, ImprovementRatio: 2.17, EnhancedClarityScore: 95},
			Completed:          ptrBool(true),
		}); err != nil {
			t.Fatalf("UpdateFields[%d]: %v", i, err)
		}
	}
	if _, err := repo.SetSaved(dbc, ids[1], ptrStr("Draft")); err != nil {
		t.Fatalf("SetSaved: %v", err)
	}
	if _, err := repo.SetSaved(dbc, ids[3], nil); err != nil {
		t.Fatalf("SetSaved: %v", err)
	}

	recent, err := repo.ListRecent(dbc, 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 3 || recent[0].ID != ids[3] || recent[1].ID != ids[2] || recent[2].ID != ids[0] {
		t.Fatalf("ListRecent: unexpected order %v", idsOf(recent))
	}
	for _, r := range recent {
		if !r.Completed {
			t.Fatalf("ListRecent returned incomplete record %s", r.ID)
		}
	}
	if limited, err := repo.ListRecent(dbc, 2); err != nil || len(limited) != 2 {
		t.Fatalf("ListRecent(2): err=%v len=%d", err, len(limited))
	}

	saved, err := repo.ListSaved(dbc)
	if err != nil {
		t.Fatalf("ListSaved: %v", err)
	}
	if len(saved) != 2 || saved[0].ID != ids[3] || saved[1].ID != ids[1] {
		t.Fatalf("ListSaved: unexpected order %v", idsOf(saved))
	}
	if saved[1].Title == nil || *saved[1].Title != "Draft" || saved[0].Title != nil {
		t.Fatalf("ListSaved: unexpected titles")
	}

	unsaved, err := repo.SetUnsaved(dbc, ids[1])
	if err != nil {
		t.Fatalf("SetUnsaved: %v", err)
	}
	if unsaved.Saved || unsaved.Title != nil {
		t.Fatalf("SetUnsaved: expected saved=false title=nil, got %+v", unsaved)
	}
	if saved, _ = repo.ListSaved(dbc); len(saved) != 1 {
		t.Fatalf("ListSaved after unsave: expected 1, got %d", len(saved))
	}
}

func TestEnhancementRepoCallerTransactionDropsCache(t *testing.T) {
	repo, mem := newRepo(t)

	ctx := context.Background()
	row, err := repo.Create(dbctx.New(ctx), types.New("p", ""))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := mem.Get(ctx, row.ID); !ok {
		t.Fatalf("expected cache entry after Create")
	}
	r := repo.(*enhancementRepo)
	if _, err := repo.SetSaved(dbctx.Context{Ctx: ctx, Tx: r.db}, row.ID, nil); err != nil {
		t.Fatalf("SetSaved: %v", err)
	}
	if _, ok := mem.Get(ctx, row.ID); ok {
		t.Fatalf("expected cache entry dropped inside caller transaction")
	}
}

func idsOf(rows []*types.Enhancement) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}
