package enhancement

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/promptcraft-backend/internal/data/db"
	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
	"github.com/yungbote/promptcraft-backend/internal/platform/cache"
	"github.com/yungbote/promptcraft-backend/internal/platform/dbctx"
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
)

const DefaultListLimit = 10

// Patch is a sparse update. Nil fields are left untouched; id, original
// prompt and creation time cannot be expressed.
type Patch struct {
	AnalysisResults    *types.AnalysisResult
	FollowUpQuestions  []types.Question
	Answers            []types.Answer
	EnhancedPrompt     *string
	ImprovementSummary *types.ImprovementSummary
	Completed          *bool
}

func (p Patch) columns() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.AnalysisResults != nil {
		updates["analysis_results"] = datatypes.NewJSONType(p.AnalysisResults)
	}
	if p.FollowUpQuestions != nil {
		updates["follow_up_questions"] = datatypes.NewJSONType(p.FollowUpQuestions)
	}
	if p.Answers != nil {
		updates["answers"] = datatypes.NewJSONType(p.Answers)
	}
	if p.EnhancedPrompt != nil {
		updates["enhanced_prompt"] = *p.EnhancedPrompt
	}
	if p.ImprovementSummary != nil {
		updates["improvement_summary"] = datatypes.NewJSONType(p.ImprovementSummary)
	}
	if p.Completed != nil {
		updates["completed"] = *p.Completed
	}
	return updates
}

type EnhancementRepo interface {
	Create(dbc dbctx.Context, draft *types.Enhancement) (*types.Enhancement, error)
	GetByID(dbc dbctx.Context, id string) (*types.Enhancement, error)
	UpdateFields(dbc dbctx.Context, id string, patch Patch) (*types.Enhancement, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*types.Enhancement, error)
	ListSaved(dbc dbctx.Context) ([]*types.Enhancement, error)
	SetSaved(dbc dbctx.Context, id string, title *string) (*types.Enhancement, error)
	SetUnsaved(dbc dbctx.Context, id string) (*types.Enhancement, error)
}

type enhancementRepo struct {
	db    *gorm.DB
	log   *logger.Logger
	cache cache.RecordCache
}

func NewEnhancementRepo(db *gorm.DB, baseLog *logger.Logger, rc cache.RecordCache) EnhancementRepo {
	if rc == nil {
		rc = cache.NewNop()
	}
	return &enhancementRepo{
		db:    db,
		log:   baseLog.With("repo", "EnhancementRepo"),
		cache: rc,
	}
}

func (r *enhancementRepo) Create(dbc dbctx.Context, draft *types.Enhancement) (*types.Enhancement, error) {
	transaction := dbc.DB(r.db)
	if draft == nil {
		return nil, db.MapError("EnhancementRepo.Create", errors.New("nil draft"))
	}
	if err := transaction.Create(draft).Error; err != nil {
		return nil, db.MapError("EnhancementRepo.Create", err)
	}
	r.remember(dbc, draft)
	return draft, nil
}

func (r *enhancementRepo) GetByID(dbc dbctx.Context, id string) (*types.Enhancement, error) {
	if id == "" {
		return nil, db.MapError("EnhancementRepo.GetByID", gorm.ErrRecordNotFound)
	}
	if dbc.Tx == nil {
		if raw, ok := r.cache.Get(dbc.Context(), id); ok {
			var cached types.Enhancement
			if err := json.Unmarshal(raw, &cached); err == nil && cached.ID == id {
				return &cached, nil
			}
			r.log.Warn("dropping undecodable cache entry", "id", id)
			r.cache.Delete(dbc.Context(), id)
		}
	}
	row, err := r.load(dbc.DB(r.db), id)
	if err != nil {
		return nil, db.MapError("EnhancementRepo.GetByID", err)
	}
	r.remember(dbc, row)
	return row, nil
}

func (r *enhancementRepo) UpdateFields(dbc dbctx.Context, id string, patch Patch) (*types.Enhancement, error) {
	return r.update(dbc, "EnhancementRepo.UpdateFields", id, patch.columns())
}

func (r *enhancementRepo) ListRecent(dbc dbctx.Context, limit int) ([]*types.Enhancement, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var out []*types.Enhancement
	if err := dbc.DB(r.db).
		Where("completed = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, db.MapError("EnhancementRepo.ListRecent", err)
	}
	return out, nil
}

func (r *enhancementRepo) ListSaved(dbc dbctx.Context) ([]*types.Enhancement, error) {
	var out []*types.Enhancement
	if err := dbc.DB(r.db).
		Where("saved = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, db.MapError("EnhancementRepo.ListSaved", err)
	}
	return out, nil
}

func (r *enhancementRepo) SetSaved(dbc dbctx.Context, id string, title *string) (*types.Enhancement, error) {
	var titleVal interface{}
	if title != nil {
		titleVal = *title
	}
	return r.update(dbc, "EnhancementRepo.SetSaved", id, map[string]interface{}{
		"saved": true,
		"title": titleVal,
	})
}

func (r *enhancementRepo) SetUnsaved(dbc dbctx.Context, id string) (*types.Enhancement, error) {
	return r.update(dbc, "EnhancementRepo.SetUnsaved", id, map[string]interface{}{
		"saved": false,
		"title": nil,
	})
}

func (r *enhancementRepo) update(dbc dbctx.Context, op string, id string, updates map[string]interface{}) (*types.Enhancement, error) {
	if id == "" {
		return nil, db.MapError(op, gorm.ErrRecordNotFound)
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = types.Now()
	}

	var out *types.Enhancement
	err := dbc.DB(r.db).Transaction(func(txx *gorm.DB) error {
		res := txx.Model(&types.Enhancement{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		row, err := r.load(txx, id)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("update failed", "op", op, "id", id, "error", err)
		}
		return nil, db.MapError(op, err)
	}
	r.remember(dbc, out)
	return out, nil
}

func (r *enhancementRepo) load(transaction *gorm.DB, id string) (*types.Enhancement, error) {
	var row types.Enhancement
	if err := transaction.Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// remember refreshes the cache entry. Inside a caller-owned transaction the
// write may still roll back, so the entry is dropped instead.
func (r *enhancementRepo) remember(dbc dbctx.Context, row *types.Enhancement) {
	if row == nil || row.ID == "" {
		return
	}
	ctx := dbc.Context()
	if dbc.Tx != nil {
		r.cache.Delete(ctx, row.ID)
		return
	}
	raw, err := json.Marshal(row)
	if err != nil {
		r.log.Warn("cache encode failed", "id", row.ID, "error", err)
		return
	}
	r.cache.Set(ctx, row.ID, raw)
}
