package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/yungbote/promptcraft-backend/internal/data/repos"
	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
	"github.com/yungbote/promptcraft-backend/internal/platform/dbctx"
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// LibraryService covers browsing completed enhancements and bookmarking them.
type LibraryService interface {
	History(ctx context.Context, rawLimit string) ([]*types.Enhancement, error)
	Saved(ctx context.Context) ([]*types.Enhancement, error)
	Save(ctx context.Context, id string, req types.SaveRequest) (*types.Enhancement, error)
	Unsave(ctx context.Context, id string) (*types.Enhancement, error)
}

type libraryService struct {
	log  *logger.Logger
	repo repos.EnhancementRepo
}

func NewLibraryService(log *logger.Logger, repo repos.EnhancementRepo) LibraryService {
	return &libraryService{
		log:  log.With("service", "LibraryService"),
		repo: repo,
	}
}

func (s *libraryService) History(ctx context.Context, rawLimit string) ([]*types.Enhancement, error) {
	out, err := s.repo.ListRecent(dbctx.New(ctx), ParseHistoryLimit(rawLimit))
	if err != nil {
		return nil, storeErr(CodeHistoryFailed, err)
	}
	return out, nil
}

func (s *libraryService) Saved(ctx context.Context) ([]*types.Enhancement, error) {
	out, err := s.repo.ListSaved(dbctx.New(ctx))
	if err != nil {
		return nil, storeErr(CodeSavedFailed, err)
	}
	return out, nil
}

func (s *libraryService) Save(ctx context.Context, id string, req types.SaveRequest) (*types.Enhancement, error) {
	title, err := types.NormalizeTitle(req.Title)
	if err != nil {
		return nil, invalid(err)
	}
	out, err := s.repo.SetSaved(dbctx.New(ctx), id, title)
	if err != nil {
		return nil, storeErr(CodeSaveFailed, err)
	}
	s.log.Debug("enhancement saved", "enhancement_id", id, "titled", title != nil)
	return out, nil
}

func (s *libraryService) Unsave(ctx context.Context, id string) (*types.Enhancement, error) {
	out, err := s.repo.SetUnsaved(dbctx.New(ctx), id)
	if err != nil {
		return nil, storeErr(CodeUnsaveFailed, err)
	}
	s.log.Debug("enhancement unsaved", "enhancement_id", id)
	return out, nil
}

// ParseHistoryLimit falls back to the default for missing, malformed or
// non-positive values and caps large ones.
func ParseHistoryLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultHistoryLimit
	}
	if n > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return n
}
