package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/promptcraft-backend/internal/data/repos/enhancement"
	"github.com/yungbote/promptcraft-backend/internal/platform/cache"
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
)

type EnhancementRepo = enhancement.EnhancementRepo
type EnhancementPatch = enhancement.Patch

func NewEnhancementRepo(db *gorm.DB, baseLog *logger.Logger, rc cache.RecordCache) EnhancementRepo {
	return enhancement.NewEnhancementRepo(db, baseLog, rc)
}
