package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/promptcraft-backend/internal/data/repos"
	"github.com/yungbote/promptcraft-backend/internal/platform/cache"
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
)

type Repos struct {
	Enhancement repos.EnhancementRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger, rc cache.RecordCache) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Enhancement: repos.NewEnhancementRepo(db, log, rc),
	}
}
