package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&enhancement.Enhancement{},
	)
}
