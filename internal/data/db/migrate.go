package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/domain/study"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(study.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
