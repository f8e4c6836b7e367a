package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/domain/study"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&study.Assignment{},
		&study.CalendarEvent{},
		&study.ProgressRecord{},
	)
}
