package app

import (
	"gorm.io/gorm"

	studyrepo "github.com/yungbote/studyplanner-backend/internal/data/repos/study"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type Repos struct {
	Assignment    studyrepo.AssignmentRepo
	CalendarEvent studyrepo.CalendarEventRepo
	Progress      studyrepo.ProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Assignment:    studyrepo.NewAssignmentRepo(db, log),
		CalendarEvent: studyrepo.NewCalendarEventRepo(db, log),
		Progress:      studyrepo.NewProgressRepo(db, log),
	}
}
