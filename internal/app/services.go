package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/data/db"
	"github.com/yungbote/studyplanner-backend/internal/modules/planning"
	"github.com/yungbote/studyplanner-backend/internal/modules/scheduling"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dateutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/cache"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type Services struct {
	Catalog    *planning.SubjectCatalog
	Planner    planning.Planner
	Assignment services.AssignmentService
	Calendar   services.CalendarService
	Progress   services.ProgressService
}

func wireServices(theDB *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, hub *realtime.SSEHub) (Services, error) {
	log.Info("Wiring services...")
	clock := dateutil.SystemClock

	catalog := planning.DefaultCatalog()
	if cfg.SubjectsFile != "" {
		c, err := planning.LoadCatalog(cfg.SubjectsFile)
		if err != nil {
			return Services{}, fmt.Errorf("load subjects file: %w", err)
		}
		catalog = c
	}

	heuristic := planning.NewHeuristicPlanner(catalog, clock)
	var planner planning.Planner = heuristic
	if clients.OpenAI != nil {
		planner = planning.NewAIPlanner(log, clients.OpenAI, heuristic, cfg.AIPlanTimeout)
	}

	progressCache := cache.NewMemoryProgressCache()
	if clients.Redis != nil {
		progressCache = cache.NewRedisProgressCache(clients.Redis, cfg.ProgressCacheTTL)
	}

	var pub realtime.Publisher
	if clients.SSEBus != nil {
		pub = clients.SSEBus
	}
	notify := services.NewStudyNotifier(realtime.NewNotifier(log, hub, pub))

	progressSvc := services.NewProgressService(log, repos.Progress, progressCache, notify, clock)
	assignmentSvc := services.NewAssignmentService(
		log,
		db.NewGormTxRunner(theDB),
		repos.Assignment,
		repos.CalendarEvent,
		progressSvc,
		planner,
		scheduling.NewScheduler(catalog, clock),
		notify,
		clock,
	)
	calendarSvc := services.NewCalendarService(log, repos.CalendarEvent, repos.Assignment, progressSvc, notify, clock)

	return Services{
		Catalog:    catalog,
		Planner:    planner,
		Assignment: assignmentSvc,
		Calendar:   calendarSvc,
		Progress:   progressSvc,
	}, nil
}
