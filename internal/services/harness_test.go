package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyplanner-backend/internal/data/db"
	studyrepo "github.com/yungbote/studyplanner-backend/internal/data/repos/study"
	"github.com/yungbote/studyplanner-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/modules/planning"
	"github.com/yungbote/studyplanner-backend/internal/modules/scheduling"
	"github.com/yungbote/studyplanner-backend/internal/platform/cache"
)

// Thursday.
var testNow = time.Date(2024, 11, 7, 10, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingNotifier) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
}

func (r *recordingNotifier) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}
	return n
}

func (r *recordingNotifier) AssignmentCreated(context.Context, *types.Assignment) {
	r.add("AssignmentCreated")
}
func (r *recordingNotifier) AssignmentUpdated(context.Context, *types.Assignment) {
	r.add("AssignmentUpdated")
}
func (r *recordingNotifier) AssignmentDeleted(context.Context, uuid.UUID) {
	r.add("AssignmentDeleted")
}
func (r *recordingNotifier) EventsScheduled(context.Context, uuid.UUID, []*types.CalendarEvent) {
	r.add("EventsScheduled")
}
func (r *recordingNotifier) EventUpdated(context.Context, *types.CalendarEvent) {
	r.add("EventUpdated")
}
func (r *recordingNotifier) EventDeleted(context.Context, *types.CalendarEvent) {
	r.add("EventDeleted")
}
func (r *recordingNotifier) ProgressUpdated(context.Context, types.ProgressReport) {
	r.add("ProgressUpdated")
}

type harness struct {
	assignments AssignmentService
	calendar    CalendarService
	progress    ProgressService
	notify      *recordingNotifier
	cache       cache.ProgressCache
	progressDB  studyrepo.ProgressRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conn := testutil.SQLite(t)
	log := testutil.Logger(t)

	assignmentRepo := studyrepo.NewAssignmentRepo(conn, log)
	eventRepo := studyrepo.NewCalendarEventRepo(conn, log)
	progressRepo := studyrepo.NewProgressRepo(conn, log)

	notify := &recordingNotifier{}
	c := cache.NewMemoryProgressCache()
	catalog := planning.DefaultCatalog()

	progressSvc := NewProgressService(log, progressRepo, c, notify, testClock)
	return &harness{
		assignments: NewAssignmentService(
			log,
			db.NewGormTxRunner(conn),
			assignmentRepo,
			eventRepo,
			progressSvc,
			planning.NewHeuristicPlanner(catalog, testClock),
			scheduling.NewScheduler(catalog, testClock),
			notify,
			testClock,
		),
		calendar:   NewCalendarService(log, eventRepo, assignmentRepo, progressSvc, notify, testClock),
		progress:   progressSvc,
		notify:     notify,
		cache:      c,
		progressDB: progressRepo,
	}
}

func mathInput() AssignmentInput {
	return AssignmentInput{
		Title:            "Calculus midterm",
		Subject:          "Math",
		DueDate:          "2024-11-17",
		TargetGrade:      90,
		ProficiencyLevel: 3,
		WeekdayHours:     2,
		WeekendHours:     4,
	}
}

func countType(events []*types.CalendarEvent, typ types.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}
