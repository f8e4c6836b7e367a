package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/studyplanner-backend/internal/data/db"
	studyrepo "github.com/yungbote/studyplanner-backend/internal/data/repos/study"
	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/modules/planning"
	"github.com/yungbote/studyplanner-backend/internal/modules/progress"
	"github.com/yungbote/studyplanner-backend/internal/modules/scheduling"
	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dateutil"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type AssignmentService interface {
	Create(ctx context.Context, in AssignmentInput) (*CreatedAssignment, error)
	Preview(ctx context.Context, in AssignmentInput) (*types.StudyPlan, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Assignment, error)
	List(ctx context.Context) ([]*types.Assignment, error)
	Update(ctx context.Context, id uuid.UUID, patch types.AssignmentPatch) (*types.Assignment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Reschedule places sessions for an assignment that has none. Existing
	// events are left alone; it returns nil when there was nothing to do.
	Reschedule(ctx context.Context, id uuid.UUID) ([]*types.CalendarEvent, error)
}

type CreatedAssignment struct {
	Assignment *types.Assignment     `json:"assignment"`
	Events     []*types.CalendarEvent `json:"events"`
	Progress   types.ProgressReport  `json:"progress"`
}

type assignmentService struct {
	log         *logger.Logger
	tx          db.TxRunner
	assignments studyrepo.AssignmentRepo
	events      studyrepo.CalendarEventRepo
	progress    ProgressService
	planner     planning.Planner
	scheduler   *scheduling.Scheduler
	notify      StudyNotifier
	clock       dateutil.Clock
}

func NewAssignmentService(
	log *logger.Logger,
	tx db.TxRunner,
	assignments studyrepo.AssignmentRepo,
	events studyrepo.CalendarEventRepo,
	progressSvc ProgressService,
	planner planning.Planner,
	scheduler *scheduling.Scheduler,
	notify StudyNotifier,
	clock dateutil.Clock,
) AssignmentService {
	if notify == nil {
		notify = NewStudyNotifier(nil)
	}
	if clock == nil {
		clock = dateutil.SystemClock
	}
	return &assignmentService{
		log:         log.With("service", "AssignmentService"),
		tx:          tx,
		assignments: assignments,
		events:      events,
		progress:    progressSvc,
		planner:     planner,
		scheduler:   scheduler,
		notify:      notify,
		clock:       clock,
	}
}

// Create plans outside the transaction (the planner may call out to a model),
// then writes assignment, progress and events atomically.
func (s *assignmentService) Create(ctx context.Context, in AssignmentInput) (*CreatedAssignment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a := in.toAssignment()
	a.ID = uuid.New()
	plan := s.planner.GeneratePlan(ctx, *a)
	a.SetPlan(plan)

	var (
		prog   *types.Progress
		events []*types.CalendarEvent
	)
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := s.assignments.Create(dbc, a); err != nil {
			return err
		}
		var err error
		if prog, err = s.progress.Initialize(dbc, a); err != nil {
			return err
		}
		events, err = s.schedule(dbc, a)
		return err
	})
	if err != nil {
		s.log.Error("Create assignment failed", "subject", a.Subject, "error", err)
		return nil, err
	}
	s.progress.Prime(ctx, prog)

	s.log.Info("Assignment created",
		"assignment_id", a.ID,
		"subject", a.Subject,
		"total_hours", plan.TotalHours,
		"events", len(events),
	)
	s.notify.AssignmentCreated(ctx, a)
	s.notify.EventsScheduled(ctx, a.ID, events)

	return &CreatedAssignment{Assignment: a, Events: events, Progress: progress.BuildReport(prog)}, nil
}

// schedule avoids slots already taken by other assignments between today and
// the due date.
func (s *assignmentService) schedule(dbc dbctx.Context, a *types.Assignment) ([]*types.CalendarEvent, error) {
	now := s.clock()
	from := dateutil.StartOfDay(now)
	to := dateutil.AddDays(from, 1)
	if due, err := a.Due(now.Location()); err == nil && due.After(from) {
		to = dateutil.AddDays(due, 1)
	}
	busyRows, err := s.events.ListBetween(dbc, from, to)
	if err != nil {
		return nil, err
	}
	busy := make([]types.CalendarEvent, 0, len(busyRows))
	for _, e := range busyRows {
		busy = append(busy, *e)
	}

	planned := s.scheduler.ScheduleAround(*a, a.Plan(), busy)
	rows := make([]*types.CalendarEvent, 0, len(planned))
	counts := map[types.EventType]int{}
	for i := range planned {
		rows = append(rows, &planned[i])
		counts[planned[i].Type]++
	}
	created, err := s.events.CreateMany(dbc, rows)
	if err != nil {
		return nil, err
	}
	metrics := observability.Current()
	for typ, n := range counts {
		metrics.AddScheduledEvents(string(typ), n)
	}
	return created, nil
}

func (s *assignmentService) Preview(ctx context.Context, in AssignmentInput) (*types.StudyPlan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.planner.GeneratePlan(ctx, *in.toAssignment()), nil
}

func (s *assignmentService) Get(ctx context.Context, id uuid.UUID) (*types.Assignment, error) {
	return s.assignments.GetByID(dbctx.New(ctx), id)
}

func (s *assignmentService) List(ctx context.Context) ([]*types.Assignment, error) {
	return s.assignments.List(dbctx.New(ctx))
}

// Update edits the form fields only; the plan and its events stay as they are.
func (s *assignmentService) Update(ctx context.Context, id uuid.UUID, patch types.AssignmentPatch) (*types.Assignment, error) {
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}
	a, err := s.assignments.Update(dbctx.New(ctx), id, patch)
	if err != nil {
		return nil, err
	}
	s.notify.AssignmentUpdated(ctx, a)
	return a, nil
}

func (s *assignmentService) Delete(ctx context.Context, id uuid.UUID) error {
	var removed int64
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := s.assignments.GetByID(dbc, id); err != nil {
			return err
		}
		n, err := s.events.DeleteByAssignment(dbc, id)
		if err != nil {
			return err
		}
		removed = n
		if err := s.progress.Discard(dbc, id); err != nil {
			return err
		}
		return s.assignments.Delete(dbc, id)
	})
	if err != nil {
		return err
	}
	s.progress.Forget(ctx, id)
	s.log.Info("Assignment deleted", "assignment_id", id, "events_removed", removed)
	s.notify.AssignmentDeleted(ctx, id)
	return nil
}

func (s *assignmentService) Reschedule(ctx context.Context, id uuid.UUID) ([]*types.CalendarEvent, error) {
	var events []*types.CalendarEvent
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		a, err := s.assignments.GetByID(dbc, id)
		if err != nil {
			return err
		}
		existing, err := s.events.ListByAssignment(dbc, id)
		if err != nil || len(existing) > 0 {
			return err
		}
		events, err = s.schedule(dbc, a)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		s.notify.EventsScheduled(ctx, id, events)
	}
	return events, nil
}
