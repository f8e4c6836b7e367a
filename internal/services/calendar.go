package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	studyrepo "github.com/yungbote/studyplanner-backend/internal/data/repos/study"
	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/modules/progress"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dateutil"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
	"github.com/yungbote/studyplanner-backend/internal/pkg/keyedmutex"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type GridView string

const (
	GridViewMonth GridView = "month"
	GridViewWeek  GridView = "week"
)

// EventQuery filters ListEvents. From and To are calendar days; To is
// inclusive. Zero values leave that bound open.
type EventQuery struct {
	From         time.Time
	To           time.Time
	AssignmentID uuid.UUID
}

type GridDay struct {
	Date      string                 `json:"date"`
	InPeriod  bool                   `json:"inPeriod"`
	IsToday   bool                   `json:"isToday"`
	IsWeekend bool                   `json:"isWeekend"`
	Events    []*types.CalendarEvent `json:"events"`
}

type CalendarGrid struct {
	View GridView  `json:"view"`
	Date string    `json:"date"`
	Days []GridDay `json:"days"`
}

// CompletedEvent is the result of completing an event. Progress is nil for
// milestone and review events.
type CompletedEvent struct {
	Event    *types.CalendarEvent  `json:"event"`
	Progress *types.ProgressReport `json:"progress,omitempty"`
}

type CalendarService interface {
	ListEvents(ctx context.Context, q EventQuery) ([]*types.CalendarEvent, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, patch types.EventPatch) (*types.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	CompleteEvent(ctx context.Context, id uuid.UUID) (*CompletedEvent, error)
	Grid(ctx context.Context, view GridView, date time.Time) (*CalendarGrid, error)
}

type calendarService struct {
	log         *logger.Logger
	events      studyrepo.CalendarEventRepo
	assignments studyrepo.AssignmentRepo
	progress    ProgressService
	notify      StudyNotifier
	clock       dateutil.Clock

	// Keyed by event id. May be held while ProgressService takes its lock on
	// the assignment, never the other way round.
	locks *keyedmutex.Mutex[uuid.UUID]
}

func NewCalendarService(
	log *logger.Logger,
	events studyrepo.CalendarEventRepo,
	assignments studyrepo.AssignmentRepo,
	progressSvc ProgressService,
	notify StudyNotifier,
	clock dateutil.Clock,
) CalendarService {
	if notify == nil {
		notify = NewStudyNotifier(nil)
	}
	if clock == nil {
		clock = dateutil.SystemClock
	}
	return &calendarService{
		log:         log.With("service", "CalendarService"),
		events:      events,
		assignments: assignments,
		progress:    progressSvc,
		notify:      notify,
		clock:       clock,
		locks:       keyedmutex.New[uuid.UUID](),
	}
}

func (s *calendarService) ListEvents(ctx context.Context, q EventQuery) ([]*types.CalendarEvent, error) {
	dbc := dbctx.New(ctx)
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return nil, apperrors.Invalid("to must not be before from")
	}

	if q.AssignmentID == uuid.Nil && !q.From.IsZero() && !q.To.IsZero() {
		return s.events.ListBetween(dbc, dateutil.StartOfDay(q.From), dateutil.AddDays(dateutil.StartOfDay(q.To), 1))
	}

	var (
		rows []*types.CalendarEvent
		err  error
	)
	if q.AssignmentID != uuid.Nil {
		rows, err = s.events.ListByAssignment(dbc, q.AssignmentID)
	} else {
		rows, err = s.events.List(dbc)
	}
	if err != nil {
		return nil, err
	}

	out := rows[:0]
	for _, e := range rows {
		if !q.From.IsZero() && !e.End.After(dateutil.StartOfDay(q.From)) {
			continue
		}
		if !q.To.IsZero() && !e.Start.Before(dateutil.AddDays(dateutil.StartOfDay(q.To), 1)) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// UpdateEvent applies drag, resize and rename edits. Completion goes through
// CompleteEvent only, so the recorded hours stay in step with the flag.
func (s *calendarService) UpdateEvent(ctx context.Context, id uuid.UUID, patch types.EventPatch) (*types.CalendarEvent, error) {
	if patch.IsCompleted != nil {
		return nil, apperrors.Invalid("isCompleted cannot be patched; use the complete action")
	}
	if patch.Title != nil && *patch.Title == "" {
		return nil, apperrors.Invalid("title must not be empty")
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	dbc := dbctx.New(ctx)
	if patch.Start != nil || patch.End != nil {
		current, err := s.events.GetByID(dbc, id)
		if err != nil {
			return nil, err
		}
		start, end := current.Start, current.End
		if patch.Start != nil {
			start = *patch.Start
		}
		if patch.End != nil {
			end = *patch.End
		}
		if !end.After(start) {
			return nil, apperrors.Invalid("end must be after start")
		}
	}

	ev, err := s.events.Update(dbc, id, patch)
	if err != nil {
		return nil, err
	}
	s.notify.EventUpdated(ctx, ev)
	return ev, nil
}

func (s *calendarService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	dbc := dbctx.New(ctx)
	ev, err := s.events.GetByID(dbc, id)
	if err != nil {
		return err
	}
	if err := s.events.Delete(dbc, id); err != nil {
		return err
	}
	s.notify.EventDeleted(ctx, ev)
	return nil
}

// CompleteEvent marks the event completed. A study event also records its
// duration against its topic, with the plan's topic hours as the target.
// Completion is one-way: completing an already completed event changes
// nothing, and a failed progress write leaves the event open for a retry.
func (s *calendarService) CompleteEvent(ctx context.Context, id uuid.UUID) (*CompletedEvent, error) {
	// Lock order is event, then assignment (inside ProgressService).
	unlock := s.locks.Lock(id)
	defer unlock()

	dbc := dbctx.New(ctx)
	ev, err := s.events.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if ev.IsCompleted {
		return &CompletedEvent{Event: ev}, nil
	}
	sess, err := s.sessionFor(dbc, ev)
	if err != nil {
		return nil, err
	}

	done := true
	ev, err = s.events.Update(dbc, id, types.EventPatch{IsCompleted: &done})
	if err != nil {
		return nil, err
	}
	out := &CompletedEvent{Event: ev}
	if sess != nil {
		report, err := s.progress.RecordSession(ctx, ev.AssignmentID, *sess)
		if err != nil {
			s.log.Error("Record session for completed event failed",
				"event_id", ev.ID,
				"assignment_id", ev.AssignmentID,
				"error", err,
			)
			s.reopen(ctx, id)
			return nil, err
		}
		out.Progress = report
	}
	s.notify.EventUpdated(ctx, ev)
	return out, nil
}

// sessionFor returns the session a study event contributes, nil for marker
// events and events without a topic.
func (s *calendarService) sessionFor(dbc dbctx.Context, ev *types.CalendarEvent) (*progress.Session, error) {
	if ev.Type != types.EventTypeStudy || ev.TopicID == nil {
		return nil, nil
	}
	sess := &progress.Session{TopicName: *ev.TopicID, DurationHours: ev.DurationHours()}
	a, err := s.assignments.GetByID(dbc, ev.AssignmentID)
	if err != nil {
		return nil, err
	}
	if plan := a.Plan(); plan != nil {
		if topic, ok := plan.TopicByName(*ev.TopicID); ok {
			sess.TargetHours = topic.Hours
		}
	}
	return sess, nil
}

// reopen undoes the completion flag after the progress write failed.
func (s *calendarService) reopen(ctx context.Context, id uuid.UUID) {
	open := false
	if _, err := s.events.Update(dbctx.New(ctx), id, types.EventPatch{IsCompleted: &open}); err != nil {
		s.log.Error("Reopen event after failed completion", "event_id", id, "error", err)
	}
}

func (s *calendarService) Grid(ctx context.Context, view GridView, date time.Time) (*CalendarGrid, error) {
	var days []time.Time
	switch view {
	case GridViewMonth, "":
		view = GridViewMonth
		days = dateutil.MonthViewDates(date)
	case GridViewWeek:
		days = dateutil.WeekViewDates(date)
	default:
		return nil, apperrors.Invalid("view must be month or week")
	}

	from := days[0]
	to := dateutil.AddDays(days[len(days)-1], 1)
	rows, err := s.events.ListBetween(dbctx.New(ctx), from, to)
	if err != nil {
		return nil, err
	}

	loc := date.Location()
	byDay := map[string][]*types.CalendarEvent{}
	for _, e := range rows {
		key := dateutil.FormatDate(e.Start.In(loc))
		byDay[key] = append(byDay[key], e)
	}

	now := s.clock().In(loc)
	grid := &CalendarGrid{View: view, Date: dateutil.FormatDate(date), Days: make([]GridDay, 0, len(days))}
	for _, d := range days {
		key := dateutil.FormatDate(d)
		inPeriod := true
		if view == GridViewMonth {
			inPeriod = d.Month() == date.Month() && d.Year() == date.Year()
		}
		events := byDay[key]
		if events == nil {
			events = []*types.CalendarEvent{}
		}
		grid.Days = append(grid.Days, GridDay{
			Date:      key,
			InPeriod:  inPeriod,
			IsToday:   dateutil.IsSameDay(d, now),
			IsWeekend: dateutil.IsWeekend(d),
			Events:    events,
		})
	}
	return grid, nil
}
