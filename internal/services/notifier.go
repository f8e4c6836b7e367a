package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

// StudyNotifier sends every change to the assignment's own channel and to the
// shared calendar channel.
type StudyNotifier interface {
	AssignmentCreated(ctx context.Context, a *types.Assignment)
	AssignmentUpdated(ctx context.Context, a *types.Assignment)
	AssignmentDeleted(ctx context.Context, assignmentID uuid.UUID)
	EventsScheduled(ctx context.Context, assignmentID uuid.UUID, events []*types.CalendarEvent)
	EventUpdated(ctx context.Context, ev *types.CalendarEvent)
	EventDeleted(ctx context.Context, ev *types.CalendarEvent)
	ProgressUpdated(ctx context.Context, report types.ProgressReport)
}

type studyNotifier struct {
	n realtime.Notifier
}

func NewStudyNotifier(n realtime.Notifier) StudyNotifier {
	if n == nil {
		n = realtime.NewNopNotifier()
	}
	return &studyNotifier{n: n}
}

func (s *studyNotifier) both(ctx context.Context, assignmentID uuid.UUID, event realtime.SSEEvent, data any) {
	if assignmentID != uuid.Nil {
		s.n.Notify(ctx, assignmentID.String(), event, data)
	}
	s.n.Notify(ctx, realtime.ChannelCalendar, event, data)
}

func (s *studyNotifier) AssignmentCreated(ctx context.Context, a *types.Assignment) {
	if a == nil {
		return
	}
	s.both(ctx, a.ID, realtime.SSEEventAssignmentCreated, map[string]any{"assignment": a})
}

func (s *studyNotifier) AssignmentUpdated(ctx context.Context, a *types.Assignment) {
	if a == nil {
		return
	}
	s.both(ctx, a.ID, realtime.SSEEventAssignmentUpdated, map[string]any{"assignment": a})
}

func (s *studyNotifier) AssignmentDeleted(ctx context.Context, assignmentID uuid.UUID) {
	s.both(ctx, assignmentID, realtime.SSEEventAssignmentDeleted, map[string]any{"assignmentId": assignmentID})
}

func (s *studyNotifier) EventsScheduled(ctx context.Context, assignmentID uuid.UUID, events []*types.CalendarEvent) {
	s.both(ctx, assignmentID, realtime.SSEEventEventsScheduled, map[string]any{
		"assignmentId": assignmentID,
		"events":       events,
	})
}

func (s *studyNotifier) EventUpdated(ctx context.Context, ev *types.CalendarEvent) {
	if ev == nil {
		return
	}
	s.both(ctx, ev.AssignmentID, realtime.SSEEventEventUpdated, map[string]any{"event": ev})
}

func (s *studyNotifier) EventDeleted(ctx context.Context, ev *types.CalendarEvent) {
	if ev == nil {
		return
	}
	s.both(ctx, ev.AssignmentID, realtime.SSEEventEventDeleted, map[string]any{"eventId": ev.ID, "assignmentId": ev.AssignmentID})
}

func (s *studyNotifier) ProgressUpdated(ctx context.Context, report types.ProgressReport) {
	s.both(ctx, report.AssignmentID, realtime.SSEEventProgressUpdated, map[string]any{"progress": report})
}
