package services

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
)

func TestCreateAssignmentPlansSchedulesAndTracks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.assignments.Create(ctx, mathInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	a := created.Assignment
	if a.ID == uuid.Nil || a.Subject != "math" {
		t.Fatalf("assignment: %+v", a)
	}
	plan := a.Plan()
	if plan == nil || plan.TotalHours != 9 || len(plan.Topics) != 5 {
		t.Fatalf("plan: %+v", plan)
	}
	if got := countType(created.Events, types.EventTypeStudy); got != 10 {
		t.Fatalf("study events %d want 10", got)
	}
	if countType(created.Events, types.EventTypeMilestone) != 4 || countType(created.Events, types.EventTypeReview) != 1 {
		t.Fatalf("marker events: %d", len(created.Events))
	}
	for _, e := range created.Events {
		if e.ID == uuid.Nil || e.AssignmentID != a.ID {
			t.Fatalf("event not persisted: %+v", e)
		}
	}
	if created.Progress.TotalTasks != 5 || created.Progress.StudyHoursTarget != 9 || created.Progress.OverallProgress != 0 {
		t.Fatalf("progress: %+v", created.Progress)
	}

	got, err := h.assignments.Get(ctx, a.ID)
	if err != nil || got.Plan() == nil || got.Plan().TotalHours != 9 {
		t.Fatalf("Get: %+v err=%v", got, err)
	}
	report, err := h.progress.Report(ctx, a.ID)
	if err != nil || report.TotalMilestones != 4 {
		t.Fatalf("Report: %+v err=%v", report, err)
	}
	if h.notify.count("AssignmentCreated") != 1 || h.notify.count("EventsScheduled") != 1 {
		t.Fatalf("notifications: %v", h.notify.events)
	}
}

func TestCreateAvoidsEarlierAssignmentsSlots(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.assignments.Create(ctx, mathInput())
	if err != nil {
		t.Fatalf("Create math: %v", err)
	}
	in := mathInput()
	in.Title = "Lab report"
	in.Subject = "science"
	second, err := h.assignments.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create science: %v", err)
	}

	for _, a := range first.Events {
		if a.Type != types.EventTypeStudy {
			continue
		}
		for _, b := range second.Events {
			if b.Type == types.EventTypeStudy && a.Overlaps(b.Start, b.End) {
				t.Fatalf("%s overlaps %s at %v", a.Title, b.Title, b.Start)
			}
		}
	}

	all, err := h.assignments.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("List: %d err=%v", len(all), err)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)
	cases := []struct {
		name string
		mut  func(*AssignmentInput)
	}{
		{"empty title", func(in *AssignmentInput) { in.Title = "  " }},
		{"empty subject", func(in *AssignmentInput) { in.Subject = "" }},
		{"bad date", func(in *AssignmentInput) { in.DueDate = "11/17/2024" }},
		{"grade high", func(in *AssignmentInput) { in.TargetGrade = 101 }},
		{"grade low", func(in *AssignmentInput) { in.TargetGrade = -1 }},
		{"proficiency zero", func(in *AssignmentInput) { in.ProficiencyLevel = 0 }},
		{"proficiency six", func(in *AssignmentInput) { in.ProficiencyLevel = 6 }},
		{"negative weekday", func(in *AssignmentInput) { in.WeekdayHours = -1 }},
		{"nan weekend", func(in *AssignmentInput) { in.WeekendHours = math.NaN() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := mathInput()
			tc.mut(&in)
			if _, err := h.assignments.Create(context.Background(), in); !apperrors.IsInvalid(err) {
				t.Fatalf("expected invalid, got %v", err)
			}
		})
	}
	all, err := h.assignments.List(context.Background())
	if err != nil || len(all) != 0 {
		t.Fatalf("rows written on invalid input: %d err=%v", len(all), err)
	}
}

func TestCreatePastDueYieldsZeroPlan(t *testing.T) {
	h := newHarness(t)
	in := mathInput()
	in.DueDate = "2024-11-01"
	created, err := h.assignments.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Assignment.Plan().TotalHours != 0 || countType(created.Events, types.EventTypeStudy) != 0 {
		t.Fatalf("past due: plan %+v events %d", created.Assignment.Plan(), len(created.Events))
	}
	if countType(created.Events, types.EventTypeReview) != 1 {
		t.Fatalf("review missing")
	}
}

func TestPreviewPersistsNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan, err := h.assignments.Preview(ctx, mathInput())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if plan.TotalHours != 9 || len(plan.Milestones) != 4 {
		t.Fatalf("plan: %+v", plan)
	}
	all, err := h.assignments.List(ctx)
	if err != nil || len(all) != 0 {
		t.Fatalf("List after preview: %d err=%v", len(all), err)
	}
	if _, err := h.assignments.Preview(ctx, AssignmentInput{}); !apperrors.IsInvalid(err) {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestUpdateKeepsPlan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	created, err := h.assignments.Create(ctx, mathInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "Calculus final"
	hours := 5.0
	updated, err := h.assignments.Update(ctx, created.Assignment.ID, types.AssignmentPatch{Title: &title, WeekdayHours: &hours})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title || updated.WeekdayHours != 5 || updated.Plan().TotalHours != 9 {
		t.Fatalf("updated: %+v", updated)
	}
	if h.notify.count("AssignmentUpdated") != 1 {
		t.Fatalf("notifications: %v", h.notify.events)
	}

	bad := 0
	if _, err := h.assignments.Update(ctx, created.Assignment.ID, types.AssignmentPatch{ProficiencyLevel: &bad}); !apperrors.IsInvalid(err) {
		t.Fatalf("expected invalid, got %v", err)
	}
	if _, err := h.assignments.Update(ctx, uuid.New(), types.AssignmentPatch{Title: &title}); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRemovesEverything(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	created, err := h.assignments.Create(ctx, mathInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created.Assignment.ID

	if err := h.assignments.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := h.assignments.Get(ctx, id); !apperrors.IsNotFound(err) {
		t.Fatalf("Get after delete: %v", err)
	}
	if _, err := h.progress.Get(ctx, id); !apperrors.IsNotFound(err) {
		t.Fatalf("progress after delete: %v", err)
	}
	events, err := h.calendar.ListEvents(ctx, EventQuery{AssignmentID: id})
	if err != nil || len(events) != 0 {
		t.Fatalf("events after delete: %d err=%v", len(events), err)
	}
	if err := h.assignments.Delete(ctx, id); !apperrors.IsNotFound(err) {
		t.Fatalf("second delete: %v", err)
	}
	if h.notify.count("AssignmentDeleted") != 1 {
		t.Fatalf("notifications: %v", h.notify.events)
	}
}

func TestRescheduleOnlyFillsEmptyAssignments(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	created, err := h.assignments.Create(ctx, mathInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created.Assignment.ID

	events, err := h.assignments.Reschedule(ctx, id)
	if err != nil || events != nil {
		t.Fatalf("Reschedule with events: %d err=%v", len(events), err)
	}

	for _, e := range created.Events {
		if err := h.calendar.DeleteEvent(ctx, e.ID); err != nil {
			t.Fatalf("DeleteEvent: %v", err)
		}
	}
	events, err = h.assignments.Reschedule(ctx, id)
	if err != nil || len(events) != len(created.Events) {
		t.Fatalf("Reschedule: %d want %d err=%v", len(events), len(created.Events), err)
	}
}
