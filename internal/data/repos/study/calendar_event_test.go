package study

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyplanner-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
)

func TestCalendarEventRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewCalendarEventRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	a := testutil.SeedAssignment(t, dbc.Ctx, tx, "math", "2024-11-20")
	other := testutil.SeedAssignment(t, dbc.Ctx, tx, "history", "2024-11-25")

	day := time.Date(2024, 11, 11, 0, 0, 0, 0, time.UTC)
	priority := 3
	created, err := repo.CreateMany(dbc, []*types.CalendarEvent{
		{Title: "MATH: Formulas", Start: day.Add(15 * time.Hour), End: day.Add(16*time.Hour + 30*time.Minute), AssignmentID: a.ID, Subject: "math", Type: types.EventTypeStudy, Priority: &priority},
		nil,
		{Title: "Milestone: Complete Formulas", Start: day.Add(42 * time.Hour), End: day.Add(42*time.Hour + 30*time.Minute), AssignmentID: a.ID, Subject: "math", Type: types.EventTypeMilestone},
	})
	if err != nil {
		t.Fatalf("CreateMany: %v", err)
	}
	if len(created) != 2 || created[0].ID == uuid.Nil || created[1].ID == uuid.Nil {
		t.Fatalf("CreateMany: unexpected result %+v", created)
	}
	testutil.SeedEvent(t, dbc.Ctx, tx, other.ID, day.Add(-24*time.Hour+9*time.Hour), 1)

	all, err := repo.List(dbc)
	if err != nil || len(all) != 3 {
		t.Fatalf("List: %d rows, err=%v", len(all), err)
	}
	if all[0].AssignmentID != other.ID {
		t.Fatalf("List: expected start order")
	}

	byA, err := repo.ListByAssignment(dbc, a.ID)
	if err != nil || len(byA) != 2 {
		t.Fatalf("ListByAssignment: %d rows, err=%v", len(byA), err)
	}
	if byA[0].Priority == nil || *byA[0].Priority != 3 || byA[1].TopicID != nil {
		t.Fatalf("ListByAssignment: nullable fields did not round-trip")
	}

	between, err := repo.ListBetween(dbc, day, day.Add(24*time.Hour))
	if err != nil || len(between) != 1 || between[0].ID != created[0].ID {
		t.Fatalf("ListBetween: %d rows, err=%v", len(between), err)
	}
	// [16:30, 17:00) touches the end of the study session but does not overlap it.
	touching, err := repo.ListBetween(dbc, day.Add(16*time.Hour+30*time.Minute), day.Add(17*time.Hour))
	if err != nil || len(touching) != 0 {
		t.Fatalf("ListBetween touching: %d rows, err=%v", len(touching), err)
	}

	newStart := day.Add(17 * time.Hour)
	newEnd := day.Add(18 * time.Hour)
	done := true
	updated, err := repo.Update(dbc, created[0].ID, types.EventPatch{Start: &newStart, End: &newEnd, IsCompleted: &done})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Start.Equal(newStart) || !updated.End.Equal(newEnd) || !updated.IsCompleted {
		t.Fatalf("Update: unexpected row %+v", updated)
	}
	if _, err := repo.Update(dbc, uuid.New(), types.EventPatch{IsCompleted: &done}); !apperrors.IsNotFound(err) {
		t.Fatalf("Update missing: expected not found, got %v", err)
	}

	if err := repo.Delete(dbc, created[1].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(dbc, created[1].ID); !apperrors.IsNotFound(err) {
		t.Fatalf("GetByID after delete: expected not found, got %v", err)
	}

	n, err := repo.DeleteByAssignment(dbc, a.ID)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByAssignment: n=%d err=%v", n, err)
	}
}
