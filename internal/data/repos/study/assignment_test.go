package study

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/studyplanner-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
)

func TestAssignmentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewAssignmentRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	a := &types.Assignment{
		Title:            "Essay",
		Subject:          "english",
		DueDate:          "2024-12-01",
		TargetGrade:      85,
		ProficiencyLevel: 2,
		WeekdayHours:     1.5,
		WeekendHours:     3,
	}
	a.SetPlan(&types.StudyPlan{
		TotalHours: 6,
		Topics:     []types.Topic{{Name: "Reading", Hours: 3, Priority: 2}, {Name: "Writing", Hours: 3, Priority: 1}},
	})
	created, err := repo.Create(dbc, a)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("Create: expected id to be assigned")
	}

	got, err := repo.GetByID(dbc, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	plan := got.Plan()
	if plan == nil || plan.TotalHours != 6 || len(plan.Topics) != 2 || plan.Topics[1].Name != "Writing" {
		t.Fatalf("GetByID: plan did not round-trip: %+v", plan)
	}
	if got.WeekdayHours != 1.5 || got.Subject != "english" {
		t.Fatalf("GetByID: unexpected row %+v", got)
	}

	later := testutil.SeedAssignment(t, dbc.Ctx, tx, "math", "2024-12-10")
	list, err := repo.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != created.ID || list[1].ID != later.ID {
		t.Fatalf("List: expected due-date order, got %d rows", len(list))
	}

	title := "Final essay"
	grade := 95
	updated, err := repo.Update(dbc, created.ID, types.AssignmentPatch{Title: &title, TargetGrade: &grade})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title || updated.TargetGrade != grade || updated.Plan() == nil {
		t.Fatalf("Update: unexpected row %+v", updated)
	}

	if _, err := repo.Update(dbc, uuid.New(), types.AssignmentPatch{Title: &title}); !apperrors.IsNotFound(err) {
		t.Fatalf("Update missing: expected not found, got %v", err)
	}

	if err := repo.Delete(dbc, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(dbc, created.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("GetByID after delete: expected not found, got %v", err)
	}
	if err := repo.Delete(dbc, created.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("Delete twice: expected not found, got %v", err)
	}
}

func TestAssignmentRepoNilPlan(t *testing.T) {
	db := testutil.DB(t)
	repo := NewAssignmentRepo(db, testutil.Logger(t))
	dbc := dbctx.New(context.Background())

	created, err := repo.Create(dbc, &types.Assignment{Title: "No plan", Subject: "math", DueDate: "2024-12-01"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByID(dbc, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Plan() != nil {
		t.Fatalf("expected nil plan, got %+v", got.Plan())
	}
}
