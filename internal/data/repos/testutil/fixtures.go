package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
)

func SeedAssignment(tb testing.TB, ctx context.Context, tx *gorm.DB, subject, dueDate string) *types.Assignment {
	tb.Helper()
	a := &types.Assignment{
		ID:               uuid.New(),
		Title:            "assignment",
		Subject:          subject,
		DueDate:          dueDate,
		TargetGrade:      90,
		ProficiencyLevel: 3,
		WeekdayHours:     2,
		WeekendHours:     4,
	}
	a.SetPlan(&types.StudyPlan{
		TotalHours: 4,
		Topics: []types.Topic{
			{Name: "Fundamentals", Description: "Study Fundamentals", Hours: 2, Priority: 2},
			{Name: "Practice", Description: "Study Practice", Hours: 2, Priority: 1},
		},
		SuggestedTechniques: []string{"Active recall"},
		Milestones: []types.Milestone{
			{ID: "milestone-1", Description: "Complete Fundamentals", TargetDate: dueDate},
		},
	})
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assignment: %v", err)
	}
	return a
}

func SeedEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID, start time.Time, hours float64) *types.CalendarEvent {
	tb.Helper()
	topic := "Fundamentals"
	e := &types.CalendarEvent{
		ID:           uuid.New(),
		Title:        "MATH: Fundamentals",
		Start:        start.UTC(),
		End:          start.Add(time.Duration(hours * float64(time.Hour))).UTC(),
		Color:        "#4a90e2",
		Subject:      "math",
		AssignmentID: assignmentID,
		TopicID:      &topic,
		Type:         types.EventTypeStudy,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	return e
}
