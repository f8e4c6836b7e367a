package progress

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyplanner-backend/internal/domain/study"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
)

var now = time.Date(2024, 11, 8, 16, 30, 0, 0, time.UTC)

func assignmentWithPlan() study.Assignment {
	a := study.Assignment{ID: uuid.New(), Subject: "math"}
	a.SetPlan(&study.StudyPlan{
		TotalHours: 4,
		Topics: []study.Topic{
			{Name: "Fundamentals", Hours: 2, Priority: 2},
			{Name: "Mock Tests", Hours: 2, Priority: 1},
		},
		Milestones: []study.Milestone{
			{ID: "milestone-1", Description: "Complete Fundamentals", TargetDate: "2024-11-10"},
			{ID: "mock", Description: "Mock done", TargetDate: "2024-11-12"},
		},
	})
	return a
}

func mustInit(t *testing.T) *study.Progress {
	t.Helper()
	p, err := Initialize(assignmentWithPlan())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return p
}

func TestInitialize(t *testing.T) {
	p := mustInit(t)
	if p.TotalTasks != 2 || p.StudyHoursTarget != 4 || p.CompletedTasks != 0 || p.StudyHoursCompleted != 0 {
		t.Fatalf("progress: %+v", p)
	}
	if len(p.TopicProgress) != 2 || len(p.Milestones) != 2 || p.Milestones[1].ID != "mock" {
		t.Fatalf("children: %+v", p)
	}

	_, err := Initialize(study.Assignment{ID: uuid.New()})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("no plan: expected not found, got %v", err)
	}
}

func TestRecordSessionCompletesTopicOnce(t *testing.T) {
	p := mustInit(t)
	s := Session{TopicName: "Fundamentals", DurationHours: 1.5, TargetHours: 2}

	p1, err := RecordSession(p, s, now)
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	if p1.TopicProgress[0].Completed || p1.CompletedTasks != 0 || p1.StudyHoursCompleted != 1.5 {
		t.Fatalf("after 1.5h: %+v", p1)
	}
	if p.StudyHoursCompleted != 0 {
		t.Fatalf("input was mutated")
	}

	p2, _ := RecordSession(p1, s, now)
	p3, _ := RecordSession(p2, s, now)
	if !p3.TopicProgress[0].Completed || p3.CompletedTasks != 1 {
		t.Fatalf("expected one completed task, got %+v", p3)
	}
	if p3.TopicProgress[0].HoursSpent != 4.5 || p3.StudyHoursCompleted != 4.5 {
		t.Fatalf("hours: %+v", p3)
	}
}

func TestRecordSessionUnknownTopicOnlyAddsHours(t *testing.T) {
	p, err := RecordSession(mustInit(t), Session{TopicName: "Nope", DurationHours: 1, TargetHours: 1}, now)
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	if p.StudyHoursCompleted != 1 || p.CompletedTasks != 0 {
		t.Fatalf("progress: %+v", p)
	}
}

func TestRecordSessionWithoutTargetNeverCompletes(t *testing.T) {
	p, _ := RecordSession(mustInit(t), Session{TopicName: "Fundamentals", DurationHours: 10}, now)
	if p.TopicProgress[0].Completed {
		t.Fatalf("topic completed without a target")
	}
}

func TestRecordSessionRejectsBadDuration(t *testing.T) {
	for _, d := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := RecordSession(mustInit(t), Session{DurationHours: d}, now); !apperrors.IsInvalid(err) {
			t.Fatalf("duration %v: expected invalid, got %v", d, err)
		}
	}
	if _, err := RecordSession(nil, Session{DurationHours: 1}, now); !apperrors.IsNotFound(err) {
		t.Fatalf("nil progress: expected not found, got %v", err)
	}
}

func TestMilestoneSubstringMatching(t *testing.T) {
	p, _ := RecordSession(mustInit(t), Session{DurationHours: 0.5}, now)
	// milestone-1 matches no topic name so it completes immediately.
	if !p.Milestones[0].Completed || p.Milestones[0].CompletedAt == nil || !p.Milestones[0].CompletedAt.Equal(now) {
		t.Fatalf("milestone-1: %+v", p.Milestones[0])
	}
	// "mock" matches "Mock Tests" case-insensitively and waits for it.
	if p.Milestones[1].Completed {
		t.Fatalf("mock milestone completed before its topic")
	}

	later := now.Add(time.Hour)
	p, err := CompleteTopic(p, "Mock Tests", later)
	if err != nil {
		t.Fatalf("CompleteTopic: %v", err)
	}
	if !p.Milestones[1].Completed || !p.Milestones[1].CompletedAt.Equal(later) {
		t.Fatalf("mock milestone: %+v", p.Milestones[1])
	}
	if !p.Milestones[0].CompletedAt.Equal(now) {
		t.Fatalf("completion timestamp was overwritten")
	}
}

func TestCompleteTopicIsMonotone(t *testing.T) {
	p, _ := CompleteTopic(mustInit(t), "Fundamentals", now)
	p, _ = CompleteTopic(p, "Fundamentals", now)
	if p.CompletedTasks != 1 {
		t.Fatalf("CompletedTasks=%d want 1", p.CompletedTasks)
	}
	p, _ = RecordSession(p, Session{TopicName: "Fundamentals", DurationHours: 3, TargetHours: 1}, now)
	if p.CompletedTasks != 1 || !p.TopicProgress[0].Completed {
		t.Fatalf("after extra session: %+v", p)
	}
	if _, err := CompleteTopic(p, "Unknown", now); !apperrors.IsNotFound(err) {
		t.Fatalf("unknown topic: %v", err)
	}
}

func TestOverallProgress(t *testing.T) {
	tests := []struct {
		name string
		p    *study.Progress
		want int
	}{
		{"nil", nil, 0},
		{"zero totals", &study.Progress{}, 0},
		{"zero target hours", &study.Progress{CompletedTasks: 1, TotalTasks: 2, StudyHoursCompleted: 5}, 25},
		{"half and half", &study.Progress{CompletedTasks: 1, TotalTasks: 2, StudyHoursCompleted: 2, StudyHoursTarget: 4}, 50},
		{"rounds", &study.Progress{CompletedTasks: 1, TotalTasks: 3, StudyHoursCompleted: 0, StudyHoursTarget: 4}, 17},
		{"overshoot clamps", &study.Progress{CompletedTasks: 2, TotalTasks: 2, StudyHoursCompleted: 40, StudyHoursTarget: 4}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallProgress(tt.p); got != tt.want {
				t.Fatalf("got %d want %d", got, tt.want)
			}
		})
	}
}

func TestBuildReport(t *testing.T) {
	p, _ := RecordSession(mustInit(t), Session{TopicName: "Fundamentals", DurationHours: 2, TargetHours: 2}, now)
	r := BuildReport(p)
	if r.OverallProgress != 50 || r.CompletedTasks != 1 || r.TotalTasks != 2 {
		t.Fatalf("report: %+v", r)
	}
	if r.MilestonesCompleted != 1 || r.TotalMilestones != 2 || len(r.TopicBreakdown) != 2 {
		t.Fatalf("report: %+v", r)
	}
	r.TopicBreakdown[0].Name = "changed"
	if p.TopicProgress[0].Name != "Fundamentals" {
		t.Fatalf("report shares slices with progress")
	}
}
