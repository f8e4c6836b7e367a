package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyplanner-backend/internal/domain/study"
)

func sampleProgress() *study.Progress {
	at := time.Date(2024, 11, 8, 18, 0, 0, 0, time.UTC)
	return &study.Progress{
		AssignmentID:        uuid.New(),
		CompletedTasks:      1,
		TotalTasks:          3,
		StudyHoursCompleted: 2.5,
		StudyHoursTarget:    9,
		TopicProgress:       []study.TopicProgress{{Name: "Fundamentals", Completed: true, HoursSpent: 2.5}},
		Milestones:          []study.MilestoneProgress{{ID: "milestone-1", Completed: true, CompletedAt: &at}},
	}
}

func exerciseCache(t *testing.T, c ProgressCache) {
	t.Helper()
	ctx := context.Background()
	p := sampleProgress()

	if _, ok, err := c.Get(ctx, p.AssignmentID); err != nil || ok {
		t.Fatalf("Get before Set: ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, p); err != nil {
		t.Fatalf("Set: %v", err)
	}
	p.TopicProgress[0].HoursSpent = 99

	got, ok, err := c.Get(ctx, p.AssignmentID)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.TopicProgress[0].HoursSpent != 2.5 || got.StudyHoursTarget != 9 {
		t.Fatalf("cached value changed or lost: %+v", got)
	}
	if got.Milestones[0].CompletedAt == nil || got.Milestones[0].CompletedAt.Hour() != 18 {
		t.Fatalf("milestone: %+v", got.Milestones[0])
	}

	stale := sampleProgress()
	stale.AssignmentID = p.AssignmentID
	stale.StudyHoursCompleted = 0
	if stored, err := c.SetIfAbsent(ctx, stale); err != nil || stored {
		t.Fatalf("SetIfAbsent over existing entry: stored=%v err=%v", stored, err)
	}
	if got, _, _ := c.Get(ctx, p.AssignmentID); got == nil || got.StudyHoursCompleted != 2.5 {
		t.Fatalf("existing entry replaced: %+v", got)
	}

	if err := c.Delete(ctx, p.AssignmentID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, p.AssignmentID); ok {
		t.Fatalf("Get after Delete: expected miss")
	}

	if stored, err := c.SetIfAbsent(ctx, stale); err != nil || !stored {
		t.Fatalf("SetIfAbsent on miss: stored=%v err=%v", stored, err)
	}
	if got, ok, _ := c.Get(ctx, p.AssignmentID); !ok || got.StudyHoursCompleted != 0 {
		t.Fatalf("SetIfAbsent value: %+v", got)
	}
	if err := c.Delete(ctx, p.AssignmentID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestMemoryProgressCache(t *testing.T) {
	exerciseCache(t, NewMemoryProgressCache())
}

func TestRedisProgressCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis cache tests")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	exerciseCache(t, NewRedisProgressCache(rdb, time.Minute))
}
