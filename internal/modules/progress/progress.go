// Package progress holds the pure progress-aggregation rules. Every function
// returns a new record and leaves its input untouched; persistence and
// caching live in services.ProgressService.
package progress

import (
	"math"
	"strings"
	"time"

	"github.com/yungbote/studyplanner-backend/internal/domain/study"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
)

// Session is one block of studying reported against an assignment.
type Session struct {
	TopicName     string  `json:"topicName"`
	DurationHours float64 `json:"duration"`
	// TargetHours is the caller's completion threshold for the topic. Zero or
	// negative means no target: the topic is never completed by this session.
	TargetHours float64 `json:"targetHours"`
}

// Initialize builds a fresh record from the assignment's plan.
func Initialize(a study.Assignment) (*study.Progress, error) {
	plan := a.Plan()
	if plan == nil {
		return nil, apperrors.NotFound("study plan for assignment %s", a.ID)
	}
	p := &study.Progress{
		AssignmentID:     a.ID,
		TotalTasks:       len(plan.Topics),
		StudyHoursTarget: plan.TotalHours,
		TopicProgress:    make([]study.TopicProgress, 0, len(plan.Topics)),
		Milestones:       make([]study.MilestoneProgress, 0, len(plan.Milestones)),
	}
	for _, t := range plan.Topics {
		p.TopicProgress = append(p.TopicProgress, study.TopicProgress{Name: t.Name})
	}
	for _, m := range plan.Milestones {
		p.Milestones = append(p.Milestones, study.MilestoneProgress{ID: m.ID})
	}
	return p, nil
}

// RecordSession adds a session's hours and re-evaluates milestones.
func RecordSession(p *study.Progress, s Session, now time.Time) (*study.Progress, error) {
	if p == nil {
		return nil, apperrors.NotFound("progress")
	}
	if math.IsNaN(s.DurationHours) || math.IsInf(s.DurationHours, 0) || s.DurationHours < 0 {
		return nil, apperrors.Invalid("session duration must be a non-negative number")
	}
	out := p.Clone()
	out.StudyHoursCompleted += s.DurationHours

	if s.TopicName != "" {
		if i := topicIndex(out, s.TopicName); i >= 0 {
			tp := &out.TopicProgress[i]
			tp.HoursSpent += s.DurationHours
			if s.TargetHours > 0 && tp.HoursSpent >= s.TargetHours {
				completeAt(out, i)
			}
		}
	}
	CheckMilestones(out, now)
	return out, nil
}

// CompleteTopic marks a topic completed. Completing an already completed
// topic is a no-op.
func CompleteTopic(p *study.Progress, topicName string, now time.Time) (*study.Progress, error) {
	if p == nil {
		return nil, apperrors.NotFound("progress")
	}
	i := topicIndex(p, topicName)
	if i < 0 {
		return nil, apperrors.NotFound("topic %q", topicName)
	}
	out := p.Clone()
	completeAt(out, i)
	CheckMilestones(out, now)
	return out, nil
}

// completeAt is the only place a topic changes state: Pending -> Completed.
func completeAt(p *study.Progress, i int) {
	if p.TopicProgress[i].Completed {
		return
	}
	p.TopicProgress[i].Completed = true
	if p.CompletedTasks < p.TotalTasks {
		p.CompletedTasks++
	}
}

// CheckMilestones completes every pending milestone whose related topics are
// all completed. A topic is related when its name contains the milestone id,
// case-insensitively. Generated ids ("milestone-1") match no topic name, so
// those milestones complete on the first check.
func CheckMilestones(p *study.Progress, now time.Time) {
	if p == nil {
		return
	}
	for i := range p.Milestones {
		m := &p.Milestones[i]
		if m.Completed {
			continue
		}
		id := strings.ToLower(m.ID)
		done := true
		for _, t := range p.TopicProgress {
			if strings.Contains(strings.ToLower(t.Name), id) && !t.Completed {
				done = false
				break
			}
		}
		if done {
			at := now
			m.Completed = true
			m.CompletedAt = &at
		}
	}
}

// OverallProgress averages task and hour completion as a whole percentage in
// [0, 100]. A zero denominator counts as 0%.
func OverallProgress(p *study.Progress) int {
	if p == nil {
		return 0
	}
	taskPct := percent(float64(p.CompletedTasks), float64(p.TotalTasks))
	hourPct := percent(p.StudyHoursCompleted, p.StudyHoursTarget)
	v := math.Round((taskPct + hourPct) / 2)
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

func percent(done, total float64) float64 {
	if !(total > 0) {
		return 0
	}
	return done / total * 100
}

func BuildReport(p *study.Progress) study.ProgressReport {
	if p == nil {
		return study.ProgressReport{}
	}
	r := study.ProgressReport{
		AssignmentID:        p.AssignmentID,
		OverallProgress:     OverallProgress(p),
		CompletedTasks:      p.CompletedTasks,
		TotalTasks:          p.TotalTasks,
		StudyHoursCompleted: p.StudyHoursCompleted,
		StudyHoursTarget:    p.StudyHoursTarget,
		TotalMilestones:     len(p.Milestones),
		TopicBreakdown:      append([]study.TopicProgress{}, p.TopicProgress...),
	}
	for _, m := range p.Milestones {
		if m.Completed {
			r.MilestonesCompleted++
		}
	}
	return r
}

func topicIndex(p *study.Progress, name string) int {
	for i, t := range p.TopicProgress {
		if t.Name == name {
			return i
		}
	}
	return -1
}
