package study

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Progress tracks completion for one assignment. CompletedTasks never
// exceeds TotalTasks and StudyHoursCompleted never decreases.
type Progress struct {
	AssignmentID        uuid.UUID           `json:"assignmentId"`
	CompletedTasks      int                 `json:"completedTasks"`
	TotalTasks          int                 `json:"totalTasks"`
	StudyHoursCompleted float64             `json:"studyHoursCompleted"`
	StudyHoursTarget    float64             `json:"studyHoursTarget"`
	TopicProgress       []TopicProgress     `json:"topicProgress"`
	Milestones          []MilestoneProgress `json:"milestones"`
}

type TopicProgress struct {
	Name       string  `json:"name"`
	Completed  bool    `json:"completed"`
	HoursSpent float64 `json:"hoursSpent"`
}

type MilestoneProgress struct {
	ID          string     `json:"id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (p *Progress) Clone() *Progress {
	if p == nil {
		return nil
	}
	out := *p
	out.TopicProgress = append([]TopicProgress(nil), p.TopicProgress...)
	out.Milestones = make([]MilestoneProgress, len(p.Milestones))
	for i, m := range p.Milestones {
		out.Milestones[i] = m
		if m.CompletedAt != nil {
			at := *m.CompletedAt
			out.Milestones[i].CompletedAt = &at
		}
	}
	return &out
}

// ProgressReport is a read-only projection of Progress.
type ProgressReport struct {
	AssignmentID        uuid.UUID       `json:"assignmentId"`
	OverallProgress     int             `json:"overallProgress"`
	CompletedTasks      int             `json:"completedTasks"`
	TotalTasks          int             `json:"totalTasks"`
	StudyHoursCompleted float64         `json:"studyHoursCompleted"`
	StudyHoursTarget    float64         `json:"studyHoursTarget"`
	MilestonesCompleted int             `json:"milestonesCompleted"`
	TotalMilestones     int             `json:"totalMilestones"`
	TopicBreakdown      []TopicProgress `json:"topicBreakdown"`
}

// ProgressRecord is the persisted row for Progress.
type ProgressRecord struct {
	AssignmentID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"assignmentId"`
	CompletedTasks      int            `gorm:"column:completed_tasks;not null" json:"completedTasks"`
	TotalTasks          int            `gorm:"column:total_tasks;not null" json:"totalTasks"`
	StudyHoursCompleted float64        `gorm:"column:study_hours_completed;not null" json:"studyHoursCompleted"`
	StudyHoursTarget    float64        `gorm:"column:study_hours_target;not null" json:"studyHoursTarget"`
	TopicProgress       datatypes.JSON `gorm:"column:topic_progress" json:"topicProgress"`
	Milestones          datatypes.JSON `gorm:"column:milestones" json:"milestones"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ProgressRecord) TableName() string { return "progress" }

func NewProgressRecord(p *Progress) (*ProgressRecord, error) {
	topics, err := json.Marshal(nonNilTopics(p.TopicProgress))
	if err != nil {
		return nil, err
	}
	milestones, err := json.Marshal(nonNilMilestones(p.Milestones))
	if err != nil {
		return nil, err
	}
	return &ProgressRecord{
		AssignmentID:        p.AssignmentID,
		CompletedTasks:      p.CompletedTasks,
		TotalTasks:          p.TotalTasks,
		StudyHoursCompleted: p.StudyHoursCompleted,
		StudyHoursTarget:    p.StudyHoursTarget,
		TopicProgress:       datatypes.JSON(topics),
		Milestones:          datatypes.JSON(milestones),
	}, nil
}

func (r *ProgressRecord) ToProgress() (*Progress, error) {
	p := &Progress{
		AssignmentID:        r.AssignmentID,
		CompletedTasks:      r.CompletedTasks,
		TotalTasks:          r.TotalTasks,
		StudyHoursCompleted: r.StudyHoursCompleted,
		StudyHoursTarget:    r.StudyHoursTarget,
		TopicProgress:       []TopicProgress{},
		Milestones:          []MilestoneProgress{},
	}
	if len(r.TopicProgress) > 0 {
		if err := json.Unmarshal(r.TopicProgress, &p.TopicProgress); err != nil {
			return nil, err
		}
	}
	if len(r.Milestones) > 0 {
		if err := json.Unmarshal(r.Milestones, &p.Milestones); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func nonNilTopics(in []TopicProgress) []TopicProgress {
	if in == nil {
		return []TopicProgress{}
	}
	return in
}

func nonNilMilestones(in []MilestoneProgress) []MilestoneProgress {
	if in == nil {
		return []MilestoneProgress{}
	}
	return in
}
