package study

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeStudy     EventType = "study"
	EventTypeMilestone EventType = "milestone"
	EventTypeReview    EventType = "review"
)

// CalendarEvent references its assignment and topic by id only.
type CalendarEvent struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"column:title;not null" json:"title"`
	Description  string    `gorm:"column:description" json:"description"`
	Start        time.Time `gorm:"column:start_at;not null;index" json:"start"`
	End          time.Time `gorm:"column:end_at;not null" json:"end"`
	Color        string    `gorm:"column:color" json:"color"`
	Subject      string    `gorm:"column:subject;index" json:"subject"`
	AssignmentID uuid.UUID `gorm:"type:uuid;column:assignment_id;not null;index" json:"assignmentId"`
	TopicID      *string   `gorm:"column:topic_id" json:"topicId"`
	Type         EventType `gorm:"column:type;not null;index" json:"type"`
	Priority     *int      `gorm:"column:priority" json:"priority"`
	IsCompleted  bool      `gorm:"column:is_completed;not null;default:false" json:"isCompleted"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CalendarEvent) TableName() string { return "calendar_event" }

// Overlaps uses half-open intervals: [a.start, a.end) and [start, end).
func (e CalendarEvent) Overlaps(start, end time.Time) bool {
	return start.Before(e.End) && end.After(e.Start)
}

func (e CalendarEvent) DurationHours() float64 {
	return e.End.Sub(e.Start).Hours()
}

// EventPatch covers drag and resize from the calendar. IsCompleted is set by
// the completion flow, never by a client patch.
type EventPatch struct {
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	IsCompleted *bool      `json:"isCompleted,omitempty"`
	Title       *string    `json:"title,omitempty"`
}

func (p EventPatch) Columns() map[string]any {
	out := map[string]any{}
	if p.Start != nil {
		out["start_at"] = *p.Start
	}
	if p.End != nil {
		out["end_at"] = *p.End
	}
	if p.IsCompleted != nil {
		out["is_completed"] = *p.IsCompleted
	}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	return out
}
