package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/studyplanner-backend/internal/pkg/dateutil"
)

// Assignment is a dated piece of coursework the student plans study time for.
// It owns its StudyPlan by value.
type Assignment struct {
	ID               uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string                         `gorm:"column:title;not null" json:"title"`
	Subject          string                         `gorm:"column:subject;not null;index" json:"subject"`
	DueDate          string                         `gorm:"column:due_date;not null;index" json:"dueDate"`
	TargetGrade      int                            `gorm:"column:target_grade;not null" json:"targetGrade"`
	ProficiencyLevel int                            `gorm:"column:proficiency_level;not null" json:"proficiencyLevel"`
	WeekdayHours     float64                        `gorm:"column:weekday_hours;not null" json:"weekdayHours"`
	WeekendHours     float64                        `gorm:"column:weekend_hours;not null" json:"weekendHours"`
	StudyPlan        datatypes.JSONType[*StudyPlan] `gorm:"column:study_plan" json:"studyPlan"`
	CreatedAt        time.Time                      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time                      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Assignment) TableName() string { return "assignment" }

// Plan returns the assignment's plan, nil when none was generated.
func (a *Assignment) Plan() *StudyPlan {
	if a == nil {
		return nil
	}
	return a.StudyPlan.Data()
}

// SetPlan stores a copy of plan.
func (a *Assignment) SetPlan(plan *StudyPlan) {
	a.StudyPlan = datatypes.NewJSONType(plan.Clone())
}

// Due parses DueDate as midnight in loc.
func (a *Assignment) Due(loc *time.Location) (time.Time, error) {
	return dateutil.ParseDate(a.DueDate, loc)
}

// AssignmentPatch is the explicit update surface. Nil fields are left alone;
// the plan is never regenerated by an update.
type AssignmentPatch struct {
	Title            *string  `json:"title,omitempty"`
	DueDate          *string  `json:"dueDate,omitempty"`
	TargetGrade      *int     `json:"targetGrade,omitempty"`
	ProficiencyLevel *int     `json:"proficiencyLevel,omitempty"`
	WeekdayHours     *float64 `json:"weekdayHours,omitempty"`
	WeekendHours     *float64 `json:"weekendHours,omitempty"`
}

// Columns returns the column/value map gorm's Updates expects.
func (p AssignmentPatch) Columns() map[string]any {
	out := map[string]any{}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.DueDate != nil {
		out["due_date"] = *p.DueDate
	}
	if p.TargetGrade != nil {
		out["target_grade"] = *p.TargetGrade
	}
	if p.ProficiencyLevel != nil {
		out["proficiency_level"] = *p.ProficiencyLevel
	}
	if p.WeekdayHours != nil {
		out["weekday_hours"] = *p.WeekdayHours
	}
	if p.WeekendHours != nil {
		out["weekend_hours"] = *p.WeekendHours
	}
	return out
}
