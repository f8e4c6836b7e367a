package services

import (
	"math"
	"strings"
	"time"

	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dateutil"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
)

// AssignmentInput is the create/preview form.
type AssignmentInput struct {
	Title            string  `json:"title"`
	Subject          string  `json:"subject"`
	DueDate          string  `json:"dueDate"`
	TargetGrade      int     `json:"targetGrade"`
	ProficiencyLevel int     `json:"proficiencyLevel"`
	WeekdayHours     float64 `json:"weekdayHours"`
	WeekendHours     float64 `json:"weekendHours"`
}

func (in AssignmentInput) normalize() AssignmentInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Subject = strings.ToLower(strings.TrimSpace(in.Subject))
	in.DueDate = strings.TrimSpace(in.DueDate)
	return in
}

// Validate rejects malformed forms. A past due date is accepted; the planner
// degrades it to a zero-hour plan.
func (in AssignmentInput) Validate() error {
	in = in.normalize()
	if in.Title == "" {
		return apperrors.Invalid("title is required")
	}
	if in.Subject == "" {
		return apperrors.Invalid("subject is required")
	}
	if err := validateDueDate(in.DueDate); err != nil {
		return err
	}
	if err := validateGrade(in.TargetGrade); err != nil {
		return err
	}
	if err := validateProficiency(in.ProficiencyLevel); err != nil {
		return err
	}
	if err := validateHours("weekdayHours", in.WeekdayHours); err != nil {
		return err
	}
	return validateHours("weekendHours", in.WeekendHours)
}

func (in AssignmentInput) toAssignment() *types.Assignment {
	in = in.normalize()
	return &types.Assignment{
		Title:            in.Title,
		Subject:          in.Subject,
		DueDate:          in.DueDate,
		TargetGrade:      in.TargetGrade,
		ProficiencyLevel: in.ProficiencyLevel,
		WeekdayHours:     in.WeekdayHours,
		WeekendHours:     in.WeekendHours,
	}
}

func validatePatch(p *types.AssignmentPatch) error {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return apperrors.Invalid("title is required")
		}
		p.Title = &t
	}
	if p.DueDate != nil {
		d := strings.TrimSpace(*p.DueDate)
		if err := validateDueDate(d); err != nil {
			return err
		}
		p.DueDate = &d
	}
	if p.TargetGrade != nil {
		if err := validateGrade(*p.TargetGrade); err != nil {
			return err
		}
	}
	if p.ProficiencyLevel != nil {
		if err := validateProficiency(*p.ProficiencyLevel); err != nil {
			return err
		}
	}
	if p.WeekdayHours != nil {
		if err := validateHours("weekdayHours", *p.WeekdayHours); err != nil {
			return err
		}
	}
	if p.WeekendHours != nil {
		if err := validateHours("weekendHours", *p.WeekendHours); err != nil {
			return err
		}
	}
	return nil
}

func validateDueDate(raw string) error {
	if _, err := time.Parse(dateutil.DateLayout, raw); err != nil {
		return apperrors.Invalid("dueDate must be YYYY-MM-DD")
	}
	return nil
}

func validateGrade(g int) error {
	if g < 0 || g > 100 {
		return apperrors.Invalid("targetGrade must be between 0 and 100")
	}
	return nil
}

func validateProficiency(p int) error {
	if p < 1 || p > 5 {
		return apperrors.Invalid("proficiencyLevel must be between 1 and 5")
	}
	return nil
}

func validateHours(field string, h float64) error {
	if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return apperrors.Invalid("%s must be a non-negative number", field)
	}
	return nil
}
