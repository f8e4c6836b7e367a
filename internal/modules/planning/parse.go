package planning

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dateutil"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
)

type generatedTopic struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Hours       *float64 `json:"hours"`
	Priority    *float64 `json:"priority"`
}

type generatedMilestone struct {
	ID          *string `json:"id"`
	Description *string `json:"description"`
	TargetDate  *string `json:"targetDate"`
}

type generatedPlan struct {
	TotalHours          *float64             `json:"totalHours"`
	Topics              []generatedTopic     `json:"topics"`
	SuggestedTechniques []string             `json:"suggestedTechniques"`
	Milestones          []generatedMilestone `json:"milestones"`
	StudyTips           []string             `json:"studyTips"`
}

// PlanDefaults supplies the values used for optional fields the model left out.
type PlanDefaults struct {
	Techniques   []string
	StudyTips    []string
	Now          time.Time
	DaysUntilDue int
}

// ParseGeneratedPlan validates a model response and converts it into a
// complete StudyPlan. It either returns a fully valid plan or an
// ErrInvalidArgument error; it never returns a partially filled plan.
func ParseGeneratedPlan(obj map[string]any, defaults PlanDefaults) (*study.StudyPlan, error) {
	if obj == nil {
		return nil, apperrors.Invalid("generated plan: empty response")
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, apperrors.Invalid("generated plan: %v", err)
	}
	var in generatedPlan
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, apperrors.Invalid("generated plan: %v", err)
	}

	if in.TotalHours == nil || !validHours(*in.TotalHours) {
		return nil, apperrors.Invalid("generated plan: totalHours missing or invalid")
	}
	if len(in.Topics) == 0 {
		return nil, apperrors.Invalid("generated plan: no topics")
	}

	plan := &study.StudyPlan{
		TotalHours: *in.TotalHours,
		Topics:     make([]study.Topic, 0, len(in.Topics)),
	}
	names := make([]string, 0, len(in.Topics))
	for i, t := range in.Topics {
		if t.Name == nil || strings.TrimSpace(*t.Name) == "" {
			return nil, apperrors.Invalid("generated plan: topic %d has no name", i)
		}
		if t.Hours == nil || !validHours(*t.Hours) {
			return nil, apperrors.Invalid("generated plan: topic %d hours invalid", i)
		}
		if t.Priority == nil || *t.Priority != math.Trunc(*t.Priority) || *t.Priority < 1 || *t.Priority > maxPriority {
			return nil, apperrors.Invalid("generated plan: topic %d priority must be 1..5", i)
		}
		name := strings.TrimSpace(*t.Name)
		desc := "Study " + name
		if t.Description != nil && strings.TrimSpace(*t.Description) != "" {
			desc = strings.TrimSpace(*t.Description)
		}
		plan.Topics = append(plan.Topics, study.Topic{
			Name:        name,
			Description: desc,
			Hours:       *t.Hours,
			Priority:    int(*t.Priority),
		})
		names = append(names, name)
	}

	if limit := min(MaxMilestones, len(names)); len(in.Milestones) > limit {
		return nil, apperrors.Invalid("generated plan: %d milestones, at most %d allowed", len(in.Milestones), limit)
	}
	if len(in.Milestones) == 0 {
		plan.Milestones = BuildMilestones(names, defaults.Now, defaults.DaysUntilDue)
	} else {
		plan.Milestones = make([]study.Milestone, 0, len(in.Milestones))
		for i, m := range in.Milestones {
			if m.TargetDate == nil {
				return nil, apperrors.Invalid("generated plan: milestone %d has no targetDate", i)
			}
			if _, err := time.Parse(dateutil.DateLayout, strings.TrimSpace(*m.TargetDate)); err != nil {
				return nil, apperrors.Invalid("generated plan: milestone %d targetDate %q", i, *m.TargetDate)
			}
			if m.Description == nil || strings.TrimSpace(*m.Description) == "" {
				return nil, apperrors.Invalid("generated plan: milestone %d has no description", i)
			}
			id := ""
			if m.ID != nil {
				id = strings.TrimSpace(*m.ID)
			}
			if id == "" {
				id = "milestone-" + strconv.Itoa(i+1)
			}
			plan.Milestones = append(plan.Milestones, study.Milestone{
				ID:          id,
				Description: strings.TrimSpace(*m.Description),
				TargetDate:  strings.TrimSpace(*m.TargetDate),
			})
		}
	}

	plan.SuggestedTechniques = nonEmpty(in.SuggestedTechniques)
	if len(plan.SuggestedTechniques) == 0 {
		plan.SuggestedTechniques = append([]string(nil), defaults.Techniques...)
	}
	plan.StudyTips = nonEmpty(in.StudyTips)
	if len(plan.StudyTips) == 0 {
		plan.StudyTips = append([]string(nil), defaults.StudyTips...)
	}
	return plan, nil
}

func validHours(h float64) bool {
	return h >= 0 && !math.IsNaN(h) && !math.IsInf(h, 0)
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
