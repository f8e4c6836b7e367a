package planning

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dateutil"
)

const (
	// PlanDamping scales the raw hour estimate down; students rarely use every free hour.
	PlanDamping = 0.7
	// MaxMilestones caps the checkpoints per plan.
	MaxMilestones = 4
	maxPriority   = 5
)

// Planner turns an assignment into a study plan. Implementations never fail:
// malformed input degrades to a zero-hour plan.
type Planner interface {
	GeneratePlan(ctx context.Context, a study.Assignment) *study.StudyPlan
}

type HeuristicPlanner struct {
	catalog *SubjectCatalog
	clock   dateutil.Clock
}

func NewHeuristicPlanner(catalog *SubjectCatalog, clock dateutil.Clock) *HeuristicPlanner {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if clock == nil {
		clock = dateutil.SystemClock
	}
	return &HeuristicPlanner{catalog: catalog, clock: clock}
}

// currentMetrics is swapped in tests.
var currentMetrics = observability.Current

func (p *HeuristicPlanner) GeneratePlan(_ context.Context, a study.Assignment) *study.StudyPlan {
	plan := p.plan(a)
	currentMetrics().ObservePlan("heuristic", "ok")
	return plan
}

// plan builds the heuristic plan without recording it, for callers that
// already counted the generation under their own planner label.
func (p *HeuristicPlanner) plan(a study.Assignment) *study.StudyPlan {
	now := p.clock()
	days := daysUntilDue(a, now)
	recommended := RecommendedHours(days, a.WeekdayHours, a.WeekendHours, a.ProficiencyLevel, a.TargetGrade)

	names := p.catalog.Topics(a.Subject)
	perTopic := math.Ceil(recommended / float64(len(names)))
	topics := make([]study.Topic, 0, len(names))
	for i, name := range names {
		topics = append(topics, study.Topic{
			Name:        name,
			Description: "Study " + name,
			Hours:       perTopic,
			Priority:    priorityForIndex(i, len(names)),
		})
	}

	return &study.StudyPlan{
		TotalHours:          recommended,
		Topics:              topics,
		SuggestedTechniques: p.catalog.Techniques(a.Subject),
		StudyTips:           p.catalog.StudyTips(),
		Milestones:          BuildMilestones(names, now, days),
	}
}

// RecommendedHours applies the hour heuristic for daysUntilDue days. Zero or
// negative day counts flow through the arithmetic and clamp to zero hours.
func RecommendedHours(daysUntilDue int, weekdayHours, weekendHours float64, proficiency, targetGrade int) float64 {
	weekdays := math.Floor(float64(daysUntilDue) * 5 / 7)
	weekends := math.Floor(float64(daysUntilDue) * 2 / 7)
	available := weekdays*weekdayHours + weekends*weekendHours

	proficiencyFactor := float64(6-proficiency) / 5
	targetFactor := float64(targetGrade) / 100

	hours := math.Ceil(available * proficiencyFactor * targetFactor * PlanDamping)
	if hours <= 0 || math.IsNaN(hours) {
		return 0
	}
	return hours
}

// BuildMilestones spreads min(4, len(topics)) checkpoints evenly from now
// towards the due date.
func BuildMilestones(topicNames []string, now time.Time, daysUntilDue int) []study.Milestone {
	count := len(topicNames)
	if count > MaxMilestones {
		count = MaxMilestones
	}
	today := dateutil.StartOfDay(now)
	out := make([]study.Milestone, 0, count)
	for i := 0; i < count; i++ {
		offset := int(math.Floor(float64(daysUntilDue) / float64(count) * float64(i+1)))
		out = append(out, study.Milestone{
			ID:          fmt.Sprintf("milestone-%d", i+1),
			Description: "Complete " + topicNames[i],
			TargetDate:  dateutil.FormatDate(dateutil.AddDays(today, offset)),
		})
	}
	return out
}

func priorityForIndex(i, n int) int {
	p := n - i
	if p > maxPriority {
		return maxPriority
	}
	if p < 1 {
		return 1
	}
	return p
}

// An unparseable due date is treated as due now.
func daysUntilDue(a study.Assignment, now time.Time) int {
	due, err := a.Due(now.Location())
	if err != nil {
		return 0
	}
	return dateutil.DaysUntil(now, due)
}
