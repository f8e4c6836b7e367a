package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

const studyPlanSchemaName = "study_plan"

// JSONGenerator is satisfied by openai.Client.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
}

// AIPlanner asks a generative model for a plan and falls back to the
// heuristic planner on any error or invalid response.
type AIPlanner struct {
	log      *logger.Logger
	ai       JSONGenerator
	fallback *HeuristicPlanner
	catalog  *SubjectCatalog
	timeout  time.Duration
}

func NewAIPlanner(log *logger.Logger, ai JSONGenerator, fallback *HeuristicPlanner, timeout time.Duration) *AIPlanner {
	if log == nil {
		log = logger.NewNop()
	}
	if fallback == nil {
		fallback = NewHeuristicPlanner(nil, nil)
	}
	return &AIPlanner{
		log:      log.With("service", "AIPlanner"),
		ai:       ai,
		fallback: fallback,
		catalog:  fallback.catalog,
		timeout:  timeout,
	}
}

func (p *AIPlanner) GeneratePlan(ctx context.Context, a study.Assignment) *study.StudyPlan {
	if p.ai == nil {
		return p.fallback.GeneratePlan(ctx, a)
	}
	start := time.Now()
	plan, err := p.generate(ctx, a)
	metrics := currentMetrics()
	if err != nil {
		metrics.ObserveAIRequest("fallback", time.Since(start))
		metrics.ObservePlan("ai", "fallback")
		p.log.Warn("AI plan generation failed, using heuristic plan",
			"assignment_id", a.ID.String(),
			"subject", a.Subject,
			"error", err,
		)
		return p.fallback.plan(a)
	}
	metrics.ObserveAIRequest("ok", time.Since(start))
	metrics.ObservePlan("ai", "ok")
	return plan
}

func (p *AIPlanner) generate(ctx context.Context, a study.Assignment) (*study.StudyPlan, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	now := p.fallback.clock()
	days := daysUntilDue(a, now)

	obj, err := p.ai.GenerateJSON(ctx, planSystemPrompt, planUserPrompt(a, p.catalog.DisplayName(a.Subject), days), studyPlanSchemaName, StudyPlanSchema())
	if err != nil {
		return nil, err
	}
	return ParseGeneratedPlan(obj, PlanDefaults{
		Techniques:   p.catalog.Techniques(a.Subject),
		StudyTips:    p.catalog.StudyTips(),
		Now:          now,
		DaysUntilDue: days,
	})
}

const planSystemPrompt = `You are a study coach. You split a student's available time before a deadline into
topics with hour budgets, a priority from 1 (lowest) to 5 (highest), and dated milestones.
Respond with JSON matching the schema only. Dates use YYYY-MM-DD.`

func planUserPrompt(a study.Assignment, subjectName string, days int) string {
	return fmt.Sprintf(`Create a study plan for %s: %s.
Due in %d days (due date %s). Target grade: %d%%. Proficiency: %d/5.
Available hours: weekdays %.1fh, weekends %.1fh.
Use 4-5 topics. Use an empty array for any list you have nothing for.`,
		subjectName, a.Title, days, a.DueDate, a.TargetGrade, a.ProficiencyLevel, a.WeekdayHours, a.WeekendHours)
}
