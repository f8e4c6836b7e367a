package scheduling

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/modules/planning"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dateutil"
)

const (
	MaxSessionHours = 1.5

	milestoneHour     = 18
	milestoneDuration = 30 * time.Minute
	reviewHour        = 14
	reviewDuration    = 2 * time.Hour
)

// Slot is a wall-clock start time within a day.
type Slot struct {
	Hour   int
	Minute int
}

func (s Slot) On(day time.Time) time.Time {
	return dateutil.At(day, s.Hour, s.Minute)
}

var (
	weekdaySlots = []Slot{{15, 0}, {17, 0}, {19, 0}}
	weekendSlots = []Slot{{9, 0}, {14, 0}, {16, 30}}
)

// FindSlot returns the first preferred slot on day whose [start, start+duration)
// interval is free of existing. When every preferred slot conflicts the first
// one is returned anyway.
func FindSlot(day time.Time, durationHours float64, existing []study.CalendarEvent, isWeekend bool) Slot {
	candidates := weekdaySlots
	if isWeekend {
		candidates = weekendSlots
	}
	d := dateutil.Hours(durationHours)
	for _, c := range candidates {
		start := c.On(day)
		end := start.Add(d)
		free := true
		for _, e := range existing {
			if e.Overlaps(start, end) {
				free = false
				break
			}
		}
		if free {
			return c
		}
	}
	return candidates[0]
}

// Scheduler places a plan's study sessions on the calendar. It holds no state
// between calls, so identical inputs and clock give identical output.
type Scheduler struct {
	catalog *planning.SubjectCatalog
	clock   dateutil.Clock
}

func NewScheduler(catalog *planning.SubjectCatalog, clock dateutil.Clock) *Scheduler {
	if catalog == nil {
		catalog = planning.DefaultCatalog()
	}
	if clock == nil {
		clock = dateutil.SystemClock
	}
	return &Scheduler{catalog: catalog, clock: clock}
}

// Schedule emits study sessions, one milestone marker per plan milestone and
// a final review the day before the due date.
func (s *Scheduler) Schedule(a study.Assignment, plan *study.StudyPlan) []study.CalendarEvent {
	return s.ScheduleAround(a, plan, nil)
}

// ScheduleAround is Schedule with busy treated as already placed events by
// the slot finder. busy is not part of the result.
func (s *Scheduler) ScheduleAround(a study.Assignment, plan *study.StudyPlan, busy []study.CalendarEvent) []study.CalendarEvent {
	now := s.clock()
	loc := now.Location()
	startDate := dateutil.StartOfDay(now)
	dueDate, err := a.Due(loc)
	if err != nil {
		// Unparseable due dates are treated as due today.
		dueDate = startDate
	}

	var events []study.CalendarEvent
	if plan == nil {
		return append(events, s.reviewEvent(a, dueDate))
	}

	existing := append([]study.CalendarEvent(nil), busy...)
	topics := byPriority(plan.Topics)
	color := s.catalog.Color(a.Subject)
	subjectLabel := strings.ToUpper(a.Subject)

	ti := 0
	spent := 0.0
	for day := startDate; day.Before(dueDate) && ti < len(topics); day = dateutil.AddDays(day, 1) {
		for ti < len(topics) && spent >= topics[ti].Hours {
			ti++
			spent = 0
		}
		if ti >= len(topics) {
			break
		}
		weekend := dateutil.IsWeekend(day)
		available := a.WeekdayHours
		if weekend {
			available = a.WeekendHours
		}
		if !(available > 0) {
			continue
		}
		topic := topics[ti]
		session := math.Min(MaxSessionHours, math.Min(topic.Hours-spent, available))
		if !(session > 0) {
			continue
		}

		start := FindSlot(day, session, existing, weekend).On(day)
		topicName := topic.Name
		priority := topic.Priority
		ev := study.CalendarEvent{
			Title:        subjectLabel + ": " + topic.Name,
			Description:  topic.Description,
			Start:        start,
			End:          start.Add(dateutil.Hours(session)),
			Color:        color,
			Subject:      a.Subject,
			AssignmentID: a.ID,
			TopicID:      &topicName,
			Type:         study.EventTypeStudy,
			Priority:     &priority,
		}
		events = append(events, ev)
		existing = append(existing, ev)

		spent += session
		if spent >= topic.Hours {
			ti++
			spent = 0
		}
	}

	for _, m := range plan.Milestones {
		day, err := dateutil.ParseDate(m.TargetDate, loc)
		if err != nil {
			continue
		}
		start := dateutil.At(day, milestoneHour, 0)
		events = append(events, study.CalendarEvent{
			Title:        "Milestone: " + m.Description,
			Description:  m.Description,
			Start:        start,
			End:          start.Add(milestoneDuration),
			Color:        color,
			Subject:      a.Subject,
			AssignmentID: a.ID,
			Type:         study.EventTypeMilestone,
		})
	}

	return append(events, s.reviewEvent(a, dueDate))
}

func (s *Scheduler) reviewEvent(a study.Assignment, dueDate time.Time) study.CalendarEvent {
	start := dateutil.At(dateutil.AddDays(dueDate, -1), reviewHour, 0)
	return study.CalendarEvent{
		Title:        "Final Review: " + a.Title,
		Description:  "Review all topics before the due date",
		Start:        start,
		End:          start.Add(reviewDuration),
		Color:        s.catalog.Color(a.Subject),
		Subject:      a.Subject,
		AssignmentID: a.ID,
		Type:         study.EventTypeReview,
	}
}

// byPriority sorts a copy of topics highest priority first; ties keep plan order.
func byPriority(topics []study.Topic) []study.Topic {
	out := append([]study.Topic(nil), topics...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}
