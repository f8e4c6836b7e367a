package study

// StudyPlan is the hour budget for an assignment split across topics.
type StudyPlan struct {
	TotalHours          float64     `json:"totalHours"`
	Topics              []Topic     `json:"topics"`
	SuggestedTechniques []string    `json:"suggestedTechniques"`
	StudyTips           []string    `json:"studyTips,omitempty"`
	Milestones          []Milestone `json:"milestones"`
}

// Topic hours are a planning target, not a wall-clock guarantee.
type Topic struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	Priority    int     `json:"priority"`
	Completed   bool    `json:"completed"`
}

type Milestone struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	TargetDate  string `json:"targetDate"`
	Completed   bool   `json:"completed"`
}

// Clone deep-copies the plan so callers never share slices.
func (p *StudyPlan) Clone() *StudyPlan {
	if p == nil {
		return nil
	}
	out := *p
	out.Topics = append([]Topic(nil), p.Topics...)
	out.SuggestedTechniques = append([]string(nil), p.SuggestedTechniques...)
	out.StudyTips = append([]string(nil), p.StudyTips...)
	out.Milestones = append([]Milestone(nil), p.Milestones...)
	return &out
}

// TopicByName returns the first topic named name.
func (p *StudyPlan) TopicByName(name string) (Topic, bool) {
	if p == nil {
		return Topic{}, false
	}
	for _, t := range p.Topics {
		if t.Name == name {
			return t, true
		}
	}
	return Topic{}, false
}
