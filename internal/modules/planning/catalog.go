package planning

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
)

const DefaultColor = "#6366f1"

// Subject is what the subject lookup knows about one subject id.
type Subject struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Color      string   `yaml:"color" json:"color"`
	Topics     []string `yaml:"topics" json:"topics"`
	Techniques []string `yaml:"techniques" json:"techniques"`
}

var (
	genericTopics    = []string{"Topic 1", "Topic 2", "Topic 3", "Review"}
	commonTechniques = []string{"Summary notes", "Pomodoro technique", "Teach others", "Active recall"}
	defaultStudyTips = []string{
		"Review previous material first",
		"Take regular breaks",
		"Dedicated study space",
		"Get adequate sleep",
		"Stay hydrated",
	}

	hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

var defaultSubjects = []Subject{
	{
		ID: "math", Name: "Mathematics", Color: "#4a90e2",
		Topics:     []string{"Fundamentals", "Practice Problems", "Formulas", "Advanced Concepts", "Mock Tests"},
		Techniques: []string{"Practice problems", "Formula sheets", "Step-by-step solutions"},
	},
	{
		ID: "science", Name: "Science", Color: "#2ecc71",
		Topics:     []string{"Key Concepts", "Lab Work", "Theory", "Scientific Method", "Practice"},
		Techniques: []string{"Diagrams", "Experiments", "Videos"},
	},
	{
		ID: "english", Name: "English", Color: "#e74c3c",
		Topics:     []string{"Reading", "Writing", "Grammar", "Analysis", "Vocabulary"},
		Techniques: []string{"Read widely", "Practice essays", "Literary analysis"},
	},
	{
		ID: "history", Name: "History", Color: "#f39c12",
		Topics:     []string{"Timeline", "Key Events", "Analysis", "Documents", "Essays"},
		Techniques: []string{"Timelines", "Connection maps", "Summaries"},
	},
	{
		ID: "language", Name: "Foreign Language", Color: "#9b59b6",
		Topics:     []string{"Vocabulary", "Grammar", "Conversation", "Reading", "Writing"},
		Techniques: []string{"Listen to natives", "Daily practice", "Language apps"},
	},
}

// SubjectCatalog maps subject ids to display data, topic tables and techniques.
type SubjectCatalog struct {
	subjects map[string]Subject
}

func DefaultCatalog() *SubjectCatalog {
	c := &SubjectCatalog{subjects: make(map[string]Subject, len(defaultSubjects))}
	for _, s := range defaultSubjects {
		c.subjects[s.ID] = s
	}
	return c
}

type catalogFile struct {
	Subjects []Subject `yaml:"subjects"`
}

// LoadCatalog returns the default catalog with the subjects in path layered on
// top. An empty path yields the defaults.
func LoadCatalog(path string) (*SubjectCatalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subjects file: %w", err)
	}
	return ParseCatalogYAML(data)
}

func ParseCatalogYAML(data []byte) (*SubjectCatalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.Invalid("parse subjects yaml: %v", err)
	}
	c := DefaultCatalog()
	for i, s := range file.Subjects {
		s.ID = strings.ToLower(strings.TrimSpace(s.ID))
		if s.ID == "" {
			return nil, apperrors.Invalid("subjects[%d]: id required", i)
		}
		if n := len(s.Topics); n == 0 || n > 5 {
			return nil, apperrors.Invalid("subject %q: want 1-5 topics, got %d", s.ID, n)
		}
		for _, t := range s.Topics {
			if strings.TrimSpace(t) == "" {
				return nil, apperrors.Invalid("subject %q: empty topic name", s.ID)
			}
		}
		if s.Color == "" {
			s.Color = DefaultColor
		}
		if !hexColor.MatchString(s.Color) {
			return nil, apperrors.Invalid("subject %q: color %q is not a hex color", s.ID, s.Color)
		}
		if strings.TrimSpace(s.Name) == "" {
			s.Name = s.ID
		}
		c.subjects[s.ID] = s
	}
	return c, nil
}

func (c *SubjectCatalog) Lookup(id string) (Subject, bool) {
	s, ok := c.subjects[id]
	return s, ok
}

func (c *SubjectCatalog) DisplayName(id string) string {
	if s, ok := c.subjects[id]; ok {
		return s.Name
	}
	return id
}

func (c *SubjectCatalog) Color(id string) string {
	if s, ok := c.subjects[id]; ok && s.Color != "" {
		return s.Color
	}
	return DefaultColor
}

// Topics returns the topic table for id, or the generic four-topic set.
func (c *SubjectCatalog) Topics(id string) []string {
	if s, ok := c.subjects[id]; ok && len(s.Topics) > 0 {
		return append([]string(nil), s.Topics...)
	}
	return append([]string(nil), genericTopics...)
}

// Techniques is the common list followed by the subject-specific one.
func (c *SubjectCatalog) Techniques(id string) []string {
	out := append([]string(nil), commonTechniques...)
	if s, ok := c.subjects[id]; ok {
		out = append(out, s.Techniques...)
	}
	return out
}

func (c *SubjectCatalog) StudyTips() []string {
	return append([]string(nil), defaultStudyTips...)
}

// List returns all subjects ordered by id.
func (c *SubjectCatalog) List() []Subject {
	out := make([]Subject, 0, len(c.subjects))
	for _, s := range c.subjects {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
