package planning

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
)

func TestDefaultCatalogLookup(t *testing.T) {
	c := DefaultCatalog()
	if got := c.DisplayName("language"); got != "Foreign Language" {
		t.Fatalf("DisplayName(language)=%q", got)
	}
	if got := c.Color("science"); got != "#2ecc71" {
		t.Fatalf("Color(science)=%q", got)
	}
	if got := c.DisplayName("pottery"); got != "pottery" {
		t.Fatalf("unknown DisplayName=%q", got)
	}
	if got := c.Color("pottery"); got != DefaultColor {
		t.Fatalf("unknown Color=%q", got)
	}
	if got := len(c.List()); got != 5 {
		t.Fatalf("List len=%d", got)
	}
}

func TestCatalogTopicsAreCopies(t *testing.T) {
	c := DefaultCatalog()
	topics := c.Topics("math")
	topics[0] = "mutated"
	if c.Topics("math")[0] != "Fundamentals" {
		t.Fatalf("catalog topics were mutated through returned slice")
	}
}

func TestParseCatalogYAMLOverridesAndAdds(t *testing.T) {
	data := []byte(`
subjects:
  - id: Music
    name: Music Theory
    color: "#123abc"
    topics: [Scales, Harmony, Rhythm]
    techniques: [Ear training]
  - id: math
    name: Maths
    color: "#000"
    topics: [Algebra]
`)
	c, err := ParseCatalogYAML(data)
	if err != nil {
		t.Fatalf("ParseCatalogYAML: %v", err)
	}
	if got := c.DisplayName("music"); got != "Music Theory" {
		t.Fatalf("music name=%q", got)
	}
	if got := c.Topics("math"); len(got) != 1 || got[0] != "Algebra" {
		t.Fatalf("math override topics=%v", got)
	}
	if got := c.Techniques("music"); len(got) != 5 || got[4] != "Ear training" {
		t.Fatalf("music techniques=%v", got)
	}
	if _, ok := c.Lookup("history"); !ok {
		t.Fatalf("defaults should survive an override file")
	}
}

func TestParseCatalogYAMLRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing id", "subjects:\n  - name: X\n    topics: [a]\n"},
		{"no topics", "subjects:\n  - id: x\n"},
		{"too many topics", "subjects:\n  - id: x\n    topics: [a, b, c, d, e, f]\n"},
		{"blank topic", "subjects:\n  - id: x\n    topics: [\"  \"]\n"},
		{"bad color", "subjects:\n  - id: x\n    color: blue\n    topics: [a]\n"},
		{"not yaml", "subjects: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalogYAML([]byte(tt.yaml))
			if !apperrors.IsInvalid(err) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	c, err := LoadCatalog("")
	if err != nil || c.DisplayName("math") != "Mathematics" {
		t.Fatalf("empty path: %v", err)
	}

	path := filepath.Join(t.TempDir(), "subjects.yaml")
	if err := os.WriteFile(path, []byte("subjects:\n  - id: art\n    topics: [Drawing]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err = LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if got := c.DisplayName("art"); got != "art" {
		t.Fatalf("art name=%q", got)
	}
	if got := c.Color("art"); got != DefaultColor {
		t.Fatalf("art color=%q", got)
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
