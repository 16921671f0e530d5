package workspace

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"gopkg.in/yaml.v3"
)

func TestNewDescriptor(t *testing.T) {
	desc := NewDescriptor("article-theme", "intro")

	if desc.Version != 1 {
		t.Errorf("Version = %d, want 1", desc.Version)
	}
	if desc.Site.Template != "article-theme" {
		t.Errorf("Template = %q, want article-theme", desc.Site.Template)
	}
	if len(desc.Project.TOC) != 1 || desc.Project.TOC[0].File != "intro" {
		t.Errorf("TOC = %+v, want single entry intro", desc.Project.TOC)
	}
}

func TestDescriptor_Marshal(t *testing.T) {
	data, err := NewDescriptor("book-theme", "page").Marshal()
	if err != nil {
		t.Fatal(err)
	}

	snaps.MatchSnapshot(t, string(data))

	// Round-trips as valid YAML with the same shape.
	var parsed Descriptor
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("generated descriptor is not valid YAML: %v", err)
	}
	if parsed.Version != 1 || parsed.Site.Template != "book-theme" || parsed.Project.TOC[0].File != "page" {
		t.Errorf("round-trip mismatch: %+v", parsed)
	}
}
