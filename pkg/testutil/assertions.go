package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/manyways/pkg/catalog"
	"github.com/vanderheijden86/manyways/pkg/flow"
	"github.com/vanderheijden86/manyways/pkg/session"
)

// AssertStep verifies the session is on the expected step.
func AssertStep(t *testing.T, s *session.Session, expected session.Step) {
	t.Helper()
	if got := s.Step(); got != expected {
		t.Errorf("expected step %s, got %s", expected, got)
	}
}

// AssertSelected verifies the session holds exactly the given keys.
func AssertSelected(t *testing.T, s *session.Session, keys ...string) {
	t.Helper()
	if s.Len() != len(keys) {
		t.Errorf("expected %d selected keys %v, got %d", len(keys), keys, s.Len())
	}
	for _, k := range keys {
		if !s.IsSelected(k) {
			t.Errorf("expected %q to be selected", k)
		}
	}
}

// AssertActions verifies the view offers exactly the given actions, in order.
func AssertActions(t *testing.T, v flow.View, expected ...flow.Action) {
	t.Helper()
	if !slices.Equal(v.Actions, expected) {
		t.Errorf("expected actions %v on %s, got %v", expected, v.Name, v.Actions)
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
func AssertJSONEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}

	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// catalogFile mirrors the on-disk catalog layout.
type catalogFile struct {
	Categories []catalog.Category `yaml:"categories"`
	Voices     []string           `yaml:"voices,omitempty"`
}

// WriteCatalogFile writes a catalog YAML file into dir and returns its path.
func WriteCatalogFile(t *testing.T, dir string, categories []catalog.Category, voices []string) string {
	t.Helper()

	data, err := yaml.Marshal(catalogFile{Categories: categories, Voices: voices})
	if err != nil {
		t.Fatalf("failed to marshal catalog: %v", err)
	}
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}
