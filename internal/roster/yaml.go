package roster

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// WriteYAML writes the teams file consumed by the repo setup commands.
func WriteYAML(path string, teams []Team) error {
	doc := struct {
		Teams []Team `yaml:"teams"`
	}{Teams: teams}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshalling teams: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadYAML loads a teams file written by WriteYAML.
func ReadYAML(path string) ([]Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	var doc struct {
		Teams []Team `yaml:"teams"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return doc.Teams, nil
}
