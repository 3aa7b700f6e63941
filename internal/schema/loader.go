package schema

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/devcatalyst/intake-service/internal/models"
)

//go:embed recruitment.yaml
var recruitmentYAML []byte

// Default returns the built-in recruitment form.
func Default() (*models.FormSchema, error) {
	return Parse(recruitmentYAML)
}

// Load reads a schema from path, falling back to the built-in form when path
// is empty.
func Load(path string) (*models.FormSchema, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile loads and checks a single YAML schema file.
func LoadFile(path string) (*models.FormSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Info("form schema loaded", "path", path, "id", s.ID, "sections", len(s.Sections))
	return s, nil
}

// Parse decodes a YAML schema and rejects it unless every invariant holds.
func Parse(data []byte) (*models.FormSchema, error) {
	var s models.FormSchema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := Check(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
