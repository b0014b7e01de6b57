package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/sharpen/internal/domain"
	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog format.
type File struct {
	// Extend keeps the built-in activities and adds these on top.
	Extend     bool              `yaml:"extend"`
	Activities []domain.Activity `yaml:"activities"`
}

// LoadFile reads a YAML catalog. A missing file yields the built-in defaults.
func LoadFile(path string) ([]domain.Activity, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) ([]domain.Activity, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if f.Extend {
		return append(Defaults(), f.Activities...), nil
	}
	return f.Activities, nil
}

// Load builds a Static catalog from path, or the defaults when path is empty.
func Load(path string) (*Static, error) {
	if path == "" {
		return NewStatic(Defaults())
	}
	activities, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewStatic(activities)
}
