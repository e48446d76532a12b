package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/psyq-catalog-server/internal/domain"
)

// definitionGlob matches the declarative definition files the catalog accepts.
const definitionGlob = "**/*.{json,yaml,yml}"

// LoadJSON decodes and builds a definition from a JSON document.
func LoadJSON(data []byte) (*domain.Definition, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
	}
	return BuildDefinition(raw)
}

// LoadYAML decodes and builds a definition from a YAML document.
func LoadYAML(data []byte) (*domain.Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
	}
	return BuildDefinition(raw)
}

// LoadFile loads a definition from disk, dispatching on the file extension.
func LoadFile(path string) (*domain.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition %s: %w", path, err)
	}

	var def *domain.Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		def, err = LoadJSON(data)
	case ".yaml", ".yml":
		def, err = LoadYAML(data)
	default:
		return nil, fmt.Errorf("%w: unsupported definition format %s", domain.ErrInvalidDefinition, path)
	}
	if err != nil {
		return nil, fmt.Errorf("definition %s: %w", path, err)
	}
	return def, nil
}

// Discover loads every definition file found under dir (recursively),
// in deterministic path order.
func Discover(dir string) ([]*domain.Definition, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), definitionGlob)
	if err != nil {
		return nil, fmt.Errorf("scan definitions in %s: %w", dir, err)
	}
	sort.Strings(matches)

	defs := make([]*domain.Definition, 0, len(matches))
	for _, match := range matches {
		def, err := LoadFile(filepath.Join(dir, match))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
