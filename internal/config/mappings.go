package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// mappingsFile mirrors mappings.toml: one [mappings] table whose
// values are a single name, a list of names, or an empty string
// meaning "drop this dependency".
type mappingsFile struct {
	Mappings map[string]interface{} `toml:"mappings"`
}

// LoadMappings reads mappings.toml from the configuration directory.
// A missing file yields no overrides.
func LoadMappings() (map[string][]string, error) {
	return LoadMappingsFrom(filepath.Join(Dir(), "mappings.toml"))
}

// LoadMappingsFrom reads a specific mappings file.
func LoadMappingsFrom(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read mappings: %w", err)
	}

	var file mappingsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	out := make(map[string][]string, len(file.Mappings))
	for name, raw := range file.Mappings {
		targets, err := mappingValue(raw)
		if err != nil {
			return nil, fmt.Errorf("mapping %q: %w", name, err)
		}
		out[name] = targets
	}
	return out, nil
}

func mappingValue(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return []string{}, nil
		}
		return []string{v}, nil
	case []interface{}:
		targets := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			if s != "" {
				targets = append(targets, s)
			}
		}
		return targets, nil
	default:
		return nil, fmt.Errorf("expected string or array, got %T", raw)
	}
}
