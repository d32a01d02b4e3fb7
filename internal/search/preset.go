package search

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cloo-solutions/jobfinder/internal/domain"
)

// PresetFile is a YAML document of named filter sets:
//
//	presets:
//	  remote-go:
//	    keywords: golang
//	    remote_only: true
//	    categories: [engineering]
type PresetFile struct {
	Presets map[string]map[string]any `yaml:"presets"`
}

// LoadPresets reads a preset file.
func LoadPresets(path string) (*PresetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var file PresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse preset file: %w", err)
	}
	return &file, nil
}

// Names returns the preset names in sorted order.
func (p *PresetFile) Names() []string {
	names := make([]string, 0, len(p.Presets))
	for name := range p.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filters resolves a preset on top of the default filters.
func (p *PresetFile) Filters(name string) (domain.SearchFilters, error) {
	fields, ok := p.Presets[name]
	if !ok {
		return domain.SearchFilters{}, fmt.Errorf("unknown preset %q", name)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f := domain.DefaultFilters()
	for _, k := range keys {
		next, err := ApplyFilter(f, k, fields[k])
		if err != nil {
			return domain.SearchFilters{}, fmt.Errorf("preset %q: %w", name, err)
		}
		f = next
	}
	return f, nil
}

// MarshalPreset renders filters as a preset entry, omitting defaults.
func MarshalPreset(name string, f domain.SearchFilters) ([]byte, error) {
	file := PresetFile{Presets: map[string]map[string]any{name: Payload(f)}}
	return yaml.Marshal(file)
}

// ApplyPreset loads preset name from path into the controller's filters.
func (c *Controller) ApplyPreset(path, name string) error {
	presets, err := LoadPresets(path)
	if err != nil {
		return err
	}
	f, err := presets.Filters(name)
	if err != nil {
		return err
	}
	return c.SetFilters(f)
}

// SavePreset stores f under name in the preset file at path, creating the
// file if needed and replacing an existing preset of the same name.
func SavePreset(path, name string, f domain.SearchFilters) error {
	if name == "" {
		return fmt.Errorf("preset name is required")
	}

	file := &PresetFile{}
	existing, err := LoadPresets(path)
	switch {
	case err == nil:
		file = existing
	case errors.Is(err, fs.ErrNotExist):
	default:
		return err
	}
	if file.Presets == nil {
		file.Presets = map[string]map[string]any{}
	}
	file.Presets[name] = Payload(f)

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create preset directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}
	return nil
}
