package query

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"ScreenSentinel/internal/model"
)

//go:embed presets.yaml
var defaultPresetsYAML []byte

// ConfigError reports an unknown or malformed preset.
type ConfigError struct {
	Preset string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("preset %q: %v", e.Preset, e.Err)
	}
	return fmt.Sprintf("unknown preset %q", e.Preset)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Preset is a named set of screening criteria.
type Preset struct {
	Description string                  `yaml:"description"`
	Criteria    model.ScreeningCriteria `yaml:",inline"`
}

// Presets is a read-only registry of presets keyed by name.
type Presets map[string]Preset

type presetFile struct {
	Presets Presets `yaml:"presets"`
}

// ParsePresets decodes a presets document.
func ParsePresets(data []byte) (Presets, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	if len(f.Presets) == 0 {
		return nil, fmt.Errorf("parse presets: no presets defined")
	}
	return f.Presets, nil
}

// DefaultPresets returns the built-in presets.
func DefaultPresets() Presets {
	p, err := ParsePresets(defaultPresetsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded presets: %v", err))
	}
	return p
}

// LoadPresetsFile reads presets from path and layers them over the built-in
// ones, so a file only needs to define what it changes.
func LoadPresetsFile(path string) (Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}
	custom, err := ParsePresets(data)
	if err != nil {
		return nil, err
	}
	merged := DefaultPresets()
	for name, p := range custom {
		merged[name] = p
	}
	return merged, nil
}

// Get returns the criteria of the named preset, or a *ConfigError.
func (p Presets) Get(name string) (model.ScreeningCriteria, error) {
	preset, ok := p[name]
	if !ok {
		return model.ScreeningCriteria{}, &ConfigError{Preset: name}
	}
	return preset.Criteria, nil
}

// Names lists preset names in sorted order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPreset returns the criteria of a built-in preset.
func LoadPreset(name string) (model.ScreeningCriteria, error) {
	return DefaultPresets().Get(name)
}
