package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings bundles the scheduling configuration read from Settings/*.yml.
// Each variant is a plain map loaded once at startup; the compiler takes
// the bundle as an explicit parameter.
type Settings struct {
	Priorities Priorities
	Categories Categories
	Statuses   Statuses
	Buffers    Buffers
	Quality    Quality
	Weights    SchedulingWeights
}

// Priorities maps a priority name to its numeric value.
type Priorities map[string]ValueEntry

// Categories maps a category name to its numeric value.
type Categories map[string]ValueEntry

// ValueEntry is the common {value: n} shape of priority and category
// settings.
type ValueEntry struct {
	Value float64 `yaml:"value"`
}

// Statuses declares each status indicator and its enumerated values.
type Statuses map[string]StatusIndicator

// StatusIndicator is one declared indicator, e.g. energy: [low, ok, high].
type StatusIndicator struct {
	Values []string `yaml:"values"`
}

// Buffers configures the buffer-insertion policy.
type Buffers struct {
	Duration     int            `yaml:"duration"`      // minutes per buffer
	MinGap       int            `yaml:"min_gap"`       // insert when gap < this
	CategoryPads map[string]int `yaml:"category_pads"` // extra pad after these categories
}

// Quality maps a quality label to its numeric value, for ledger entries.
type Quality map[string]ValueEntry

// SchedulingWeights holds the importance weights and resolver knobs from
// Scheduling_Priorities.yml.
type SchedulingWeights struct {
	Priority float64 `yaml:"priority"`
	Category float64 `yaml:"category"`
	Status   float64 `yaml:"status"`

	TrimStep      int    `yaml:"trim_step"`
	MinDuration   int    `yaml:"min_duration"`
	MaxIterations int    `yaml:"max_iterations"`
	WindowStart   string `yaml:"window_start"`
	WindowEnd     string `yaml:"window_end"`
}

// Defaults applied when a settings file is absent or leaves a knob unset.
const (
	DefaultTrimStep      = 15
	DefaultMinDuration   = 5
	DefaultMaxIterations = 50
	DefaultWindowStart   = "06:00"
	DefaultWindowEnd     = "22:00"
	DefaultBufferMinutes = 10
)

// SettingsPath returns the Settings directory under the store root.
func (s *Store) SettingsPath() string {
	return filepath.Join(s.Root, "Settings")
}

// LoadSettings reads every settings file, tolerating missing ones.
func (s *Store) LoadSettings() (*Settings, error) {
	dir := s.SettingsPath()
	out := &Settings{}

	if err := loadYAML(filepath.Join(dir, "Priorities.yml"), &out.Priorities); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "Categories.yml"), &out.Categories); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "Statuses.yml"), &out.Statuses); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "Buffers.yml"), &out.Buffers); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "Quality.yml"), &out.Quality); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "Scheduling_Priorities.yml"), &out.Weights); err != nil {
		return nil, err
	}

	out.applyDefaults()
	return out, nil
}

func (s *Settings) applyDefaults() {
	w := &s.Weights
	if w.Priority == 0 && w.Category == 0 && w.Status == 0 {
		w.Priority, w.Category, w.Status = 1, 1, 1
	}
	if w.TrimStep <= 0 {
		w.TrimStep = DefaultTrimStep
	}
	if w.MinDuration <= 0 {
		w.MinDuration = DefaultMinDuration
	}
	if w.MaxIterations <= 0 {
		w.MaxIterations = DefaultMaxIterations
	}
	if w.WindowStart == "" {
		w.WindowStart = DefaultWindowStart
	}
	if w.WindowEnd == "" {
		w.WindowEnd = DefaultWindowEnd
	}
	if s.Buffers.Duration <= 0 {
		s.Buffers.Duration = DefaultBufferMinutes
	}
}

// PriorityValue looks up a priority's numeric value; unknown names are 0.
func (s *Settings) PriorityValue(name string) float64 {
	if e, ok := s.Priorities[name]; ok {
		return e.Value
	}
	return 0
}

// CategoryValue looks up a category's numeric value; unknown names are 0.
func (s *Settings) CategoryValue(name string) float64 {
	if e, ok := s.Categories[name]; ok {
		return e.Value
	}
	return 0
}

func marshalYAML(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}
	return data, nil
}

// loadYAML reads one YAML file into out; a missing file is not an error.
func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
