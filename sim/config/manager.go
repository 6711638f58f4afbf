package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/roversim/mars-rover-sim/sim/mission"
	"github.com/roversim/mars-rover-sim/sim/planner"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

// Preset is a named simulation configuration stored as JSON.
type Preset struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Size          int     `json:"size"`
	Seed          int64   `json:"seed,omitempty"`
	InitialEnergy float64 `json:"initial_energy"`
	Algorithm     string  `json:"algorithm"`
	PinSeed       bool    `json:"pin_seed,omitempty"`
}

// Params converts the preset into mission parameters, validating the
// algorithm name at the boundary.
func (p *Preset) Params() (mission.Params, error) {
	variant, err := planner.ParseVariant(p.Algorithm)
	if err != nil {
		return mission.Params{}, err
	}
	return mission.Params{
		Size:          p.Size,
		Seed:          p.Seed,
		InitialEnergy: p.InitialEnergy,
		Algorithm:     variant,
		PinSeed:       p.PinSeed,
	}, nil
}

// Validate checks the preset for completeness and sane ranges.
func Validate(p *Preset) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPreset)
	}
	if p.Size < 10 || p.Size > 200 {
		return fmt.Errorf("%w: size must be between 10 and 200, got %d", ErrInvalidPreset, p.Size)
	}
	if p.InitialEnergy <= 0 {
		return fmt.Errorf("%w: initial_energy must be positive, got %g", ErrInvalidPreset, p.InitialEnergy)
	}
	if _, err := planner.ParseVariant(p.Algorithm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	return nil
}

// Manager loads and caches simulation presets from a directory, falling
// back to built-in defaults when the directory has none.
type Manager struct {
	presetDir string
	presets   map[string]*Preset
	mu        sync.RWMutex
}

// NewManager creates a preset manager over the given directory. The
// directory is created when missing so SavePreset always has a target.
func NewManager(presetDir string) (*Manager, error) {
	if err := os.MkdirAll(presetDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preset directory: %w", err)
	}
	return &Manager{
		presetDir: presetDir,
		presets:   make(map[string]*Preset),
	}, nil
}

// GetDefault returns the built-in default preset.
func (m *Manager) GetDefault() *Preset {
	return &Preset{
		Name:          "classic",
		Description:   "20x20 mixed terrain, standard energy budget",
		Size:          20,
		InitialEnergy: 100,
		Algorithm:     string(planner.AStar),
	}
}

// builtins are presets available without any files on disk.
func builtins() []*Preset {
	return []*Preset{
		{
			Name:          "classic",
			Description:   "20x20 mixed terrain, standard energy budget",
			Size:          20,
			InitialEnergy: 100,
			Algorithm:     string(planner.AStar),
		},
		{
			Name:          "dunes",
			Description:   "30x30 grid with an energy-efficient planner for sandy crossings",
			Size:          30,
			InitialEnergy: 120,
			Algorithm:     string(planner.EnergyEfficient),
		},
		{
			Name:          "boulder_field",
			Description:   "40x40 grid, tight energy budget over rocky ground",
			Size:          40,
			InitialEnergy: 90,
			Algorithm:     string(planner.Dijkstra),
		},
	}
}

// LoadPreset returns a preset by name (case-insensitive), preferring
// files on disk over cache over built-ins.
func (m *Manager) LoadPreset(name string) (*Preset, error) {
	key := strings.ToLower(strings.TrimSuffix(name, ".json"))

	m.mu.RLock()
	if p, ok := m.presets[key]; ok {
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	path := filepath.Join(m.presetDir, key+".json")
	if data, err := os.ReadFile(path); err == nil {
		var preset Preset
		if err := json.Unmarshal(data, &preset); err != nil {
			return nil, fmt.Errorf("failed to parse preset %q: %w", name, err)
		}
		if err := Validate(&preset); err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.presets[key] = &preset
		m.mu.Unlock()
		return &preset, nil
	}

	for _, p := range builtins() {
		if strings.EqualFold(p.Name, key) {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
}

// ListPresets returns all presets: files on disk plus built-ins not
// shadowed by a file of the same name.
func (m *Manager) ListPresets() ([]*Preset, error) {
	seen := make(map[string]bool)
	var out []*Preset

	entries, err := os.ReadDir(m.presetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		preset, err := m.LoadPreset(name)
		if err != nil {
			continue // skip unreadable files, keep listing
		}
		seen[strings.ToLower(preset.Name)] = true
		out = append(out, preset)
	}

	for _, p := range builtins() {
		if !seen[strings.ToLower(p.Name)] {
			out = append(out, p)
		}
	}

	return out, nil
}

// SavePreset validates and writes a preset to disk, replacing any
// cached copy.
func (m *Manager) SavePreset(name string, preset *Preset) error {
	if err := Validate(preset); err != nil {
		return err
	}

	key := strings.ToLower(strings.TrimSuffix(name, ".json"))
	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	path := filepath.Join(m.presetDir, key+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}

	m.mu.Lock()
	m.presets[key] = preset
	m.mu.Unlock()
	return nil
}
