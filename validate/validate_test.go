package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roversim/mars-rover-sim/sim/config"
	"github.com/roversim/mars-rover-sim/sim/planner"
)

func writePreset(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp(t.TempDir(), "test_preset_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write preset: %v", err)
	}
	tmpfile.Close()
	return tmpfile.Name()
}

func hasError(result ValidationResult, substr string) bool {
	for _, err := range result.Errors {
		if strings.Contains(err, substr) {
			return true
		}
	}
	return false
}

func TestValidatePreset_ValidPreset(t *testing.T) {
	validPreset := `{
		"name": "test",
		"description": "Test preset",
		"size": 20,
		"initial_energy": 100,
		"algorithm": "A*"
	}`

	file := writePreset(t, validPreset)

	result := validatePreset(file)
	if !result.Valid {
		t.Errorf("Expected valid preset, but got errors: %v", result.Errors)
	}

	if result.File != filepath.Base(file) {
		t.Errorf("Expected file name %s, got %s", filepath.Base(file), result.File)
	}
}

func TestValidatePreset_PinnedSeed(t *testing.T) {
	preset := `{
		"name": "pinned",
		"description": "Pinned seed preset",
		"size": 20,
		"seed": 42,
		"initial_energy": 120,
		"algorithm": "Dijkstra"
	}`

	file := writePreset(t, preset)

	result := validatePreset(file)
	if !result.Valid {
		t.Errorf("Expected valid preset, but got errors: %v", result.Errors)
	}
	if !hasError(result, "Pinned seed: 42") {
		t.Errorf("Expected pinned seed in report, got: %v", result.Errors)
	}
}

func TestValidatePreset_InvalidJSON(t *testing.T) {
	file := writePreset(t, `{"name": "test", invalid json}`)

	result := validatePreset(file)
	if result.Valid {
		t.Error("Expected invalid preset due to bad JSON")
	}
	if !hasError(result, "Invalid JSON") {
		t.Error("Expected 'Invalid JSON' error")
	}
}

func TestValidatePreset_MissingFile(t *testing.T) {
	result := validatePreset("/non/existent/preset.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if !hasError(result, "Failed to read file") {
		t.Error("Expected 'Failed to read file' error")
	}
}

func TestValidatePreset_SizeTooSmall(t *testing.T) {
	preset := `{
		"name": "tiny",
		"size": 5,
		"initial_energy": 100,
		"algorithm": "A*"
	}`

	file := writePreset(t, preset)

	result := validatePreset(file)
	if result.Valid {
		t.Error("Expected invalid preset due to undersized grid")
	}
	if !hasError(result, "size") {
		t.Errorf("Expected size error, got: %v", result.Errors)
	}
}

func TestValidatePreset_InvalidEnergy(t *testing.T) {
	preset := `{
		"name": "drained",
		"size": 20,
		"initial_energy": 0,
		"algorithm": "A*"
	}`

	file := writePreset(t, preset)

	result := validatePreset(file)
	if result.Valid {
		t.Error("Expected invalid preset due to non-positive energy")
	}
	if !hasError(result, "initial_energy") {
		t.Errorf("Expected energy error, got: %v", result.Errors)
	}
}

func TestValidatePreset_UnknownAlgorithm(t *testing.T) {
	preset := `{
		"name": "bogus",
		"size": 20,
		"initial_energy": 100,
		"algorithm": "BFS"
	}`

	file := writePreset(t, preset)

	result := validatePreset(file)
	if result.Valid {
		t.Error("Expected invalid preset due to unknown algorithm")
	}
}

func TestProbeSolvability_PinnedSeed(t *testing.T) {
	// Generated terrain always admits a start-to-goal route, so any
	// pinned seed should probe clean.
	result := ValidationResult{Errors: []string{}}
	preset := &config.Preset{
		Name:          "probe",
		Size:          20,
		Seed:          7,
		InitialEnergy: 100,
		Algorithm:     "A*",
	}

	solvable, probed := probeSolvability(preset, planner.AStar, &result)
	if !solvable {
		t.Errorf("Expected solvable terrain, got errors: %v", result.Errors)
	}
	if probed != 1 {
		t.Errorf("Expected 1 probed seed for pinned preset, got %d", probed)
	}
}

func TestProbeSolvability_FreshSeeds(t *testing.T) {
	result := ValidationResult{Errors: []string{}}
	preset := &config.Preset{
		Name:          "probe",
		Size:          20,
		InitialEnergy: 100,
		Algorithm:     "Dijkstra",
	}

	solvable, probed := probeSolvability(preset, planner.Dijkstra, &result)
	if !solvable {
		t.Errorf("Expected solvable terrain, got errors: %v", result.Errors)
	}
	if probed != probeSeeds {
		t.Errorf("Expected %d probed seeds, got %d", probeSeeds, probed)
	}
}
