// Command validate provides a small CLI that validates simulation preset
// JSON files in the ../presets directory. It checks:
//   - JSON structure and required fields
//   - Grid size and energy bounds
//   - That the algorithm names a known pathfinding variant
//   - Solvability: the generated terrain admits a route from start to
//     goal under the preset's algorithm (probed over a few seeds when
//     the preset does not pin one)
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roversim/mars-rover-sim/sim/config"
	"github.com/roversim/mars-rover-sim/sim/planner"
	"github.com/roversim/mars-rover-sim/sim/terrain"
)

// probeSeeds is how many seeds to try when a preset draws a fresh seed
// per mission.
const probeSeeds = 5

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validatePreset loads and validates a single preset JSON file.
func validatePreset(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var preset config.Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if preset.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing preset name")
	}

	if err := config.Validate(&preset); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	variant, err := planner.ParseVariant(preset.Algorithm)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Unknown algorithm %q", preset.Algorithm))
		return result
	}

	solvable, probed := probeSolvability(&preset, variant, &result)
	if !solvable {
		result.Valid = false
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", preset.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", preset.Size, preset.Size))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Energy: %.0f", preset.InitialEnergy))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Algorithm: %s", variant))
		if preset.Seed != 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Pinned seed: %d", preset.Seed))
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Solvability: %d/%d probed seeds routable", probed, probed))
	}

	return result
}

// probeSolvability generates terrain for the preset and checks a route
// exists. A pinned seed is probed once; otherwise a handful of seeds.
func probeSolvability(preset *config.Preset, variant planner.Variant, result *ValidationResult) (bool, int) {
	seeds := []int64{preset.Seed}
	if preset.Seed == 0 {
		seeds = seeds[:0]
		for s := int64(1); s <= probeSeeds; s++ {
			seeds = append(seeds, s)
		}
	}

	for _, seed := range seeds {
		grid, err := terrain.Generate(preset.Size, seed)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Generation failed (seed %d): %v", seed, err))
			return false, len(seeds)
		}

		plan, err := planner.FindPath(grid, grid.Start(), grid.Goal(), variant)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Planning failed (seed %d): %v", seed, err))
			return false, len(seeds)
		}
		if plan == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("No route from start to goal (seed %d)", seed))
			return false, len(seeds)
		}
	}

	return true, len(seeds)
}

// main scans ../presets for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	presetDir := "../presets"
	if len(os.Args) > 1 {
		presetDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(presetDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding preset files: %v\n", err)
		os.Exit(1)
	}

	if len(files) == 0 {
		fmt.Printf("No preset files found in %s\n", presetDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validatePreset(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All presets are valid!")
	} else {
		fmt.Println("❌ Some presets have errors")
		os.Exit(1)
	}
}
