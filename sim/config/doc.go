// Package config manages named simulation presets.
//
// Presets are JSON files (grid size, seed, energy budget, algorithm)
// loaded from a directory and cached; three built-in presets are always
// available even with an empty directory. The CONFIG_DIR environment
// variable relocates the directory without code changes.
package config
