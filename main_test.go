package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedVersion := "1.0.0"
	if Version != expectedVersion {
		t.Errorf("Expected version %s, got %s", expectedVersion, Version)
	}

	expectedAppName := "Mars Rover Simulator Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestGetPresetDirDefault(t *testing.T) {
	t.Setenv("PRESET_DIR", "")
	if dir := getPresetDirDefault(); dir != "presets" {
		t.Errorf("Expected default preset dir 'presets', got %s", dir)
	}

	t.Setenv("PRESET_DIR", "/opt/rover/presets")
	if dir := getPresetDirDefault(); dir != "/opt/rover/presets" {
		t.Errorf("Expected preset dir from environment, got %s", dir)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}
	if *host == "" {
		t.Error("Host should have a default value")
	}
	if *presetDir == "" {
		t.Error("Preset directory should have a default value")
	}
}

func TestInitializeServices(t *testing.T) {
	originalPresetDir := *presetDir
	*presetDir = t.TempDir()
	defer func() { *presetDir = originalPresetDir }()

	simService, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if simService == nil {
		t.Fatal("Expected simulation service to be initialized")
	}
}

func TestInitializeServices_InvalidPresetDir(t *testing.T) {
	// Point the preset dir under a regular file so MkdirAll must fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create blocker file: %v", err)
	}

	originalPresetDir := *presetDir
	*presetDir = filepath.Join(blocker, "presets")
	defer func() { *presetDir = originalPresetDir }()

	if _, err := initializeServices(); err == nil {
		t.Error("Expected error when the preset directory cannot be created")
	}
}
