package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/roversim/mars-rover-sim/sim/config"
	"github.com/roversim/mars-rover-sim/sim/planner"
	"github.com/roversim/mars-rover-sim/sim/rover"
	"github.com/roversim/mars-rover-sim/sim/service"
	"github.com/roversim/mars-rover-sim/sim/session"
)

func newTestService(t *testing.T) service.SimService {
	t.Helper()

	presets, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return service.NewSimService(session.NewManager(), presets)
}

func TestCreateSessionDefaultPreset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.PresetName != "classic" {
		t.Errorf("PresetName = %q, want classic", info.PresetName)
	}
	if info.State == nil || info.State.Plan == nil {
		t.Fatal("Expected a snapshot with an initial plan")
	}
	if info.State.Rover.Status != rover.Idle {
		t.Errorf("Status = %s, want %s", info.State.Rover.Status, rover.Idle)
	}
}

func TestCreateSessionNamedPreset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "dunes")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.State.Params.Algorithm != planner.EnergyEfficient {
		t.Errorf("Algorithm = %s, want %s", info.State.Params.Algorithm, planner.EnergyEfficient)
	}
}

func TestCreateSessionUnknownPresetListsAvailable(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateSession(context.Background(), "atacama")
	if err == nil {
		t.Fatal("Expected an error for an unknown preset")
	}
	if !strings.Contains(err.Error(), "classic") {
		t.Errorf("Error %q should list available presets", err)
	}
}

func TestTickAutoStarts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// A single tick on a fresh session opens a mission and moves.
	resp, err := svc.Tick(ctx, info.ID)
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if !resp.Moved {
		t.Error("Expected the first tick to move")
	}
	if resp.Status != rover.Moving {
		t.Errorf("Status = %s, want %s", resp.Status, rover.Moving)
	}
}

func TestBulkTickRunsMissionToEnd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	result, err := svc.BulkTick(ctx, info.ID, service.MaxBulkSteps)
	if err != nil {
		t.Fatalf("BulkTick failed: %v", err)
	}
	if !result.Ended {
		t.Fatalf("Expected the mission to end within %d steps, status %s",
			service.MaxBulkSteps, result.Status)
	}
	if result.Record == nil {
		t.Error("Expected a mission record")
	}
	if result.StepsExecuted > result.RequestedSteps {
		t.Errorf("Executed %d steps, requested %d", result.StepsExecuted, result.RequestedSteps)
	}
	if result.EndEnergy >= result.StartEnergy {
		t.Errorf("Energy did not decrease: %v -> %v", result.StartEnergy, result.EndEnergy)
	}
}

func TestBulkTickValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	if _, err := svc.BulkTick(ctx, info.ID, 0); err == nil {
		t.Error("Expected error for zero steps")
	}

	result, err := svc.BulkTick(ctx, info.ID, service.MaxBulkSteps+100)
	if err != nil {
		t.Fatalf("BulkTick failed: %v", err)
	}
	if !result.Truncated {
		t.Error("Expected oversized request to be truncated")
	}
	if result.RequestedSteps != service.MaxBulkSteps {
		t.Errorf("RequestedSteps = %d, want the cap %d", result.RequestedSteps, service.MaxBulkSteps)
	}
}

func TestStartStop(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	running, err := svc.StartStop(ctx, info.ID)
	if err != nil {
		t.Fatalf("StartStop failed: %v", err)
	}
	if !running {
		t.Error("Expected running after first toggle")
	}

	running, err = svc.StartStop(ctx, info.ID)
	if err != nil {
		t.Fatalf("StartStop failed: %v", err)
	}
	if running {
		t.Error("Expected stopped after second toggle")
	}
}

func TestResetKeepsTelemetry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	if _, err := svc.BulkTick(ctx, info.ID, service.MaxBulkSteps); err != nil {
		t.Fatalf("BulkTick failed: %v", err)
	}

	snap, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if snap.Rover.Status != rover.Idle {
		t.Errorf("Status = %s, want %s", snap.Rover.Status, rover.Idle)
	}

	records, err := svc.GetTelemetry(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetTelemetry failed: %v", err)
	}
	if len(records) == 0 {
		t.Error("Expected telemetry to survive the reset")
	}
}

func TestReplan(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	result, err := svc.Replan(ctx, info.ID, "dijkstra")
	if err != nil {
		t.Fatalf("Replan failed: %v", err)
	}
	if !result.Found || result.Plan == nil {
		t.Fatal("Expected the replan to find a route")
	}
	if result.Algorithm != planner.Dijkstra {
		t.Errorf("Algorithm = %s, want %s", result.Algorithm, planner.Dijkstra)
	}

	if _, err := svc.Replan(ctx, info.ID, "BFS"); err == nil {
		t.Error("Expected error for an unknown algorithm")
	}
}

func TestDeleteSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	if err := svc.DeleteSession(ctx, info.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, info.ID); err == nil {
		t.Error("Expected the session to be gone")
	}
}

func TestGetReport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	if _, err := svc.BulkTick(ctx, info.ID, service.MaxBulkSteps); err != nil {
		t.Fatalf("BulkTick failed: %v", err)
	}

	report, err := svc.GetReport(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if report.Performance.TotalMissions != 1 {
		t.Errorf("TotalMissions = %d, want 1", report.Performance.TotalMissions)
	}
	if len(report.Missions) != 1 {
		t.Errorf("Missions = %d, want 1", len(report.Missions))
	}
}

func TestListAndSavePresets(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	presets, err := svc.ListPresets(ctx)
	if err != nil {
		t.Fatalf("ListPresets failed: %v", err)
	}
	if len(presets) != 3 {
		t.Errorf("Got %d presets, want the 3 built-ins", len(presets))
	}

	custom := &config.Preset{
		Name:          "crater_rim",
		Size:          25,
		InitialEnergy: 110,
		Algorithm:     "A*",
	}
	if err := svc.SavePreset(ctx, "crater_rim", custom); err != nil {
		t.Fatalf("SavePreset failed: %v", err)
	}

	if _, err := svc.CreateSession(ctx, "crater_rim"); err != nil {
		t.Errorf("CreateSession with saved preset failed: %v", err)
	}
}
