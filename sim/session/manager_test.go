package session

import (
	"errors"
	"testing"
	"time"

	"github.com/roversim/mars-rover-sim/sim/mission"
	"github.com/roversim/mars-rover-sim/sim/planner"
)

func testMissionParams() mission.Params {
	return mission.Params{
		Size:          12,
		Seed:          3,
		InitialEnergy: 200,
		Algorithm:     planner.AStar,
		PinSeed:       true,
	}
}

func TestCreateAndGetSession(t *testing.T) {
	m := NewManager()

	s, err := m.Create("alpha", "classic", testMissionParams())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if s.ID != "alpha" {
		t.Errorf("ID = %q, want alpha", s.ID)
	}
	if s.Controller == nil {
		t.Fatal("Expected a controller")
	}

	got, err := m.Get("alpha")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}

	// Lookup is case-insensitive.
	if _, err := m.Get("ALPHA"); err != nil {
		t.Errorf("Case-insensitive Get failed: %v", err)
	}

	if _, err := m.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Got %v, want ErrSessionNotFound", err)
	}
}

func TestCreateGeneratesID(t *testing.T) {
	m := NewManager()

	s, err := m.Create("", "classic", testMissionParams())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(s.ID) != 8 {
		t.Errorf("Generated id %q, want 8 characters", s.ID)
	}
}

func TestCreateDuplicate(t *testing.T) {
	m := NewManager()
	if _, err := m.Create("alpha", "classic", testMissionParams()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := m.Create("Alpha", "classic", testMissionParams()); !errors.Is(err, ErrSessionAlreadyExists) {
		t.Errorf("Got %v, want ErrSessionAlreadyExists", err)
	}
}

func TestDeleteSession(t *testing.T) {
	m := NewManager()
	m.Create("alpha", "classic", testMissionParams())

	if err := m.Delete("alpha"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get("alpha"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected session to be gone")
	}
	if err := m.Delete("alpha"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Got %v, want ErrSessionNotFound", err)
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	m := NewManager()
	stale, _ := m.Create("stale", "classic", testMissionParams())
	stale.LastAccessedAt = time.Now().Add(-48 * time.Hour)
	m.Create("fresh", "classic", testMissionParams())

	removed := m.CleanupExpiredSessions(24 * time.Hour)
	if removed != 1 {
		t.Errorf("Removed %d sessions, want 1", removed)
	}
	if m.Count() != 1 {
		t.Errorf("Count = %d, want 1", m.Count())
	}
	if _, err := m.Get("fresh"); err != nil {
		t.Errorf("Fresh session removed: %v", err)
	}
}

func TestUpdateLastAccessed(t *testing.T) {
	m := NewManager()
	s, _ := m.Create("alpha", "classic", testMissionParams())
	before := s.LastAccessedAt

	time.Sleep(time.Millisecond)
	if err := m.UpdateLastAccessed("alpha"); err != nil {
		t.Fatalf("UpdateLastAccessed failed: %v", err)
	}
	if !s.LastAccessedAt.After(before) {
		t.Error("LastAccessedAt did not advance")
	}
}

func TestFilePersistenceRoundTrip(t *testing.T) {
	fp, err := NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	m := NewManagerWithPersistence(fp)
	s, err := m.Create("rover-1", "classic", testMissionParams())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Run one mission so the persisted file carries telemetry.
	if err := s.Controller.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for i := 0; i < 10000; i++ {
		result, err := s.Controller.Tick()
		if err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
		if result.Ended {
			break
		}
	}
	if err := m.Save("rover-1"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh manager over the same store rebuilds the session.
	m2 := NewManagerWithPersistence(fp)
	loaded, err := m2.Get("rover-1")
	if err != nil {
		t.Fatalf("Get from persistence failed: %v", err)
	}

	snap := loaded.Controller.Snapshot()
	if snap.Seed != 3 {
		t.Errorf("Seed = %d, want the persisted 3", snap.Seed)
	}
	if snap.Rover.Energy != 200 {
		t.Errorf("Energy = %v, want a fresh budget on restore", snap.Rover.Energy)
	}
	if len(loaded.Controller.Recorder().History()) != 1 {
		t.Errorf("History length = %d, want the persisted mission", len(loaded.Controller.Recorder().History()))
	}

	// The terrain is reproduced exactly from the seed.
	orig := s.Controller.Grid()
	rebuilt := loaded.Controller.Grid()
	if orig.CountCells("obstacle") != rebuilt.CountCells("obstacle") {
		t.Error("Rebuilt terrain differs from the original")
	}
}

func TestLoadPersistedSessions(t *testing.T) {
	dir := t.TempDir()
	fp, err := NewFilePersistence(dir)
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	m := NewManagerWithPersistence(fp)
	m.Create("a", "classic", testMissionParams())
	m.Create("b", "dunes", testMissionParams())

	m2 := NewManagerWithPersistence(fp)
	if err := m2.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions failed: %v", err)
	}
	if m2.Count() != 2 {
		t.Errorf("Count = %d, want 2", m2.Count())
	}
}

func TestFilePersistenceDelete(t *testing.T) {
	fp, err := NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	m := NewManagerWithPersistence(fp)
	m.Create("gone", "classic", testMissionParams())

	if !fp.Exists("gone") {
		t.Fatal("Expected session file on disk")
	}
	if err := m.Delete("gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fp.Exists("gone") {
		t.Error("Expected session file to be removed")
	}

	if err := fp.Delete("never"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Got %v, want ErrSessionNotFound", err)
	}
}

func TestDeleteFromMemoryKeepsFile(t *testing.T) {
	fp, err := NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	m := NewManagerWithPersistence(fp)
	m.Create("kept", "classic", testMissionParams())

	if err := m.DeleteFromMemory("kept"); err != nil {
		t.Fatalf("DeleteFromMemory failed: %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("Count = %d, want 0", m.Count())
	}
	if !fp.Exists("kept") {
		t.Error("Expected the persisted file to survive")
	}

	// Get falls back to the file and reloads it.
	if _, err := m.Get("kept"); err != nil {
		t.Errorf("Reload from file failed: %v", err)
	}
}
