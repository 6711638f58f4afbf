package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roversim/mars-rover-sim/sim/config"
	"github.com/roversim/mars-rover-sim/sim/mission"
	"github.com/roversim/mars-rover-sim/sim/service"
	"github.com/roversim/mars-rover-sim/sim/session"
	"github.com/roversim/mars-rover-sim/transport/websocket"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	presets, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	svc := service.NewSimService(session.NewManager(), presets)

	hub := websocket.NewHub()
	go hub.Run()

	return NewServer(svc, hub)
}

// doJSON issues a request with an optional JSON body and decodes the
// JSON response into out when out is non-nil.
func doJSON(t *testing.T, srv *Server, method, path string, body, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if out != nil && rec.Code < 400 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("Decode response failed: %v (body %s)", err, rec.Body.String())
		}
	}
	return rec
}

func createSession(t *testing.T, srv *Server) string {
	t.Helper()

	var info service.SessionInfo
	rec := doJSON(t, srv, "POST", "/api/sessions", map[string]string{}, &info)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create session: status %d, body %s", rec.Code, rec.Body.String())
	}
	return info.ID
}

func TestCreateSessionEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var info service.SessionInfo
	rec := doJSON(t, srv, "POST", "/api/sessions", map[string]string{"preset": "dunes"}, &info)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Status = %d, want 201", rec.Code)
	}
	if info.PresetName != "dunes" {
		t.Errorf("PresetName = %q, want dunes", info.PresetName)
	}
	if info.State == nil || len(info.State.Grid) != 30 {
		t.Error("Expected a 30x30 snapshot in the response")
	}
}

func TestCreateSessionUnknownPreset(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/sessions", map[string]string{"preset": "atacama"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", rec.Code)
	}
}

func TestListSessionsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	createSession(t, srv)
	createSession(t, srv)

	var resp struct {
		Sessions []service.SessionInfo `json:"sessions"`
		Count    int                   `json:"count"`
	}
	rec := doJSON(t, srv, "GET", "/api/sessions", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if resp.Count != 2 || len(resp.Sessions) != 2 {
		t.Errorf("Count = %d with %d sessions, want 2", resp.Count, len(resp.Sessions))
	}
}

func TestGetAndDeleteSessionEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec := doJSON(t, srv, "GET", "/api/sessions/"+id, nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Get: status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, srv, "DELETE", "/api/sessions/"+id, nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Delete: status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, srv, "GET", "/api/sessions/"+id, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Get after delete: status = %d, want 404", rec.Code)
	}
}

func TestTickEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	var resp service.TickResponse
	rec := doJSON(t, srv, "POST", fmt.Sprintf("/api/sessions/%s/tick", id), nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !resp.Moved {
		t.Error("Expected the first tick to move")
	}
}

func TestBulkTickEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	var resp service.BulkTickResult
	rec := doJSON(t, srv, "POST", fmt.Sprintf("/api/sessions/%s/bulk-tick", id),
		map[string]int{"steps": 10}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %s", rec.Code, rec.Body.String())
	}
	if resp.StepsExecuted == 0 {
		t.Error("Expected steps to execute")
	}

	rec = doJSON(t, srv, "POST", fmt.Sprintf("/api/sessions/%s/bulk-tick", id),
		map[string]int{"steps": -1}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Negative steps: status = %d, want 400", rec.Code)
	}
}

func TestStateEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	var state mission.Snapshot
	rec := doJSON(t, srv, "GET", fmt.Sprintf("/api/sessions/%s/state", id), nil, &state)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if len(state.Grid) != 20 {
		t.Errorf("Grid rows = %d, want 20", len(state.Grid))
	}
	if state.Plan == nil {
		t.Error("Expected an initial plan in the state")
	}
}

func TestStartStopEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	var resp map[string]bool
	rec := doJSON(t, srv, "POST", fmt.Sprintf("/api/sessions/%s/start-stop", id), nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if !resp["running"] {
		t.Error("Expected running after toggle")
	}
}

func TestResetEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	doJSON(t, srv, "POST", fmt.Sprintf("/api/sessions/%s/bulk-tick", id),
		map[string]int{"steps": 5}, nil)

	var state mission.Snapshot
	rec := doJSON(t, srv, "POST", fmt.Sprintf("/api/sessions/%s/reset", id), nil, &state)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if state.Rover.TotalDistance != 0 {
		t.Errorf("TotalDistance = %d, want 0 after reset", state.Rover.TotalDistance)
	}
}

func TestReplanEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	var resp service.ReplanResult
	rec := doJSON(t, srv, "POST", fmt.Sprintf("/api/sessions/%s/replan", id),
		map[string]string{"algorithm": "dijkstra"}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !resp.Found {
		t.Error("Expected the replan to find a route")
	}

	rec = doJSON(t, srv, "POST", fmt.Sprintf("/api/sessions/%s/replan", id),
		map[string]string{"algorithm": "BFS"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Unknown algorithm: status = %d, want 400", rec.Code)
	}
}

func TestReportAndTelemetryEndpoints(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	doJSON(t, srv, "POST", fmt.Sprintf("/api/sessions/%s/bulk-tick", id),
		map[string]int{"steps": service.MaxBulkSteps}, nil)

	var report service.Report
	rec := doJSON(t, srv, "GET", fmt.Sprintf("/api/sessions/%s/report", id), nil, &report)
	if rec.Code != http.StatusOK {
		t.Fatalf("Report: status = %d, want 200", rec.Code)
	}
	if report.Performance.TotalMissions != 1 {
		t.Errorf("TotalMissions = %d, want 1", report.Performance.TotalMissions)
	}

	rec = doJSON(t, srv, "GET", fmt.Sprintf("/api/sessions/%s/telemetry", id), nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Telemetry: status = %d, want 200", rec.Code)
	}
}

func TestPresetsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var resp struct {
		Presets []config.Preset `json:"presets"`
	}
	rec := doJSON(t, srv, "GET", "/api/presets", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if len(resp.Presets) != 3 {
		t.Errorf("Got %d presets, want the 3 built-ins", len(resp.Presets))
	}

	custom := config.Preset{
		Name:          "crater_rim",
		Size:          25,
		InitialEnergy: 110,
		Algorithm:     "A*",
	}
	rec = doJSON(t, srv, "POST", "/api/presets", custom, nil)
	if rec.Code != http.StatusCreated {
		t.Errorf("Save preset: status = %d, want 201", rec.Code)
	}

	bad := config.Preset{Name: "bad", Size: 2, InitialEnergy: 1, Algorithm: "A*"}
	rec = doJSON(t, srv, "POST", "/api/presets", bad, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Invalid preset: status = %d, want 400", rec.Code)
	}
}

func TestAlgorithmsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var resp struct {
		Algorithms []string `json:"algorithms"`
	}
	rec := doJSON(t, srv, "GET", "/api/algorithms", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if len(resp.Algorithms) != 3 {
		t.Errorf("Got %v, want the 3 variants", resp.Algorithms)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/sessions/nope"},
		{"GET", "/api/sessions/nope/state"},
		{"POST", "/api/sessions/nope/tick"},
	} {
		rec := doJSON(t, srv, tc.method, tc.path, nil, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", tc.method, tc.path, rec.Code)
		}
	}
}
