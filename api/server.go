package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/roversim/mars-rover-sim/sim/config"
	"github.com/roversim/mars-rover-sim/sim/planner"
	"github.com/roversim/mars-rover-sim/sim/service"
	"github.com/roversim/mars-rover-sim/sim/session"
	"github.com/roversim/mars-rover-sim/sim/terrain"
	"github.com/roversim/mars-rover-sim/transport/websocket"
)

// Server is the REST API server.
type Server struct {
	service service.SimService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server over the simulation service.
func NewServer(simService service.SimService, hub *websocket.Hub) *Server {
	s := &Server{
		service: simService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Simulation operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/sessions/{id}/tick", s.handleTick).Methods("POST")
	api.HandleFunc("/sessions/{id}/bulk-tick", s.handleBulkTick).Methods("POST")
	api.HandleFunc("/sessions/{id}/start-stop", s.handleStartStop).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/replan", s.handleReplan).Methods("POST")
	api.HandleFunc("/sessions/{id}/report", s.handleGetReport).Methods("GET")
	api.HandleFunc("/sessions/{id}/telemetry", s.handleGetTelemetry).Methods("GET")

	// Presets
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	api.HandleFunc("/presets", s.handleSavePreset).Methods("POST")

	// Algorithms
	api.HandleFunc("/algorithms", s.handleListAlgorithms).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes. Out-of-bounds
// coordinates and unknown algorithm names are caller mistakes, not
// server failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, terrain.ErrOutOfBounds), errors.Is(err, planner.ErrUnknownAlgorithm),
		errors.Is(err, config.ErrPresetNotFound), errors.Is(err, config.ErrInvalidPreset):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Session handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Preset string `json:"preset,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	info, err := s.service.CreateSession(r.Context(), req.Preset)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	order := query.Get("order") // "asc" or "desc" (default)
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		ti, tj := sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 && limit < len(sessions) {
			sessions = sessions[:limit]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// Simulation handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	state, err := s.service.GetState(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := s.service.Tick(r.Context(), id)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcastState(r, id)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBulkTick(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Steps int `json:"steps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Steps <= 0 {
		respondError(w, http.StatusBadRequest, "steps must be positive")
		return
	}

	result, err := s.service.BulkTick(r.Context(), id, req.Steps)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcastState(r, id)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleStartStop(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	running, err := s.service.StartStop(r.Context(), id)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"running": running})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), id)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcastState(r, id)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleReplan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Algorithm string `json:"algorithm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := s.service.Replan(r.Context(), id, req.Algorithm)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcastState(r, id)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	report, err := s.service.GetReport(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetTelemetry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	records, err := s.service.GetTelemetry(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"missions":    records,
		"count":       len(records),
		"exported_at": time.Now(),
	})
}

// Preset handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"presets": presets,
		"count":   len(presets),
	})
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	var preset config.Preset
	if err := json.NewDecoder(r.Body).Decode(&preset); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.service.SavePreset(r.Context(), preset.Name, &preset); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, preset)
}

func (s *Server) handleListAlgorithms(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"algorithms": planner.Variants,
	})
}

// WebSocket handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session query parameter is required")
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// broadcastState pushes the current snapshot to WebSocket viewers.
func (s *Server) broadcastState(r *http.Request, sessionID string) {
	if s.hub == nil {
		return
	}
	state, err := s.service.GetState(r.Context(), sessionID)
	if err != nil {
		return
	}
	s.hub.BroadcastState(sessionID, state)
}
