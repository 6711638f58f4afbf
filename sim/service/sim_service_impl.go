package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/roversim/mars-rover-sim/sim/config"
	"github.com/roversim/mars-rover-sim/sim/mission"
	"github.com/roversim/mars-rover-sim/sim/planner"
	"github.com/roversim/mars-rover-sim/sim/telemetry"
)

// MaxBulkSteps caps how many ticks one BulkTick call may execute.
const MaxBulkSteps = 500

// simServiceImpl implements the SimService interface.
type simServiceImpl struct {
	sessions SessionManager
	presets  PresetManager
	mu       sync.RWMutex
}

// NewSimService creates a simulation service over the given managers.
func NewSimService(sessions SessionManager, presets PresetManager) SimService {
	return &simServiceImpl{
		sessions: sessions,
		presets:  presets,
	}
}

// CreateSession builds a new simulation session from a preset. An empty
// preset name uses the default preset.
func (s *simServiceImpl) CreateSession(ctx context.Context, presetName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var preset *config.Preset
	if presetName != "" {
		p, err := s.presets.LoadPreset(presetName)
		if err != nil {
			if errors.Is(err, config.ErrPresetNotFound) {
				available, listErr := s.presets.ListPresets()
				if listErr == nil && len(available) > 0 {
					names := make([]string, 0, len(available))
					for _, a := range available {
						names = append(names, a.Name)
					}
					return nil, fmt.Errorf("%w: %q, available presets: %v", config.ErrPresetNotFound, presetName, names)
				}
			}
			return nil, fmt.Errorf("failed to load preset %q: %w", presetName, err)
		}
		preset = p
	} else {
		preset = s.presets.GetDefault()
	}

	params, err := preset.Params()
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create("", preset.Name, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(session), nil
}

// GetSession retrieves session information.
func (s *simServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions.
func (s *simServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session.
func (s *simServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Tick advances a session one step. An idle, stopped simulation is
// started implicitly so the first tick of a mission needs no separate
// start call.
func (s *simServiceImpl) Tick(ctx context.Context, sessionID string) (*TickResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result, err := s.tickOnce(session.Controller)
	if err != nil {
		return nil, err
	}

	if result.Ended {
		s.sessions.Save(sessionID)
	}

	return &TickResponse{
		Moved:  result.Moved,
		Status: result.Status,
		Rover:  result.Rover,
		Ended:  result.Ended,
		Record: result.Record,
	}, nil
}

// tickOnce starts the controller when needed and executes one tick.
func (s *simServiceImpl) tickOnce(c *mission.Controller) (*mission.TickResult, error) {
	if !c.Running() {
		if err := c.Start(); err != nil {
			return nil, err
		}
	}
	return c.Tick()
}

// BulkTick advances a session up to steps ticks, stopping early when
// the mission ends.
func (s *simServiceImpl) BulkTick(ctx context.Context, sessionID string, steps int) (*BulkTickResult, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	truncated := false
	if steps > MaxBulkSteps {
		steps = MaxBulkSteps
		truncated = true
	}

	c := session.Controller
	result := &BulkTickResult{
		RequestedSteps: steps,
		StartEnergy:    c.Rover().Energy(),
		Truncated:      truncated,
		Limit:          MaxBulkSteps,
	}

	var last *mission.TickResult
	for i := 0; i < steps; i++ {
		tick, err := s.tickOnce(c)
		if err != nil {
			return nil, err
		}
		last = tick
		result.StepsExecuted++
		if tick.Ended {
			break
		}
	}

	if last != nil {
		result.Ended = last.Ended
		result.Status = last.Status
		result.Rover = last.Rover
		result.Record = last.Record
	}
	result.EndEnergy = c.Rover().Energy()

	if result.Ended {
		s.sessions.Save(sessionID)
	}

	return result, nil
}

// StartStop toggles the tick gate and returns the new running state.
func (s *simServiceImpl) StartStop(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return false, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := session.Controller.Toggle(); err != nil {
		return false, err
	}
	return session.Controller.Running(), nil
}

// Reset regenerates the session's simulation and returns the fresh
// state. Telemetry history survives the reset.
func (s *simServiceImpl) Reset(ctx context.Context, sessionID string) (*mission.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := session.Controller.Reset(); err != nil {
		return nil, fmt.Errorf("failed to reset simulation: %w", err)
	}
	s.sessions.Save(sessionID)

	snapshot := session.Controller.Snapshot()
	return &snapshot, nil
}

// Replan recomputes the route under a different algorithm.
func (s *simServiceImpl) Replan(ctx context.Context, sessionID, algorithm string) (*ReplanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	variant, err := planner.ParseVariant(algorithm)
	if err != nil {
		return nil, err
	}

	plan, err := session.Controller.Replan(variant)
	if err != nil {
		return nil, err
	}

	return &ReplanResult{
		Algorithm: variant,
		Found:     plan != nil,
		Plan:      plan,
	}, nil
}

// GetState returns the full simulation snapshot.
func (s *simServiceImpl) GetState(ctx context.Context, sessionID string) (*mission.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	snapshot := session.Controller.Snapshot()
	return &snapshot, nil
}

// GetReport aggregates telemetry and live efficiency metrics.
func (s *simServiceImpl) GetReport(ctx context.Context, sessionID string) (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return &Report{
		Performance: session.Controller.Recorder().PerformanceMetrics(),
		Efficiency:  session.Controller.Rover().Metrics(),
		Missions:    session.Controller.Recorder().History(),
	}, nil
}

// GetTelemetry returns the session's mission records.
func (s *simServiceImpl) GetTelemetry(ctx context.Context, sessionID string) ([]telemetry.MissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	return session.Controller.Recorder().History(), nil
}

// ListPresets returns all available presets.
func (s *simServiceImpl) ListPresets(ctx context.Context) ([]*config.Preset, error) {
	return s.presets.ListPresets()
}

// SavePreset validates and stores a preset.
func (s *simServiceImpl) SavePreset(ctx context.Context, name string, preset *config.Preset) error {
	return s.presets.SavePreset(name, preset)
}

// sessionInfo assembles the transport view of a session.
func (s *simServiceImpl) sessionInfo(session *Session) *SessionInfo {
	snapshot := session.Controller.Snapshot()
	return &SessionInfo{
		ID:             session.ID,
		PresetName:     session.PresetName,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		State:          &snapshot,
	}
}
