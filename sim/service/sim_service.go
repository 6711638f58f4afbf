package service

import (
	"context"
	"time"

	"github.com/roversim/mars-rover-sim/sim/config"
	"github.com/roversim/mars-rover-sim/sim/mission"
	"github.com/roversim/mars-rover-sim/sim/telemetry"
)

// SimService defines all simulation operations exposed to transports.
type SimService interface {
	// Session management
	CreateSession(ctx context.Context, presetName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Simulation operations
	Tick(ctx context.Context, sessionID string) (*TickResponse, error)
	BulkTick(ctx context.Context, sessionID string, steps int) (*BulkTickResult, error)
	StartStop(ctx context.Context, sessionID string) (bool, error)
	Reset(ctx context.Context, sessionID string) (*mission.Snapshot, error)
	Replan(ctx context.Context, sessionID, algorithm string) (*ReplanResult, error)

	// Simulation state
	GetState(ctx context.Context, sessionID string) (*mission.Snapshot, error)
	GetReport(ctx context.Context, sessionID string) (*Report, error)
	GetTelemetry(ctx context.Context, sessionID string) ([]telemetry.MissionRecord, error)

	// Presets
	ListPresets(ctx context.Context) ([]*config.Preset, error)
	SavePreset(ctx context.Context, name string, preset *config.Preset) error
}

// SessionManager defines session storage operations.
type SessionManager interface {
	Create(id string, presetName string, params mission.Params) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// PresetManager handles simulation preset loading.
type PresetManager interface {
	LoadPreset(name string) (*config.Preset, error)
	ListPresets() ([]*config.Preset, error)
	GetDefault() *config.Preset
	SavePreset(name string, preset *config.Preset) error
}

// Session is one active simulation.
type Session struct {
	ID             string
	Controller     *mission.Controller
	PresetName     string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
