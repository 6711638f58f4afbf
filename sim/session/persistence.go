package session

import (
	"time"

	"github.com/roversim/mars-rover-sim/sim/mission"
	"github.com/roversim/mars-rover-sim/sim/service"
	"github.com/roversim/mars-rover-sim/sim/telemetry"
)

// Persistence defines the interface for storing sessions.
type Persistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by id
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session ids
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// persistedSession is the JSON structure written for each session.
// The seed pins the terrain, so a loaded session reproduces the same
// grid; rover progress restarts from the mission start, while the
// telemetry history carries over in full.
type persistedSession struct {
	ID             string                    `json:"id"`
	PresetName     string                    `json:"preset_name"`
	CreatedAt      time.Time                 `json:"created_at"`
	LastAccessedAt time.Time                 `json:"last_accessed_at"`
	Params         mission.Params            `json:"params"`
	Seed           int64                     `json:"seed"`
	Missions       []telemetry.MissionRecord `json:"missions"`
}
