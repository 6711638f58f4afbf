package service

import (
	"time"

	"github.com/roversim/mars-rover-sim/sim/mission"
	"github.com/roversim/mars-rover-sim/sim/planner"
	"github.com/roversim/mars-rover-sim/sim/rover"
	"github.com/roversim/mars-rover-sim/sim/telemetry"
)

// SessionInfo describes a simulation session to transports.
type SessionInfo struct {
	ID             string            `json:"id"`
	PresetName     string            `json:"preset_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	State          *mission.Snapshot `json:"state"`
}

// TickResponse is the result of one simulation step.
type TickResponse struct {
	Moved  bool                     `json:"moved"`
	Status rover.Status             `json:"status"`
	Rover  rover.Snapshot           `json:"rover"`
	Ended  bool                     `json:"ended"`
	Record *telemetry.MissionRecord `json:"record,omitempty"`
}

// BulkTickResult summarizes a sequence of ticks executed in one call.
type BulkTickResult struct {
	StepsExecuted  int                      `json:"steps_executed"`
	RequestedSteps int                      `json:"requested_steps"`
	Ended          bool                     `json:"ended"`
	Status         rover.Status             `json:"status"`
	Rover          rover.Snapshot           `json:"rover"`
	Record         *telemetry.MissionRecord `json:"record,omitempty"`
	StartEnergy    float64                  `json:"start_energy"`
	EndEnergy      float64                  `json:"end_energy"`
	Truncated      bool                     `json:"truncated,omitempty"`
	Limit          int                      `json:"limit,omitempty"`
}

// ReplanResult reports a recomputed route.
type ReplanResult struct {
	Algorithm planner.Variant `json:"algorithm"`
	Found     bool            `json:"found"`
	Plan      *planner.Plan   `json:"plan,omitempty"`
}

// Report combines aggregate telemetry with the live rover's efficiency
// figures.
type Report struct {
	Performance telemetry.PerformanceMetrics `json:"performance"`
	Efficiency  *rover.EfficiencyMetrics     `json:"efficiency,omitempty"`
	Missions    []telemetry.MissionRecord    `json:"missions"`
}
