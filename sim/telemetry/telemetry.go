package telemetry

import (
	"math"
	"time"

	"github.com/roversim/mars-rover-sim/sim/terrain"
)

// timeLayout is the timestamp format persisted in mission records.
const timeLayout = "2006-01-02 15:04:05"

// MissionRecord is the immutable snapshot of one finished mission.
// JSON field names are the telemetry export format and must stay
// stable.
type MissionRecord struct {
	MissionID           string               `json:"mission_id"`
	StartTime           string               `json:"start_time"`
	EndTime             string               `json:"end_time"`
	Success             bool                 `json:"success"`
	TotalDistance       int                  `json:"total_distance"`
	EnergyConsumed      float64              `json:"energy_consumed"`
	TerrainDistribution map[string]float64   `json:"terrain_distribution"`
	AverageSpeed        float64              `json:"average_speed"`
	Path                []terrain.Coordinate `json:"path"`
}

// stepSample is one in-progress observation.
type stepSample struct {
	position terrain.Coordinate
	energy   float64
	terrain  terrain.Cell
	speed    float64
	at       time.Time
}

// Recorder collects per-step observations for the active mission and
// accumulates finished missions into an append-only history. Construct
// one per process or per session and pass it by reference; there is no
// ambient global recorder.
type Recorder struct {
	history []MissionRecord

	missionID     string
	initialEnergy float64
	startedAt     time.Time
	samples       []stepSample
}

// NewRecorder creates an empty telemetry recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// StartMission opens a new in-progress record. Any unfinished mission
// is discarded.
func (r *Recorder) StartMission(id string, initialEnergy float64) {
	r.missionID = id
	r.initialEnergy = initialEnergy
	r.startedAt = time.Now()
	r.samples = nil
}

// RecordStep appends one observation to the in-progress mission. Call
// it exactly once per rover step that actually moved.
func (r *Recorder) RecordStep(position terrain.Coordinate, energy float64, class terrain.Cell, speed float64) {
	r.samples = append(r.samples, stepSample{
		position: position,
		energy:   energy,
		terrain:  class,
		speed:    speed,
		at:       time.Now(),
	})
}

// EndMission finalizes the in-progress mission into an immutable
// record, appends it to history, and returns it. Returns nil when no
// steps were recorded.
//
// Energy consumed is the initial budget minus the lowest energy level
// observed: energy only decreases during a mission, so the low point is
// the total spend.
func (r *Recorder) EndMission(success bool) *MissionRecord {
	if len(r.samples) == 0 {
		return nil
	}

	minEnergy := math.Inf(1)
	speedSum := 0.0
	path := make([]terrain.Coordinate, len(r.samples))
	for i, s := range r.samples {
		minEnergy = math.Min(minEnergy, s.energy)
		speedSum += s.speed
		path[i] = s.position
	}

	record := MissionRecord{
		MissionID:           r.missionID,
		StartTime:           r.startedAt.Format(timeLayout),
		EndTime:             time.Now().Format(timeLayout),
		Success:             success,
		TotalDistance:       len(r.samples),
		EnergyConsumed:      math.Max(0, r.initialEnergy-minEnergy),
		TerrainDistribution: r.terrainDistribution(),
		AverageSpeed:        speedSum / float64(len(r.samples)),
		Path:                path,
	}

	r.history = append(r.history, record)
	r.samples = nil
	r.missionID = ""
	return &record
}

// terrainDistribution is the fraction of recorded steps per cost class.
func (r *Recorder) terrainDistribution() map[string]float64 {
	dist := make(map[string]float64)
	if len(r.samples) == 0 {
		return dist
	}
	for _, s := range r.samples {
		dist[string(s.terrain)]++
	}
	total := float64(len(r.samples))
	for k := range dist {
		dist[k] /= total
	}
	return dist
}

// History returns the accumulated mission records, oldest first. The
// returned slice is a copy; history itself is append-only.
func (r *Recorder) History() []MissionRecord {
	out := make([]MissionRecord, len(r.history))
	copy(out, r.history)
	return out
}

// ActiveMissionID returns the id of the in-progress mission, empty when
// none is open.
func (r *Recorder) ActiveMissionID() string {
	return r.missionID
}

// StepCount returns the number of observations recorded for the
// in-progress mission.
func (r *Recorder) StepCount() int {
	return len(r.samples)
}

// EnergySeries returns the recorded per-step energy levels of the
// in-progress mission, for plotting layers.
func (r *Recorder) EnergySeries() []float64 {
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = s.energy
	}
	return out
}
