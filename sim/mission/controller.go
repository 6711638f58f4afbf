package mission

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/roversim/mars-rover-sim/sim/planner"
	"github.com/roversim/mars-rover-sim/sim/rover"
	"github.com/roversim/mars-rover-sim/sim/telemetry"
	"github.com/roversim/mars-rover-sim/sim/terrain"
)

var (
	ErrNoPath     = errors.New("no valid path to goal")
	ErrNotRunning = errors.New("simulation is not running")
)

// Params configures one simulation.
type Params struct {
	Size          int             `json:"size"`
	Seed          int64           `json:"seed,omitempty"`
	InitialEnergy float64         `json:"initial_energy"`
	Algorithm     planner.Variant `json:"algorithm"`

	// PinSeed keeps the same seed across resets instead of drawing a
	// fresh one, so a mission can be replayed exactly.
	PinSeed bool `json:"pin_seed,omitempty"`
}

// TickResult reports one simulation step to the driver.
type TickResult struct {
	Moved    bool                      `json:"moved"`
	Status   rover.Status              `json:"status"`
	Rover    rover.Snapshot            `json:"rover"`
	Ended    bool                      `json:"ended"`
	Record   *telemetry.MissionRecord  `json:"record,omitempty"`
	Observed *rover.StepObservation    `json:"-"`
}

// Snapshot is the full read-only state for rendering and transport.
type Snapshot struct {
	Params    Params           `json:"params"`
	Seed      int64            `json:"seed"`
	Grid      [][]terrain.Cell `json:"grid"`
	Rover     rover.Snapshot   `json:"rover"`
	Plan      *planner.Plan    `json:"plan,omitempty"`
	Running   bool             `json:"running"`
	MissionID string           `json:"mission_id,omitempty"`
}

// Controller owns one mission's tick lifecycle: the grid, the rover,
// the active plan, and the telemetry recorder. It is single-threaded by
// design; callers that share a controller across goroutines must
// serialize access themselves.
type Controller struct {
	params   Params
	grid     *terrain.Grid
	rover    *rover.Rover
	plan     *planner.Plan
	recorder *telemetry.Recorder

	running    bool
	missionSeq int
	seedSource *rand.Rand
}

// New builds a controller: generates terrain, places the rover at the
// start, and computes the initial plan.
func New(params Params) (*Controller, error) {
	if params.Algorithm == "" {
		params.Algorithm = planner.AStar
	}
	if _, err := planner.ParseVariant(string(params.Algorithm)); err != nil {
		return nil, err
	}

	c := &Controller{
		params:     params,
		recorder:   telemetry.NewRecorder(),
		seedSource: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	rov, err := rover.New(params.InitialEnergy)
	if err != nil {
		return nil, err
	}
	c.rover = rov

	if err := c.regenerate(params.Seed); err != nil {
		return nil, err
	}
	return c, nil
}

// regenerate builds a fresh grid from the seed (drawing one when 0),
// places the rover, and recomputes the plan.
func (c *Controller) regenerate(seed int64) error {
	if seed == 0 {
		seed = c.seedSource.Int63()
	}

	grid, err := terrain.Generate(c.params.Size, seed)
	if err != nil {
		return err
	}
	c.grid = grid

	if err := grid.MarkRover(grid.Start()); err != nil {
		return err
	}

	return c.replanFrom(grid.Start())
}

// replanFrom computes a plan from pos to the goal over the current grid
// and assigns it to the rover. A missing path leaves the rover without
// a plan; Start surfaces that as ErrNoPath.
func (c *Controller) replanFrom(pos terrain.Coordinate) error {
	plan, err := planner.FindPath(c.grid, pos, c.grid.Goal(), c.params.Algorithm)
	if err != nil {
		return err
	}
	c.plan = plan
	c.rover.AssignPath(plan)
	return nil
}

// Start begins (or resumes) ticking. Starting an idle rover opens a new
// telemetry mission.
func (c *Controller) Start() error {
	if c.plan == nil {
		return ErrNoPath
	}
	if c.rover.Status() == rover.Idle {
		c.missionSeq++
		id := fmt.Sprintf("mission-%d-%s", c.missionSeq, uuid.NewString()[:8])
		c.recorder.StartMission(id, c.rover.InitialEnergy())
	}
	c.running = true
	return nil
}

// Stop pauses ticking without ending the mission.
func (c *Controller) Stop() {
	c.running = false
}

// Toggle flips the running state, starting a mission when needed.
func (c *Controller) Toggle() error {
	if c.running {
		c.Stop()
		return nil
	}
	return c.Start()
}

// Running reports whether ticks currently advance the rover.
func (c *Controller) Running() bool {
	return c.running
}

// Tick advances the rover one step and records telemetry. When the step
// leaves the rover in a terminal state the mission is finalized and its
// record returned.
func (c *Controller) Tick() (*TickResult, error) {
	if !c.running {
		return nil, ErrNotRunning
	}

	moved, obs := c.rover.Step(c.grid)
	if moved {
		c.recorder.RecordStep(obs.Position, obs.Energy, obs.Terrain, obs.Speed)
	}

	result := &TickResult{
		Moved:    moved,
		Status:   c.rover.Status(),
		Rover:    c.rover.Snapshot(),
		Observed: obs,
	}

	if c.rover.Status().Terminal() {
		c.running = false
		result.Ended = true
		result.Record = c.recorder.EndMission(c.rover.Status() == rover.ReachedGoal)
	}

	return result, nil
}

// Reset regenerates terrain (same seed when pinned), restores the
// rover's full energy at the start cell, and recomputes the plan.
// Telemetry history is preserved across resets.
func (c *Controller) Reset() error {
	c.running = false
	c.rover.Reset()

	seed := int64(0)
	if c.params.PinSeed {
		seed = c.grid.Seed()
	}
	return c.regenerate(seed)
}

// Replan recomputes the route from the rover's current position under a
// new algorithm variant, over the live grid.
func (c *Controller) Replan(variant planner.Variant) (*planner.Plan, error) {
	if _, err := planner.ParseVariant(string(variant)); err != nil {
		return nil, err
	}
	c.params.Algorithm = variant
	if err := c.replanFrom(c.rover.Position()); err != nil {
		return nil, err
	}
	return c.plan, nil
}

// Snapshot returns the full state for read-only consumers.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Params:    c.params,
		Seed:      c.grid.Seed(),
		Grid:      c.grid.Snapshot(),
		Rover:     c.rover.Snapshot(),
		Plan:      c.plan,
		Running:   c.running,
		MissionID: c.recorder.ActiveMissionID(),
	}
}

// Grid exposes the live grid for in-process inspection.
func (c *Controller) Grid() *terrain.Grid {
	return c.grid
}

// Rover exposes the rover for in-process inspection.
func (c *Controller) Rover() *rover.Rover {
	return c.rover
}

// Recorder exposes the telemetry recorder.
func (c *Controller) Recorder() *telemetry.Recorder {
	return c.recorder
}

// Params returns the controller's configuration.
func (c *Controller) Params() Params {
	return c.params
}
