package rover

import (
	"fmt"

	"github.com/roversim/mars-rover-sim/sim/planner"
	"github.com/roversim/mars-rover-sim/sim/terrain"
)

// Status is the rover's state machine tag.
type Status string

const (
	Idle        Status = "IDLE"
	Moving      Status = "MOVING"
	ReachedGoal Status = "REACHED_GOAL"
	OutOfEnergy Status = "OUT_OF_ENERGY"
	Stuck       Status = "STUCK"
)

// Terminal reports whether the status permits no further movement.
func (s Status) Terminal() bool {
	return s == ReachedGoal || s == OutOfEnergy || s == Stuck
}

// Rover is the mobile agent: position, energy budget, assigned plan,
// and traversal history. It is owned by exactly one simulation and is
// the only component allowed to mutate the live grid (via the position
// marker).
type Rover struct {
	energy        float64
	initialEnergy float64
	position      terrain.Coordinate
	speed         float64
	status        Status

	plan      *planner.Plan
	planIndex int

	totalDistance  int
	visitedTerrain []terrain.Cell
}

// StepObservation captures one successful step for telemetry.
type StepObservation struct {
	Position terrain.Coordinate
	Energy   float64
	Terrain  terrain.Cell
	Speed    float64
}

// Snapshot is the read-only rover state handed to rendering and
// transport layers.
type Snapshot struct {
	Position      terrain.Coordinate `json:"position"`
	Energy        float64            `json:"energy"`
	Status        Status             `json:"status"`
	Progress      float64            `json:"progress"`
	TotalDistance int                `json:"total_distance"`
	Speed         float64            `json:"speed"`
}

// New creates an idle rover at the origin with the given energy budget.
func New(initialEnergy float64) (*Rover, error) {
	if initialEnergy <= 0 {
		return nil, fmt.Errorf("initial energy must be positive, got %g", initialEnergy)
	}
	return &Rover{
		energy:        initialEnergy,
		initialEnergy: initialEnergy,
		speed:         1.0,
		status:        Idle,
	}, nil
}

// Reset returns the rover to its initial state: full energy, origin
// position, no plan, empty history. Callable from any state.
func (r *Rover) Reset() {
	r.energy = r.initialEnergy
	r.position = terrain.Coordinate{}
	r.speed = 1.0
	r.status = Idle
	r.plan = nil
	r.planIndex = 0
	r.totalDistance = 0
	r.visitedTerrain = nil
}

// AssignPath gives the rover a plan to follow and rewinds progress to
// its start. It does not move the rover. Routes begin with the cell the
// rover already occupies; that leading cell is skipped so the first
// Step pays for the first actual move.
func (r *Rover) AssignPath(plan *planner.Plan) {
	r.plan = plan
	r.planIndex = 0
	if plan != nil {
		if plan.Length() > 0 && plan.Route[0] == r.position {
			r.planIndex = 1
		}
		r.status = Idle
	}
}

// Step advances the rover one cell along its plan, mutating the live
// grid marker, its own energy, and its history. It returns the step's
// observation when the rover actually moved; callers feed exactly one
// telemetry record per true return.
//
// Terminal states and exhausted or absent plans make Step a no-op.
func (r *Rover) Step(grid *terrain.Grid) (bool, *StepObservation) {
	if r.status.Terminal() {
		return false, nil
	}
	if r.plan == nil || r.planIndex >= r.plan.Length() {
		return false, nil
	}

	next := r.plan.Route[r.planIndex]

	// Re-read the live grid, not the plan-time snapshot: terrain may
	// have changed since planning.
	cell, err := grid.At(next)
	if err != nil || !terrain.Passable(cell) {
		r.status = Stuck
		return false, nil
	}

	cost := terrain.Cost(cell)
	if r.energy < cost {
		r.status = OutOfEnergy
		return false, nil
	}

	grid.ClearRoverMarker()
	r.position = next
	if err := grid.MarkRover(next); err != nil {
		r.status = Stuck
		return false, nil
	}

	r.energy -= cost
	r.planIndex++
	r.totalDistance++
	r.visitedTerrain = append(r.visitedTerrain, cell)
	r.speed = terrain.SpeedFactor(cell)
	r.status = Moving

	if r.planIndex >= r.plan.Length() {
		r.status = ReachedGoal
	}

	return true, &StepObservation{
		Position: r.position,
		Energy:   r.energy,
		Terrain:  cell,
		Speed:    r.speed,
	}
}

// Energy returns the remaining energy budget.
func (r *Rover) Energy() float64 {
	return r.energy
}

// InitialEnergy returns the energy the rover started the mission with.
func (r *Rover) InitialEnergy() float64 {
	return r.initialEnergy
}

// Position returns the rover's current coordinate.
func (r *Rover) Position() terrain.Coordinate {
	return r.position
}

// Status returns the current state machine tag.
func (r *Rover) Status() Status {
	return r.status
}

// Plan returns the assigned plan, or nil.
func (r *Rover) Plan() *planner.Plan {
	return r.plan
}

// Progress returns plan completion in percent, 0 when no plan is set.
func (r *Rover) Progress() float64 {
	if r.plan == nil || r.plan.Length() == 0 {
		return 0
	}
	return float64(r.planIndex) / float64(r.plan.Length()) * 100
}

// Snapshot returns the rover's externally visible state.
func (r *Rover) Snapshot() Snapshot {
	return Snapshot{
		Position:      r.position,
		Energy:        r.energy,
		Status:        r.status,
		Progress:      r.Progress(),
		TotalDistance: r.totalDistance,
		Speed:         r.speed,
	}
}

// EstimatedRemainingSteps returns how many plan cells are left.
func (r *Rover) EstimatedRemainingSteps() int {
	if r.plan == nil || r.planIndex >= r.plan.Length() {
		return 0
	}
	return r.plan.Length() - r.planIndex
}

// CanCompletePath sums the remaining plan's live terrain costs against
// the current energy. It is a feasibility pre-check, not a guarantee:
// terrain can still change underneath the plan.
func (r *Rover) CanCompletePath(grid *terrain.Grid) bool {
	if r.plan == nil || r.planIndex >= r.plan.Length() {
		return true
	}

	required := 0.0
	for _, c := range r.plan.Route[r.planIndex:] {
		cost, err := grid.CostAt(c)
		if err != nil {
			return false
		}
		required += cost
	}
	return r.energy >= required
}

// EmergencyStop halts the rover back to Idle and reports where it ended
// up. The plan and history are kept so the mission can be inspected.
func (r *Rover) EmergencyStop() Snapshot {
	r.status = Idle
	return r.Snapshot()
}

// NearObstacle reports whether any of the 8 cells around the rover is
// impassable.
func (r *Rover) NearObstacle(grid *terrain.Grid) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			c := terrain.Coordinate{X: r.position.X + dx, Y: r.position.Y + dy}
			cell, err := grid.At(c)
			if err != nil {
				continue
			}
			if !terrain.Passable(cell) {
				return true
			}
		}
	}
	return false
}
