package terrain

import (
	"errors"
	"fmt"
	"math"
)

// Cell represents the surface class of a single grid cell
type Cell string

const (
	Clear    Cell = "clear"
	Sand     Cell = "sand"
	Rocks    Cell = "rocks"
	Obstacle Cell = "obstacle"

	// Marker cells are rendering overlays; they cost the same as clear ground
	RoverMarker Cell = "rover"
	GoalMarker  Cell = "goal"

	// Validation constants
	MinGridSize = 2
	MaxGridSize = 200

	// Generation constants
	ClearThreshold    = 0.40
	SandThreshold     = 0.60
	ObstacleThreshold = 0.85
)

// ErrOutOfBounds is returned when a coordinate lies outside the grid.
// It is always wrapped with the offending coordinate; callers should
// test it with errors.Is.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// Coordinate is a grid position. Equality and map keys are by value.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Distance returns the Euclidean distance to other.
func (c Coordinate) Distance(other Coordinate) float64 {
	dx := float64(other.X - c.X)
	dy := float64(other.Y - c.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Cost returns the movement cost multiplier for a cell class.
// This table is the single source of truth shared by the terrain grid,
// the path planner, and the rover.
func Cost(cell Cell) float64 {
	switch cell {
	case Clear, RoverMarker, GoalMarker:
		return 1
	case Sand:
		return 2
	case Rocks:
		return 3
	case Obstacle:
		return math.Inf(1)
	default:
		return math.Inf(1)
	}
}

// SpeedFactor returns the rover speed multiplier on a cell class.
func SpeedFactor(cell Cell) float64 {
	switch cell {
	case Sand:
		return 0.7
	case Rocks:
		return 0.5
	default:
		return 1.0
	}
}

// Passable reports whether a rover or a planned path may occupy the cell.
func Passable(cell Cell) bool {
	return cell != Obstacle
}

// View is the read-only borrow of a grid handed to the path planner.
// The rover holds the sole mutation handle (*Grid); planner computations
// must never mutate terrain.
type View interface {
	Size() int
	At(c Coordinate) (Cell, error)
	CostAt(c Coordinate) (float64, error)
	InBounds(c Coordinate) bool
}
