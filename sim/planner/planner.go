package planner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/roversim/mars-rover-sim/sim/terrain"
)

// ErrUnknownAlgorithm is returned when a variant name from an external
// boundary (API, CLI, preset file) doesn't match a known algorithm.
var ErrUnknownAlgorithm = errors.New("unknown pathfinding algorithm")

// Variant selects the cost model of the shared best-first search.
type Variant string

const (
	AStar           Variant = "A*"
	Dijkstra        Variant = "Dijkstra"
	EnergyEfficient Variant = "EnergyEfficient"
)

// Variants lists all selectable algorithm variants.
var Variants = []Variant{AStar, Dijkstra, EnergyEfficient}

// ParseVariant converts an external algorithm name into a Variant.
// This is the only stringly-typed boundary; everything past it works
// with the closed Variant type.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case string(AStar), "a*", "astar":
		return AStar, nil
	case string(Dijkstra), "dijkstra":
		return Dijkstra, nil
	case string(EnergyEfficient), "energy-efficient", "Energy Efficient":
		return EnergyEfficient, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Plan is a computed route from start to goal inclusive.
type Plan struct {
	Route       []terrain.Coordinate `json:"route"`
	TotalCost   float64              `json:"total_cost"`
	Variant     Variant              `json:"variant"`
	ComputeTime time.Duration        `json:"compute_time"`
}

// Length returns the number of coordinates in the route.
func (p *Plan) Length() int {
	if p == nil {
		return 0
	}
	return len(p.Route)
}

// neighborOffsets covers the 4 cardinal and 4 diagonal directions with
// their base step costs. Diagonal steps cost sqrt(2).
var neighborOffsets = []struct {
	dx, dy int
	base   float64
}{
	{0, 1, 1.0}, {1, 0, 1.0}, {0, -1, 1.0}, {-1, 0, 1.0},
	{1, 1, math.Sqrt2}, {-1, -1, math.Sqrt2}, {1, -1, math.Sqrt2}, {-1, 1, math.Sqrt2},
}

// FindPath computes a minimum-cost 8-connected route over the terrain
// view between start and goal under the variant's cost model.
//
// A nil Plan with a nil error means no path exists - an expected
// outcome, not a failure. Out-of-bounds endpoints surface
// terrain.ErrOutOfBounds; an empty variant surfaces ErrUnknownAlgorithm.
func FindPath(view terrain.View, start, goal terrain.Coordinate, variant Variant) (*Plan, error) {
	switch variant {
	case AStar, Dijkstra, EnergyEfficient:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, variant)
	}

	if !view.InBounds(start) {
		return nil, fmt.Errorf("start %s: %w", start, terrain.ErrOutOfBounds)
	}
	if !view.InBounds(goal) {
		return nil, fmt.Errorf("goal %s: %w", goal, terrain.ErrOutOfBounds)
	}

	goalCell, err := view.At(goal)
	if err != nil {
		return nil, err
	}
	if !terrain.Passable(goalCell) {
		return nil, nil // goal is walled off, no path by definition
	}

	began := time.Now()

	front := newFrontier()
	front.push(start, 0)
	cameFrom := map[terrain.Coordinate]terrain.Coordinate{}
	costSoFar := map[terrain.Coordinate]float64{start: 0}
	reached := start == goal

	for !front.empty() {
		current := front.pop()
		if current == goal {
			reached = true
			break
		}

		for _, off := range neighborOffsets {
			next := terrain.Coordinate{X: current.X + off.dx, Y: current.Y + off.dy}
			if !view.InBounds(next) {
				continue
			}
			cell, err := view.At(next)
			if err != nil {
				return nil, err
			}
			if !terrain.Passable(cell) {
				continue
			}

			newCost := costSoFar[current] + stepCost(variant, off.base, terrain.Cost(cell))
			if prev, seen := costSoFar[next]; !seen || newCost < prev {
				costSoFar[next] = newCost
				front.push(next, newCost+heuristic(variant, next, goal, terrain.Cost(cell)))
				cameFrom[next] = current
			}
		}
	}

	elapsed := time.Since(began)
	if !reached {
		return nil, nil
	}

	route := reconstruct(cameFrom, start, goal)
	return &Plan{
		Route:       route,
		TotalCost:   costSoFar[goal],
		Variant:     variant,
		ComputeTime: elapsed,
	}, nil
}

// stepCost is the accumulated-cost contribution of entering a cell with
// the given terrain cost via a step with the given base cost.
func stepCost(variant Variant, base, terrainCost float64) float64 {
	if variant == EnergyEfficient {
		// Quadratic penalty steers the route around costly terrain
		// even when it is geometrically shorter.
		return base * terrainCost * terrainCost
	}
	return base * terrainCost
}

// heuristic is the variant-specific estimate of remaining cost. The
// Euclidean distance never overestimates true remaining cost while
// terrain costs are >= 1, which keeps the A* variant admissible.
func heuristic(variant Variant, from, goal terrain.Coordinate, terrainCost float64) float64 {
	switch variant {
	case Dijkstra:
		return 0
	case EnergyEfficient:
		return from.Distance(goal) * terrainCost
	default:
		return from.Distance(goal)
	}
}

// reconstruct walks predecessors from goal back to start and reverses.
func reconstruct(cameFrom map[terrain.Coordinate]terrain.Coordinate, start, goal terrain.Coordinate) []terrain.Coordinate {
	if start == goal {
		return []terrain.Coordinate{start}
	}

	var route []terrain.Coordinate
	for current := goal; current != start; current = cameFrom[current] {
		route = append(route, current)
	}
	route = append(route, start)

	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}
