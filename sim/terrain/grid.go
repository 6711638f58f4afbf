package terrain

import "fmt"

// Grid is an NxN terrain cost-class grid. One grid is owned by exactly
// one mission at a time; the only in-place mutation after generation is
// the rover position marker overlay.
type Grid struct {
	size  int
	cells [][]Cell

	// Rover marker overlay. under holds the cell class hidden by the
	// marker so ClearRoverMarker can restore it.
	rover    *Coordinate
	under    Cell
	goal     Coordinate
	seed     int64
}

// NewGrid creates an all-clear grid of the given size. Generation
// normally goes through Generate; NewGrid exists for tests and for
// building fixed scenarios.
func NewGrid(size int) (*Grid, error) {
	if size < MinGridSize || size > MaxGridSize {
		return nil, fmt.Errorf("grid size must be between %d and %d, got %d", MinGridSize, MaxGridSize, size)
	}

	cells := make([][]Cell, size)
	for y := range cells {
		cells[y] = make([]Cell, size)
		for x := range cells[y] {
			cells[y][x] = Clear
		}
	}

	return &Grid{
		size:  size,
		cells: cells,
		goal:  Coordinate{X: size - 1, Y: size - 1},
	}, nil
}

// Size returns the grid edge length.
func (g *Grid) Size() int {
	return g.size
}

// Seed returns the seed the grid was generated with, or 0 for grids
// built with NewGrid.
func (g *Grid) Seed() int64 {
	return g.seed
}

// Start returns the fixed mission start coordinate.
func (g *Grid) Start() Coordinate {
	return Coordinate{X: 0, Y: 0}
}

// Goal returns the fixed mission goal coordinate.
func (g *Grid) Goal() Coordinate {
	return g.goal
}

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Coordinate) bool {
	return c.X >= 0 && c.X < g.size && c.Y >= 0 && c.Y < g.size
}

// At returns the cell class at c, including any marker overlay.
func (g *Grid) At(c Coordinate) (Cell, error) {
	if !g.InBounds(c) {
		return "", fmt.Errorf("at %s: %w", c, ErrOutOfBounds)
	}
	if g.rover != nil && *g.rover == c {
		return RoverMarker, nil
	}
	return g.cells[c.Y][c.X], nil
}

// CostAt returns the movement cost at c.
func (g *Grid) CostAt(c Coordinate) (float64, error) {
	cell, err := g.At(c)
	if err != nil {
		return 0, err
	}
	return Cost(cell), nil
}

// Set replaces the cell class at c. Setting the cell under a rover
// marker updates the hidden class, not the marker.
func (g *Grid) Set(c Coordinate, cell Cell) error {
	if !g.InBounds(c) {
		return fmt.Errorf("set %s: %w", c, ErrOutOfBounds)
	}
	if g.rover != nil && *g.rover == c {
		g.under = cell
		return nil
	}
	g.cells[c.Y][c.X] = cell
	return nil
}

// MarkRover overlays the rover position marker at c, remembering the
// underlying cell class. Any previous marker is cleared first.
func (g *Grid) MarkRover(c Coordinate) error {
	if !g.InBounds(c) {
		return fmt.Errorf("mark rover %s: %w", c, ErrOutOfBounds)
	}
	g.ClearRoverMarker()
	g.under = g.cells[c.Y][c.X]
	pos := c
	g.rover = &pos
	g.cells[c.Y][c.X] = RoverMarker
	return nil
}

// ClearRoverMarker removes the rover marker, restoring the cell class
// it covered. No-op when no marker is set.
func (g *Grid) ClearRoverMarker() {
	if g.rover == nil {
		return
	}
	g.cells[g.rover.Y][g.rover.X] = g.under
	g.rover = nil
}

// RoverPosition returns the marked rover position, if any.
func (g *Grid) RoverPosition() (Coordinate, bool) {
	if g.rover == nil {
		return Coordinate{}, false
	}
	return *g.rover, true
}

// Snapshot returns a deep copy of the cell matrix for read-only
// consumers (rendering, transport). Markers are included as-is.
func (g *Grid) Snapshot() [][]Cell {
	out := make([][]Cell, g.size)
	for y := range g.cells {
		out[y] = make([]Cell, g.size)
		copy(out[y], g.cells[y])
	}
	return out
}

// CountCells returns the number of cells of the given class.
func (g *Grid) CountCells(cell Cell) int {
	count := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c == cell {
				count++
			}
		}
	}
	return count
}
