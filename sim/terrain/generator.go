package terrain

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	// MinGeneratedSize is the smallest grid the generator accepts.
	// Smaller grids leave no room for the start/goal clearings.
	MinGeneratedSize = 10

	noiseOctaves     = 6
	noisePersistence = 0.5
	noiseLacunarity  = 2.0

	// Fraction of remaining obstacles randomly downgraded to clear
	// ground so maps don't turn into mazes.
	obstacleThinning = 0.15
)

// Generate builds an NxN terrain grid from a seeded noise field.
//
// The raw field is bucketed into four cost classes, then three passes
// guarantee the mission is feasible: a central cross-shaped corridor is
// carved through any obstacles, the start and goal neighborhoods are
// force-cleared, and a fraction of the remaining obstacles is thinned
// out. A final connectivity check carves a direct corridor if the noise
// still walled off the goal, so a generated grid always admits a path
// from start to goal.
//
// The same (size, seed) pair always produces the same grid.
func Generate(size int, seed int64) (*Grid, error) {
	if size < MinGeneratedSize || size > MaxGridSize {
		return nil, fmt.Errorf("generated grid size must be between %d and %d, got %d", MinGeneratedSize, MaxGridSize, size)
	}

	rng := rand.New(rand.NewSource(seed))
	field := fractalNoise(rng, size)

	grid, err := NewGrid(size)
	if err != nil {
		return nil, err
	}
	grid.seed = seed

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			grid.cells[y][x] = classify(field[y][x])
		}
	}

	carveCentralCross(grid, rng)
	clearArea(grid, grid.Start(), 2)
	clearArea(grid, grid.Goal(), 2)
	thinObstacles(grid, rng)
	ensureConnected(grid)

	grid.cells[grid.goal.Y][grid.goal.X] = GoalMarker

	return grid, nil
}

// classify buckets a noise value in [0,1] into a cost class.
func classify(v float64) Cell {
	switch {
	case v < ClearThreshold:
		return Clear
	case v < SandThreshold:
		return Sand
	case v < ObstacleThreshold:
		return Rocks
	default:
		return Obstacle
	}
}

// fractalNoise produces a smoothed pseudo-random field in [0,1] by
// summing several octaves of bilinearly interpolated lattice noise,
// then min-max normalizing the result.
func fractalNoise(rng *rand.Rand, size int) [][]float64 {
	field := make([][]float64, size)
	for y := range field {
		field[y] = make([]float64, size)
	}

	amplitude := 1.0
	period := float64(size) / 2
	totalAmplitude := 0.0

	for o := 0; o < noiseOctaves; o++ {
		octave := latticeNoise(rng, size, math.Max(1, period))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				field[y][x] += amplitude * octave[y][x]
			}
		}
		totalAmplitude += amplitude
		amplitude *= noisePersistence
		period /= noiseLacunarity
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			field[y][x] /= totalAmplitude
			lo = math.Min(lo, field[y][x])
			hi = math.Max(hi, field[y][x])
		}
	}

	span := hi - lo
	if span == 0 {
		span = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			field[y][x] = (field[y][x] - lo) / span
		}
	}

	return field
}

// latticeNoise samples random values on a coarse lattice with the given
// period and smoothly interpolates between them.
func latticeNoise(rng *rand.Rand, size int, period float64) [][]float64 {
	points := int(math.Ceil(float64(size)/period)) + 2
	lattice := make([][]float64, points)
	for i := range lattice {
		lattice[i] = make([]float64, points)
		for j := range lattice[i] {
			lattice[i][j] = rng.Float64()
		}
	}

	out := make([][]float64, size)
	for y := 0; y < size; y++ {
		out[y] = make([]float64, size)
		fy := float64(y) / period
		y0 := int(fy)
		ty := smoothstep(fy - float64(y0))
		for x := 0; x < size; x++ {
			fx := float64(x) / period
			x0 := int(fx)
			tx := smoothstep(fx - float64(x0))

			top := lerp(lattice[y0][x0], lattice[y0][x0+1], tx)
			bottom := lerp(lattice[y0+1][x0], lattice[y0+1][x0+1], tx)
			out[y][x] = lerp(top, bottom, ty)
		}
	}
	return out
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// carveCentralCross converts obstacles inside a cross-shaped band
// through the grid center into passable ground, 70% clear / 30% sand.
func carveCentralCross(g *Grid, rng *rand.Rand) {
	center := g.size / 2
	width := g.size / 8
	if width < 2 {
		width = 2
	}

	bandStart := center - width/2
	bandEnd := bandStart + width

	carve := func(c Coordinate) {
		if g.cells[c.Y][c.X] != Obstacle {
			return
		}
		if rng.Float64() < 0.7 {
			g.cells[c.Y][c.X] = Clear
		} else {
			g.cells[c.Y][c.X] = Sand
		}
	}

	for b := bandStart; b < bandEnd; b++ {
		if b < 0 || b >= g.size {
			continue
		}
		for i := 0; i < g.size; i++ {
			carve(Coordinate{X: i, Y: b}) // horizontal band
			carve(Coordinate{X: b, Y: i}) // vertical band
		}
	}
}

// clearArea force-clears the square neighborhood of radius r around pos.
func clearArea(g *Grid, pos Coordinate, r int) {
	for y := pos.Y - r; y <= pos.Y+r; y++ {
		for x := pos.X - r; x <= pos.X+r; x++ {
			if y >= 0 && y < g.size && x >= 0 && x < g.size {
				g.cells[y][x] = Clear
			}
		}
	}
}

// thinObstacles downgrades a random fraction of the remaining obstacles
// to clear ground.
func thinObstacles(g *Grid, rng *rand.Rand) {
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			if g.cells[y][x] == Obstacle && rng.Float64() < obstacleThinning {
				g.cells[y][x] = Clear
			}
		}
	}
}

// ensureConnected verifies an 8-connected passable route exists from
// start to goal and, when the noise walled the goal off anyway, carves
// a straight corridor between them. The carving makes the generator's
// connectivity guarantee absolute rather than probabilistic.
func ensureConnected(g *Grid) {
	if g.reachable(g.Start(), g.Goal()) {
		return
	}

	// Walk the start->goal line one diagonal-or-cardinal step at a
	// time, clearing every obstacle on the way. The walked cells form
	// an 8-connected passable chain by construction.
	cur := g.Start()
	goal := g.Goal()
	for cur != goal {
		if cur.X < goal.X {
			cur.X++
		} else if cur.X > goal.X {
			cur.X--
		}
		if cur.Y < goal.Y {
			cur.Y++
		} else if cur.Y > goal.Y {
			cur.Y--
		}
		if g.cells[cur.Y][cur.X] == Obstacle {
			g.cells[cur.Y][cur.X] = Clear
		}
	}
}

// reachable runs a breadth-first search over passable cells using
// 8-connected movement.
func (g *Grid) reachable(from, to Coordinate) bool {
	visited := make(map[Coordinate]bool, g.size*g.size)
	queue := []Coordinate{from}
	visited[from] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				next := Coordinate{X: cur.X + dx, Y: cur.Y + dy}
				if !g.InBounds(next) || visited[next] {
					continue
				}
				if !Passable(g.cells[next.Y][next.X]) {
					continue
				}
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}
