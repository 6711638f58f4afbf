// Command analyze runs offline terrain and planner analysis over seed
// sweeps. It is a development tool for checking generator connectivity
// and comparing pathfinding variants without starting the server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/roversim/mars-rover-sim/sim/planner"
	"github.com/roversim/mars-rover-sim/sim/terrain"
)

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "offline terrain and planner analysis",
		Commands: []*cli.Command{
			{
				Name:  "connectivity",
				Usage: "sweep seeds and report how often a path from start to goal exists",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "size", Value: 20, Usage: "grid size"},
					&cli.IntFlag{Name: "seeds", Value: 100, Usage: "number of seeds to sweep"},
					&cli.IntFlag{Name: "start-seed", Value: 1, Usage: "first seed of the sweep"},
				},
				Action: runConnectivity,
			},
			{
				Name:  "compare",
				Usage: "compare pathfinding variants over a seed sweep",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "size", Value: 20, Usage: "grid size"},
					&cli.IntFlag{Name: "seeds", Value: 50, Usage: "number of seeds to sweep"},
					&cli.IntFlag{Name: "start-seed", Value: 1, Usage: "first seed of the sweep"},
				},
				Action: runCompare,
			},
			{
				Name:  "show",
				Usage: "print one generated grid with its planned route",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "size", Value: 20, Usage: "grid size"},
					&cli.IntFlag{Name: "seed", Value: 1, Usage: "generation seed"},
					&cli.StringFlag{Name: "algorithm", Value: "A*", Usage: "pathfinding variant"},
				},
				Action: runShow,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// runConnectivity generates one grid per seed and checks that every
// pathfinding variant finds a route from start to goal.
func runConnectivity(ctx context.Context, cmd *cli.Command) error {
	size := int(cmd.Int("size"))
	count := int(cmd.Int("seeds"))
	startSeed := int64(cmd.Int("start-seed"))

	connected := 0
	variantFailures := map[planner.Variant]int{}

	for i := 0; i < count; i++ {
		seed := startSeed + int64(i)
		grid, err := terrain.Generate(size, seed)
		if err != nil {
			return fmt.Errorf("seed %d: %w", seed, err)
		}

		ok := true
		for _, variant := range planner.Variants {
			plan, err := planner.FindPath(grid, grid.Start(), grid.Goal(), variant)
			if err != nil {
				return fmt.Errorf("seed %d, %s: %w", seed, variant, err)
			}
			if plan == nil {
				variantFailures[variant]++
				ok = false
			}
		}
		if ok {
			connected++
		}
	}

	fmt.Printf("Swept %d seeds at size %d\n", count, size)
	fmt.Printf("Connected: %d/%d (%.1f%%)\n", connected, count, 100*float64(connected)/float64(count))
	for _, variant := range planner.Variants {
		if n := variantFailures[variant]; n > 0 {
			fmt.Printf("  %s failed on %d seeds\n", variant, n)
		}
	}
	return nil
}

// runCompare reports average route cost and length per variant, plus
// the energy saved by EnergyEfficient relative to A*.
func runCompare(ctx context.Context, cmd *cli.Command) error {
	size := int(cmd.Int("size"))
	count := int(cmd.Int("seeds"))
	startSeed := int64(cmd.Int("start-seed"))

	type agg struct {
		cost   float64
		length int
		found  int
	}
	totals := map[planner.Variant]*agg{}
	for _, v := range planner.Variants {
		totals[v] = &agg{}
	}

	var energySavedSum float64
	comparable := 0

	for i := 0; i < count; i++ {
		seed := startSeed + int64(i)
		grid, err := terrain.Generate(size, seed)
		if err != nil {
			return fmt.Errorf("seed %d: %w", seed, err)
		}

		plans := map[planner.Variant]*planner.Plan{}
		for _, variant := range planner.Variants {
			plan, err := planner.FindPath(grid, grid.Start(), grid.Goal(), variant)
			if err != nil {
				return fmt.Errorf("seed %d, %s: %w", seed, variant, err)
			}
			plans[variant] = plan
			if plan != nil {
				totals[variant].cost += plan.TotalCost
				totals[variant].length += len(plan.Route)
				totals[variant].found++
			}
		}

		astar, efficient := plans[planner.AStar], plans[planner.EnergyEfficient]
		if astar != nil && efficient != nil {
			energySavedSum += routeEnergy(grid, astar) - routeEnergy(grid, efficient)
			comparable++
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "variant\tfound\tavg cost\tavg length")
	for _, variant := range planner.Variants {
		t := totals[variant]
		if t.found == 0 {
			fmt.Fprintf(w, "%s\t0\t-\t-\n", variant)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.1f\n",
			variant, t.found, t.cost/float64(t.found), float64(t.length)/float64(t.found))
	}
	w.Flush()

	if comparable > 0 {
		fmt.Printf("\nEnergyEfficient vs A*: %.2f energy saved per mission on average (%d seeds)\n",
			energySavedSum/float64(comparable), comparable)
	}
	return nil
}

// routeEnergy sums the actual energy a rover would pay to traverse the
// route, skipping the starting cell.
func routeEnergy(grid *terrain.Grid, plan *planner.Plan) float64 {
	var total float64
	for _, c := range plan.Route[1:] {
		cost, err := grid.CostAt(c)
		if err != nil {
			continue
		}
		total += cost
	}
	return total
}

// runShow renders a single grid and overlays one planned route.
func runShow(ctx context.Context, cmd *cli.Command) error {
	size := int(cmd.Int("size"))
	seed := int64(cmd.Int("seed"))

	variant, err := planner.ParseVariant(cmd.String("algorithm"))
	if err != nil {
		return err
	}

	grid, err := terrain.Generate(size, seed)
	if err != nil {
		return err
	}

	plan, err := planner.FindPath(grid, grid.Start(), grid.Goal(), variant)
	if err != nil {
		return err
	}

	onRoute := map[terrain.Coordinate]bool{}
	if plan != nil {
		for _, c := range plan.Route {
			onRoute[c] = true
		}
	}

	glyphs := map[terrain.Cell]byte{
		terrain.Clear:       '.',
		terrain.Sand:        '~',
		terrain.Rocks:       '^',
		terrain.Obstacle:    '#',
		terrain.RoverMarker: 'R',
		terrain.GoalMarker:  'G',
	}

	for y := 0; y < grid.Size(); y++ {
		for x := 0; x < grid.Size(); x++ {
			coord := terrain.Coordinate{X: x, Y: y}
			cell, _ := grid.At(coord)
			g := glyphs[cell]
			if onRoute[coord] && cell != terrain.RoverMarker && cell != terrain.GoalMarker {
				g = '*'
			}
			fmt.Printf("%c", g)
		}
		fmt.Println()
	}

	if plan == nil {
		fmt.Println("\nNo path found")
		return nil
	}
	fmt.Printf("\n%s: %d cells, total cost %.2f, computed in %s\n",
		plan.Variant, len(plan.Route), plan.TotalCost, plan.ComputeTime)
	return nil
}
