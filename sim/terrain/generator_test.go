package terrain

import "testing"

func TestGenerateSizeBounds(t *testing.T) {
	if _, err := Generate(MinGeneratedSize-1, 1); err == nil {
		t.Error("Expected error for size below generator minimum")
	}
	if _, err := Generate(MaxGridSize+1, 1); err == nil {
		t.Error("Expected error for size above maximum")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(20, 42)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate(20, 42)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			c := Coordinate{X: x, Y: y}
			ca, _ := a.At(c)
			cb, _ := b.At(c)
			if ca != cb {
				t.Fatalf("Grids diverge at %s: %s vs %s", c, ca, cb)
			}
		}
	}
}

func TestGenerateDifferentSeeds(t *testing.T) {
	a, _ := Generate(20, 1)
	b, _ := Generate(20, 2)

	same := true
	for y := 0; y < 20 && same; y++ {
		for x := 0; x < 20; x++ {
			c := Coordinate{X: x, Y: y}
			ca, _ := a.At(c)
			cb, _ := b.At(c)
			if ca != cb {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("Expected different seeds to produce different grids")
	}
}

func TestGenerateStartAndGoalClearings(t *testing.T) {
	grid, err := Generate(20, 7)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Radius-2 neighborhoods around start and goal hold no obstacles.
	checkArea := func(pos Coordinate) {
		for y := pos.Y - 2; y <= pos.Y+2; y++ {
			for x := pos.X - 2; x <= pos.X+2; x++ {
				c := Coordinate{X: x, Y: y}
				if !grid.InBounds(c) {
					continue
				}
				cell, _ := grid.At(c)
				if cell == Obstacle {
					t.Errorf("Obstacle at %s inside the clearing around %s", c, pos)
				}
			}
		}
	}
	checkArea(grid.Start())
	checkArea(grid.Goal())

	cell, _ := grid.At(grid.Goal())
	if cell != GoalMarker {
		t.Errorf("Goal cell = %s, want %s", cell, GoalMarker)
	}
}

func TestGenerateAlwaysConnected(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		grid, err := Generate(20, seed)
		if err != nil {
			t.Fatalf("Generate(20, %d) failed: %v", seed, err)
		}
		if !grid.reachable(grid.Start(), grid.Goal()) {
			t.Errorf("Seed %d: goal unreachable from start", seed)
		}
	}
}

func TestGenerateSeedRecorded(t *testing.T) {
	grid, err := Generate(15, 99)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if grid.Seed() != 99 {
		t.Errorf("Seed = %d, want 99", grid.Seed())
	}
}
