package rover

import "github.com/roversim/mars-rover-sim/sim/terrain"

// EfficiencyMetrics summarizes how well the rover is spending its
// energy budget on the current plan.
type EfficiencyMetrics struct {
	EnergyPerStep       float64                  `json:"energy_per_step"`
	ProgressRate        float64                  `json:"progress_rate"`
	TerrainDistribution map[terrain.Cell]float64 `json:"terrain_distribution"`
}

// PathStats describes progress through the assigned plan.
type PathStats struct {
	TotalLength   int     `json:"total_length"`
	Completed     int     `json:"completed"`
	Remaining     int     `json:"remaining"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Metrics computes derived efficiency figures over the traversal so
// far. Returns nil when no plan is assigned.
func (r *Rover) Metrics() *EfficiencyMetrics {
	if r.plan == nil {
		return nil
	}

	steps := r.totalDistance
	if steps < 1 {
		steps = 1
	}

	return &EfficiencyMetrics{
		EnergyPerStep:       (r.initialEnergy - r.energy) / float64(steps),
		ProgressRate:        float64(r.planIndex) / float64(max(1, r.plan.Length())),
		TerrainDistribution: r.TerrainDistribution(),
	}
}

// TerrainDistribution returns the fraction of traversed steps per cost
// class. Empty map when nothing has been traversed.
func (r *Rover) TerrainDistribution() map[terrain.Cell]float64 {
	dist := make(map[terrain.Cell]float64)
	if len(r.visitedTerrain) == 0 {
		return dist
	}

	for _, cell := range r.visitedTerrain {
		dist[cell]++
	}
	total := float64(len(r.visitedTerrain))
	for cell := range dist {
		dist[cell] /= total
	}
	return dist
}

// Stats returns plan progress statistics, nil when no plan is set.
func (r *Rover) Stats() *PathStats {
	if r.plan == nil {
		return nil
	}

	remaining := r.plan.Length() - r.planIndex
	estimated := 0.0
	if remaining > 0 && r.speed > 0 {
		estimated = float64(remaining) / r.speed
	}

	return &PathStats{
		TotalLength:   r.plan.Length(),
		Completed:     r.planIndex,
		Remaining:     remaining,
		EstimatedTime: estimated,
	}
}
