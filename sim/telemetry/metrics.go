package telemetry

// PerformanceMetrics aggregates across all recorded missions.
type PerformanceMetrics struct {
	SuccessRate          float64 `json:"success_rate"`
	AvgEnergyPerStep     float64 `json:"avg_energy_per_step"`
	AvgMissionDistance   float64 `json:"avg_mission_distance"`
	TotalMissions        int     `json:"total_missions"`
	LongestMission       int     `json:"longest_mission"`
	MostEfficientMission string  `json:"most_efficient_mission,omitempty"`
}

// PerformanceMetrics computes aggregate figures over the mission
// history. Zero-distance missions count as distance 1 in the
// energy-per-step denominator to avoid division by zero.
func (r *Recorder) PerformanceMetrics() PerformanceMetrics {
	if len(r.history) == 0 {
		return PerformanceMetrics{}
	}

	var (
		successes     int
		distanceSum   float64
		longest       int
		bestID        string
		bestPerStep   float64
		perStepValues float64
	)

	for i, m := range r.history {
		if m.Success {
			successes++
		}
		distance := m.TotalDistance
		if distance == 0 {
			distance = 1
		}
		perStep := m.EnergyConsumed / float64(distance)
		perStepValues += perStep
		distanceSum += float64(m.TotalDistance)
		if m.TotalDistance > longest {
			longest = m.TotalDistance
		}
		if i == 0 || perStep < bestPerStep {
			bestPerStep = perStep
			bestID = m.MissionID
		}
	}

	n := float64(len(r.history))
	return PerformanceMetrics{
		SuccessRate:          float64(successes) / n * 100,
		AvgEnergyPerStep:     perStepValues / n,
		AvgMissionDistance:   distanceSum / n,
		TotalMissions:        len(r.history),
		LongestMission:       longest,
		MostEfficientMission: bestID,
	}
}
