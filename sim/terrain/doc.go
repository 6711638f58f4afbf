// Package terrain owns the simulated Mars surface: an NxN grid of cost
// classes, the procedural generator that produces it, and the shared
// cost and speed tables every other component reads.
//
// Grid Cells:
//
// Each cell carries one of four cost classes - clear (1x), sand (2x),
// rocks (3x), or obstacle (impassable) - plus two marker classes used
// only by rendering: the rover's current position and the mission goal.
// Markers behave as clear ground for cost purposes.
//
// Generation:
//
// Generate buckets a seeded multi-octave noise field into the four
// classes, carves a central cross-shaped corridor, clears the start and
// goal neighborhoods, thins out a fraction of obstacles, and finally
// verifies start-to-goal connectivity, carving a fallback corridor when
// necessary. The same size and seed always yield the same grid.
//
// Ownership:
//
// One Grid is exclusively owned by one active mission. The planner
// receives the read-only View; the rover holds the only mutation handle
// and touches the grid solely through the rover marker overlay.
package terrain
