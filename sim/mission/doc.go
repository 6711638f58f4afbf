// Package mission wires terrain, planner, rover, and telemetry into one
// tick-driven simulation lifecycle.
//
// A Controller advances strictly one rover step per Tick call; the
// cadence itself (timers, request handlers) lives with the caller.
// Start opens a telemetry mission, a terminal rover status finalizes
// it, and Reset regenerates the terrain while preserving the mission
// history.
package mission
