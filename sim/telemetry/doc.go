// Package telemetry records per-step rover observations and aggregates
// finished missions into reports.
//
// A Recorder holds one in-progress mission at a time plus an
// append-only history of finalized MissionRecords. Records serialize to
// JSON with stable field names and round-trip through SaveRecords and
// LoadRecords without loss.
package telemetry
