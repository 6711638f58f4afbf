package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveRecords writes the mission history to path as indented JSON.
func (r *Recorder) SaveRecords(path string) error {
	data, err := json.MarshalIndent(r.history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mission records: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write telemetry file: %w", err)
	}
	return nil
}

// LoadRecords replaces the mission history with the records stored at
// path. A loaded history saved again reproduces the same field values.
func (r *Recorder) LoadRecords(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read telemetry file: %w", err)
	}

	var records []MissionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to unmarshal mission records: %w", err)
	}

	r.history = records
	return nil
}

// ImportRecords appends previously exported records to the history.
func (r *Recorder) ImportRecords(records []MissionRecord) {
	r.history = append(r.history, records...)
}
