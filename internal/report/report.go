// Package report persists and presents orchestration run reports: a JSON
// file for resumption, a styled console summary, and optional archival to
// object storage and Postgres history.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

// Save writes the report as indented JSON. The file is the input to a later
// --resume run, so it must round-trip through Load.
func Save(path string, report *orchestrator.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Load reads a report written by Save.
func Load(path string) (*orchestrator.Report, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var report orchestrator.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", path, err)
	}
	return &report, nil
}
