package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

func sampleReport() *orchestrator.Report {
	started := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return &orchestrator.Report{
		RunID:      "run-1234",
		Outcome:    orchestrator.OutcomePartialFailure,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Records: map[string]*orchestrator.Record{
			"capacity": {
				Step:    "capacity",
				Status:  orchestrator.StatusSucceededExisting,
				Outputs: orchestrator.Outputs{"id": "cap-1", "state": "Active"},
				Warning: "capacity not Active after 15m; proceeding",
			},
			"workspace": {
				Step:      "workspace",
				Status:    orchestrator.StatusFailed,
				Attempts:  5,
				LastClass: orchestrator.ClassTransient,
				Error:     "listing workspaces: 503",
			},
			"lakehouse-raw": {
				Step:   "lakehouse-raw",
				Status: orchestrator.StatusSkipped,
				Error:  "dependency workspace did not succeed",
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	original := sampleReport()

	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, original.RunID, loaded.RunID)
	assert.Equal(t, original.Outcome, loaded.Outcome)
	require.Len(t, loaded.Records, 3)
	assert.Equal(t, orchestrator.StatusFailed, loaded.Records["workspace"].Status)
	assert.Equal(t, orchestrator.ClassTransient, loaded.Records["workspace"].LastClass)
	assert.Equal(t, "cap-1", loaded.Records["capacity"].Outputs["id"])
	assert.Equal(t, []string{"lakehouse-raw", "workspace"}, loaded.ResumeSet())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading report")
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, Save(path, sampleReport()))

	corrupt := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o600))

	_, err := Load(corrupt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding report")
}

func TestRenderPlain(t *testing.T) {
	out := Render(sampleReport(), false)

	assert.Contains(t, out, "lakeforge run run-1234")
	assert.Contains(t, out, "SucceededExisting")
	assert.Contains(t, out, "warning: capacity not Active")
	assert.Contains(t, out, "listing workspaces: 503")
	assert.Contains(t, out, "PartialFailure (1 failed, 1 skipped)")
	assert.Contains(t, out, "re-run with --resume to retry: lakehouse-raw, workspace")

	// Steps are listed in stable sorted order.
	capIdx := strings.Index(out, "capacity")
	wsIdx := strings.Index(out, "workspace")
	assert.Less(t, capIdx, wsIdx)
}

func TestRenderAllSucceeded(t *testing.T) {
	r := sampleReport()
	r.Outcome = orchestrator.OutcomeAllSucceeded
	r.Records = map[string]*orchestrator.Record{
		"capacity": {Step: "capacity", Status: orchestrator.StatusSucceeded, Attempts: 1, Duration: 2 * time.Second},
	}

	out := Render(r, false)
	assert.Contains(t, out, "AllSucceeded")
	assert.NotContains(t, out, "--resume")
}
