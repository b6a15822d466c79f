package orchestrator

import (
	"sort"
	"time"
)

// Outcome is the overall result of an orchestration run.
type Outcome string

const (
	// OutcomeAllSucceeded means every step reached a successful terminal record.
	OutcomeAllSucceeded Outcome = "AllSucceeded"
	// OutcomePartialFailure means at least one step failed or was skipped.
	OutcomePartialFailure Outcome = "PartialFailure"
	// OutcomeConfigurationError means the graph was rejected before any step ran.
	OutcomeConfigurationError Outcome = "ConfigurationError"
)

// Report is the complete result of one orchestration run: a terminal record
// for every step regardless of overall success, so a later run can be scoped
// to exactly the failed and skipped subset.
type Report struct {
	RunID      string             `json:"runId"`
	Outcome    Outcome            `json:"outcome"`
	StartedAt  time.Time          `json:"startedAt"`
	FinishedAt time.Time          `json:"finishedAt"`
	Records    map[string]*Record `json:"records"`
}

// Failed returns the names of failed steps, sorted.
func (r *Report) Failed() []string {
	return r.withStatus(StatusFailed)
}

// Skipped returns the names of skipped steps, sorted.
func (r *Report) Skipped() []string {
	return r.withStatus(StatusSkipped)
}

// ResumeSet returns the names of steps a follow-up run should execute: the
// failed and skipped subset.
func (r *Report) ResumeSet() []string {
	out := append(r.Failed(), r.Skipped()...)
	sort.Strings(out)
	return out
}

// Outputs flattens every successful step's outputs into store-keyed form,
// suitable for seeding a resumed run's output store.
func (r *Report) Outputs() map[string]string {
	out := make(map[string]string)
	for name, record := range r.Records {
		if !record.Status.Success() {
			continue
		}
		for output, value := range record.Outputs {
			out[OutputKey(name, output)] = value
		}
	}
	return out
}

func (r *Report) withStatus(status Status) []string {
	var out []string
	for name, record := range r.Records {
		if record.Status == status {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func computeOutcome(records map[string]*Record) Outcome {
	for _, record := range records {
		if !record.Status.Success() {
			return OutcomePartialFailure
		}
	}
	return OutcomeAllSucceeded
}
