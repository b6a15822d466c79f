package orchestrator

import "time"

// Status is the lifecycle state of a step within one run.
type Status string

const (
	// StatusPending means the step has not been scheduled yet.
	StatusPending Status = "Pending"
	// StatusRunning means the step is executing.
	StatusRunning Status = "Running"
	// StatusSucceeded means the step created its resource.
	StatusSucceeded Status = "Succeeded"
	// StatusSucceededExisting means the step found its resource already
	// present and mutated nothing.
	StatusSucceededExisting Status = "SucceededExisting"
	// StatusFailed means the step exhausted its retry budget or hit a fatal
	// error.
	StatusFailed Status = "Failed"
	// StatusSkipped means a direct or transitive dependency failed, or the
	// run was cancelled before the step was scheduled.
	StatusSkipped Status = "Skipped"
)

// Terminal reports whether the status is final for the run.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusSucceededExisting, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// Success reports whether the status is a successful terminal state.
func (s Status) Success() bool {
	return s == StatusSucceeded || s == StatusSucceededExisting
}

// Record is the per-step result of one run. It is created when the executor
// schedules the step, mutated only by the executor, and immutable once the
// status is terminal.
type Record struct {
	Step     string  `json:"step"`
	Status   Status  `json:"status"`
	Attempts int     `json:"attempts"`
	Outputs  Outputs `json:"outputs,omitempty"`

	// LastClass is the deepest error classification observed, recorded for
	// failures so a re-run can be scoped without re-diagnosing.
	LastClass Classification `json:"lastClassification,omitempty"`
	Error     string         `json:"error,omitempty"`
	Warning   string         `json:"warning,omitempty"`

	StartedAt  time.Time     `json:"startedAt,omitempty"`
	FinishedAt time.Time     `json:"finishedAt,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
}
