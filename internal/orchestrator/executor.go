package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Executor runs a step graph to completion. Independent steps run
// concurrently on a bounded worker pool; steps joined by a dependency edge
// are strictly ordered. The executor exclusively owns every execution record
// and the output store for the duration of one run.
type Executor struct {
	graph    *Graph
	workers  int
	retry    RetryConfig
	observer Observer
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithWorkers bounds the number of concurrently running steps. Remote
// control planes rate-limit aggressively, so the default is deliberately
// small.
func WithWorkers(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithRetryConfig sets the per-step retry bounds.
func WithRetryConfig(cfg RetryConfig) ExecutorOption {
	return func(e *Executor) { e.retry = cfg }
}

// WithObserver sets the event sink for the run.
func WithObserver(obs Observer) ExecutorOption {
	return func(e *Executor) { e.observer = obs }
}

// NewExecutor creates an executor for the given graph.
func NewExecutor(graph *Graph, opts ...ExecutorOption) *Executor {
	e := &Executor{
		graph:    graph,
		workers:  4,
		retry:    DefaultRetryConfig(),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunOptions scopes a run for resumption after a partial failure.
type RunOptions struct {
	// AlreadyDone names steps from a prior run that should be treated as
	// succeeded without being invoked.
	AlreadyDone []string

	// SeedOutputs pre-populates the output store, typically with
	// Report.Outputs() from the prior run, so the bindings of re-executed
	// steps resolve.
	SeedOutputs map[string]string
}

// ResumeOptions derives RunOptions from a prior run's report: every
// successful step is carried over, and its outputs are seeded.
func ResumeOptions(prior *Report) RunOptions {
	opts := RunOptions{SeedOutputs: prior.Outputs()}
	for name, record := range prior.Records {
		if record.Status.Success() {
			opts.AlreadyDone = append(opts.AlreadyDone, name)
		}
	}
	return opts
}

// carriedOutputs recovers a carried-over step's outputs from the seed, so
// the report of a resumed run is itself a valid resume seed.
func carriedOutputs(step string, seed map[string]string) Outputs {
	var outputs Outputs
	prefix := step + "."
	for key, value := range seed {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if outputs == nil {
			outputs = make(Outputs)
		}
		outputs[strings.TrimPrefix(key, prefix)] = value
	}
	return outputs
}

// Run executes the full graph.
func (e *Executor) Run(ctx context.Context) (*Report, error) {
	return e.RunWithOptions(ctx, RunOptions{})
}

// RunWithOptions executes the graph, honoring resume options. The returned
// report contains a terminal record for every step regardless of outcome; a
// non-nil error is returned only for configuration problems detected before
// execution, in which case zero remote calls have been made.
func (e *Executor) RunWithOptions(ctx context.Context, opts RunOptions) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Records:   make(map[string]*Record, e.graph.Len()),
	}

	order, err := e.graph.TopoOrder()
	if err != nil {
		report.Outcome = OutcomeConfigurationError
		report.FinishedAt = time.Now()
		runsTotal.WithLabelValues(string(report.Outcome)).Inc()
		return report, err
	}
	for _, name := range opts.AlreadyDone {
		if e.graph.Step(name) == nil {
			report.Outcome = OutcomeConfigurationError
			report.FinishedAt = time.Now()
			runsTotal.WithLabelValues(string(report.Outcome)).Inc()
			return report, &ConfigurationError{Reason: fmt.Sprintf("unknown step %q in resume set", name)}
		}
	}

	store := NewOutputStore()
	if err := store.Seed(opts.SeedOutputs); err != nil {
		report.Outcome = OutcomeConfigurationError
		report.FinishedAt = time.Now()
		runsTotal.WithLabelValues(string(report.Outcome)).Inc()
		return report, &ConfigurationError{Reason: err.Error()}
	}

	for _, name := range order {
		report.Records[name] = &Record{Step: name, Status: StatusPending}
	}
	for _, name := range opts.AlreadyDone {
		record := report.Records[name]
		record.Status = StatusSucceeded
		record.Outputs = carriedOutputs(name, opts.SeedOutputs)
	}

	// Every event of the run carries the run id as a context field.
	obs := e.observer.WithFields(map[string]string{"run": report.RunID})
	run := &Run{ID: report.RunID, Store: store, Observer: obs}
	obs.Event(Event{
		Type:    EventRunStarted,
		Message: fmt.Sprintf("run %s: %d steps, %d carried over", run.ID, len(order), len(opts.AlreadyDone)),
	})

	e.execute(ctx, order, report.Records, run)

	report.Outcome = computeOutcome(report.Records)
	report.FinishedAt = time.Now()
	runsTotal.WithLabelValues(string(report.Outcome)).Inc()
	obs.Event(Event{
		Type:    EventRunCompleted,
		Message: fmt.Sprintf("run %s: %s", run.ID, report.Outcome),
	})
	return report, nil
}

type stepResult struct {
	name    string
	outcome RetryOutcome
}

// execute is the scheduling loop. It runs on a single goroutine that owns
// all record and store mutations; workers only execute steps and report
// back over a channel.
func (e *Executor) execute(ctx context.Context, order []string, records map[string]*Record, run *Run) {
	results := make(chan stepResult)
	inFlight := 0
	cancelled := false

	for {
		// Resolve every step whose dependencies are all terminal: skip it if
		// any dependency did not succeed, dispatch it if a worker is free.
		// Skips unblock dependents, so loop until nothing changes.
		for !cancelled {
			progress := false
			for _, name := range order {
				record := records[name]
				if record.Status != StatusPending {
					continue
				}
				ready, failedDep := e.depState(name, records)
				if !ready {
					continue
				}
				if failedDep != "" {
					markSkipped(record, fmt.Sprintf("dependency %s did not succeed", failedDep), run.Observer)
					progress = true
					continue
				}
				if inFlight >= e.workers {
					continue
				}
				e.dispatch(ctx, name, record, run, results)
				inFlight++
				progress = true
			}
			if !progress {
				break
			}
		}

		if cancelled {
			for _, name := range order {
				if records[name].Status == StatusPending {
					markSkipped(records[name], "run cancelled", run.Observer)
				}
			}
		}

		if inFlight == 0 {
			if e.allTerminal(order, records) {
				return
			}
			// Pending steps remain but nothing can run: only reachable when
			// cancellation raced the skip pass above. Loop once more.
			cancelled = true
			continue
		}

		if cancelled {
			// Let in-flight remote calls complete; no mid-request abort.
			res := <-results
			inFlight--
			e.finalize(records[res.name], res.outcome, run)
			continue
		}

		select {
		case res := <-results:
			inFlight--
			e.finalize(records[res.name], res.outcome, run)
		case <-ctx.Done():
			cancelled = true
		}
	}
}

// depState reports whether all dependencies of name are terminal, and if so
// the first one that did not succeed.
func (e *Executor) depState(name string, records map[string]*Record) (ready bool, failedDep string) {
	for _, dep := range e.graph.Step(name).Dependencies() {
		status := records[dep].Status
		if !status.Terminal() {
			return false, ""
		}
		if !status.Success() && failedDep == "" {
			failedDep = dep
		}
	}
	return true, failedDep
}

func (e *Executor) allTerminal(order []string, records map[string]*Record) bool {
	for _, name := range order {
		if !records[name].Status.Terminal() {
			return false
		}
	}
	return true
}

func (e *Executor) dispatch(ctx context.Context, name string, record *Record, run *Run, results chan<- stepResult) {
	record.Status = StatusRunning
	record.StartedAt = time.Now()
	run.Observer.Event(Event{Type: EventStepStarted, Step: name})

	step := e.graph.Step(name)
	retryCfg := e.retry
	retryCfg.OnRetry = func(attempt int, class Classification, err error) {
		run.Observer.Event(Event{
			Type:    EventStepRetry,
			Step:    name,
			Message: fmt.Sprintf("attempt %d failed (%s), retrying: %v", attempt, class, err),
		})
	}

	go func() {
		outcome := RunWithRetry(ctx, retryCfg, func(ctx context.Context) (*Result, error) {
			return step.Execute(ctx, run)
		})
		results <- stepResult{name: name, outcome: outcome}
	}()
}

func (e *Executor) finalize(record *Record, outcome RetryOutcome, run *Run) {
	record.Attempts = outcome.Attempts
	record.FinishedAt = time.Now()
	record.Duration = record.FinishedAt.Sub(record.StartedAt)

	if outcome.Err != nil {
		record.Status = StatusFailed
		record.LastClass = outcome.LastClass
		record.Error = outcome.Err.Error()
		run.Observer.Event(Event{
			Type:    EventStepFailed,
			Step:    record.Step,
			Message: outcome.Err.Error(),
			Fields:  map[string]string{"classification": string(outcome.LastClass), "attempts": fmt.Sprint(outcome.Attempts)},
		})
		observeRecord(record)
		return
	}

	result := outcome.Result
	if result == nil {
		result = &Result{}
	}
	record.Outputs = result.Outputs
	record.Warning = result.Warning

	if err := run.Store.Publish(record.Step, result.Outputs); err != nil {
		record.Status = StatusFailed
		record.LastClass = ClassFatal
		record.Error = err.Error()
		observeRecord(record)
		return
	}

	if result.Existing {
		record.Status = StatusSucceededExisting
		run.Observer.Event(Event{Type: EventStepExists, Step: record.Step, Message: "resource already present"})
	} else {
		record.Status = StatusSucceeded
		run.Observer.Event(Event{Type: EventStepSucceeded, Step: record.Step})
	}
	if result.Warning != "" {
		run.Observer.Event(Event{Type: EventStepWarning, Step: record.Step, Message: result.Warning})
	}
	observeRecord(record)
}

func markSkipped(record *Record, reason string, obs Observer) {
	record.Status = StatusSkipped
	record.Error = reason
	obs.Event(Event{Type: EventStepSkipped, Step: record.Step, Message: reason})
	observeRecord(record)
}
