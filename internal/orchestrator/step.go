package orchestrator

import (
	"context"
	"fmt"
)

// Outputs holds the named identifiers a step produces for downstream steps.
type Outputs map[string]string

// Result is the successful outcome of a step execution.
type Result struct {
	// Outputs are published to the output store under "stepName.outputName".
	Outputs Outputs

	// Existing is true when the step found the target resource by its
	// natural key and mutated nothing. The record is marked
	// SucceededExisting instead of Succeeded.
	Existing bool

	// Warning carries a non-fatal condition the step chose to tolerate,
	// such as a convergence poll that timed out on a step declared
	// timeout-tolerant. It is surfaced in the report but does not fail
	// the step.
	Warning string
}

// Step is the unit of provisioning work: an idempotent ensure operation with
// declared dependencies and named outputs.
//
// Execute must be safe to invoke any number of times: it checks whether the
// target resource already exists before creating it, and treats a creation
// conflict as success. Failures are returned with a Classification attached
// so the retry policy can interpret them.
type Step interface {
	// Name identifies the step. It prefixes all of the step's output keys.
	Name() string

	// Dependencies returns the names of steps that must reach a successful
	// terminal record before this step runs.
	Dependencies() []string

	// Execute performs the ensure operation, resolving inputs from the run's
	// output store.
	Execute(ctx context.Context, run *Run) (*Result, error)
}

// Run carries the per-run collaborators a step may use during execution.
// It is owned by the executor for the lifetime of one orchestration run;
// there is no process-wide state.
type Run struct {
	// ID uniquely identifies this orchestration run.
	ID string

	// Store holds the outputs of completed steps.
	Store *OutputStore

	// Observer receives structured events emitted during execution.
	Observer Observer
}

// Binding resolves a step input either from an upstream step's output or
// from static configuration.
type Binding struct {
	// Ref is an output store key in "stepName.outputName" form. Takes
	// precedence over Static when set.
	Ref string

	// Static is a literal value.
	Static string
}

// StaticBinding returns a binding carrying a literal value.
func StaticBinding(value string) Binding {
	return Binding{Static: value}
}

// OutputBinding returns a binding referencing an upstream step's output.
func OutputBinding(step, output string) Binding {
	return Binding{Ref: OutputKey(step, output)}
}

// Resolve returns the bound value. A dangling Ref is a configuration bug in
// the pipeline wiring, reported as fatal so it is never retried.
func (b Binding) Resolve(store *OutputStore) (string, error) {
	if b.Ref == "" {
		return b.Static, nil
	}
	value, ok := store.Lookup(b.Ref)
	if !ok {
		return "", Classifyf(ClassFatal, "unresolved input binding %q", b.Ref)
	}
	return value, nil
}

// FuncStep adapts a plain function into a Step. Used by tests and one-off
// steps that do not warrant a named type.
type FuncStep struct {
	StepName  string
	DependsOn []string
	Fn        func(ctx context.Context, run *Run) (*Result, error)
}

func (s *FuncStep) Name() string            { return s.StepName }
func (s *FuncStep) Dependencies() []string  { return s.DependsOn }

func (s *FuncStep) Execute(ctx context.Context, run *Run) (*Result, error) {
	if s.Fn == nil {
		return nil, fmt.Errorf("step %s has no function", s.StepName)
	}
	return s.Fn(ctx, run)
}
