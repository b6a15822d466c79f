package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
	"github.com/lakeforge/lakeforge/internal/platform/purview"
)

// ScanStep ensures the scan definition exists on the data source and,
// when configured, triggers a run and waits for it to finish.
//
// A conflicting trigger means a run is already in progress; the step
// tolerates that with a warning rather than racing the in-flight run.
type ScanStep struct {
	Purview PurviewService

	ScanName   string
	TriggerRun bool

	DataSource orchestrator.Binding
	Collection orchestrator.Binding

	PollInterval     time.Duration
	PollTimeout      time.Duration
	ProceedOnTimeout bool

	// NewRunID generates run identifiers. Defaults to random UUIDs;
	// tests pin it.
	NewRunID func() string
}

func (s *ScanStep) Name() string           { return StepScan }
func (s *ScanStep) Dependencies() []string { return []string{StepDataSource} }

func (s *ScanStep) Execute(ctx context.Context, run *orchestrator.Run) (*orchestrator.Result, error) {
	dataSource, err := s.DataSource.Resolve(run.Store)
	if err != nil {
		return nil, err
	}
	collection, err := s.Collection.Resolve(run.Store)
	if err != nil {
		return nil, err
	}

	scan, existing, err := orchestrator.Ensure(ctx,
		func(ctx context.Context) (*purview.Scan, error) {
			return s.Purview.GetScan(ctx, dataSource, s.ScanName)
		},
		func(ctx context.Context) (*purview.Scan, error) {
			return s.Purview.CreateScan(ctx, purview.Scan{
				Name:           s.ScanName,
				Kind:           DataSourceKindFabric + "Msi",
				DataSourceName: dataSource,
				Collection:     collection,
			})
		},
	)
	if err != nil {
		return nil, err
	}

	outputs := orchestrator.Outputs{OutputName: scan.Name}

	if !s.TriggerRun {
		return &orchestrator.Result{Outputs: outputs, Existing: existing}, nil
	}

	newRunID := s.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}

	runID, err := s.Purview.RunScan(ctx, dataSource, s.ScanName, newRunID())
	if err != nil {
		if orchestrator.IsConflict(err) {
			return &orchestrator.Result{
				Outputs: outputs,
				Warning: fmt.Sprintf("scan %q already has a run in progress; not starting another", s.ScanName),
			}, nil
		}
		return nil, err
	}
	outputs[OutputRunID] = runID

	status, timedOut, err := orchestrator.PollUntil(ctx,
		orchestrator.ObservedStatus(run.Observer, s.Name(), func(ctx context.Context) (string, error) {
			return s.Purview.GetScanRunStatus(ctx, dataSource, s.ScanName, runID)
		}),
		purview.ScanRunTerminal,
		s.PollInterval, s.PollTimeout,
	)
	if err != nil {
		return nil, fmt.Errorf("waiting for scan run %s: %w", runID, err)
	}
	outputs[OutputStatus] = status

	if timedOut {
		if !s.ProceedOnTimeout {
			return nil, orchestrator.Classifyf(orchestrator.ClassTimeout,
				"scan run %s still %s after %s", runID, status, s.PollTimeout)
		}
		return &orchestrator.Result{
			Outputs: outputs,
			Warning: fmt.Sprintf("scan run %s still %s after %s; it continues server side", runID, status, s.PollTimeout),
		}, nil
	}

	return &orchestrator.Result{Outputs: outputs}, nil
}
