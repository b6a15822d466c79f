package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
	"github.com/lakeforge/lakeforge/internal/platform/fabric"
)

// CapacityStep converges the named Fabric capacity to the Active state.
//
// Capacities are billed Azure resources created out of band, so this step
// never creates one: a missing capacity is a configuration failure. A
// paused capacity is resumed and polled until Active. Whether a poll that
// runs out of time fails the step is declared per configuration.
type CapacityStep struct {
	Fabric FabricService

	CapacityName string

	PollInterval     time.Duration
	PollTimeout      time.Duration
	ProceedOnTimeout bool
}

func (s *CapacityStep) Name() string           { return StepCapacity }
func (s *CapacityStep) Dependencies() []string { return nil }

func (s *CapacityStep) Execute(ctx context.Context, run *orchestrator.Run) (*orchestrator.Result, error) {
	capacity, err := s.Fabric.GetCapacityByName(ctx, s.CapacityName)
	if err != nil {
		if orchestrator.IsNotFound(err) {
			return nil, orchestrator.Classifyf(orchestrator.ClassFatal,
				"capacity %q does not exist; capacities are provisioned out of band", s.CapacityName)
		}
		return nil, err
	}

	outputs := orchestrator.Outputs{
		OutputID:    capacity.ID,
		OutputState: capacity.State,
	}

	if capacity.State == fabric.CapacityActive {
		return &orchestrator.Result{Outputs: outputs, Existing: true}, nil
	}

	if capacity.State == fabric.CapacityPaused || capacity.State == fabric.CapacityPausing {
		if err := s.Fabric.ResumeCapacity(ctx, capacity.ID); err != nil {
			return nil, fmt.Errorf("resuming capacity %q: %w", s.CapacityName, err)
		}
	}

	state, timedOut, err := orchestrator.PollUntil(ctx,
		orchestrator.ObservedStatus(run.Observer, s.Name(), func(ctx context.Context) (string, error) {
			return s.Fabric.GetCapacityState(ctx, capacity.ID)
		}),
		capacityTerminal,
		s.PollInterval, s.PollTimeout,
	)
	if err != nil {
		return nil, fmt.Errorf("waiting for capacity %q: %w", s.CapacityName, err)
	}

	outputs[OutputState] = state

	if timedOut {
		if !s.ProceedOnTimeout {
			return nil, orchestrator.Classifyf(orchestrator.ClassTimeout,
				"capacity %q not Active after %s (last state %s)", s.CapacityName, s.PollTimeout, state)
		}
		return &orchestrator.Result{
			Outputs: outputs,
			Warning: fmt.Sprintf("capacity %q not Active after %s (last state %s); proceeding", s.CapacityName, s.PollTimeout, state),
		}, nil
	}

	return &orchestrator.Result{Outputs: outputs}, nil
}

// capacityTerminal ends the poll on Active, and aborts on Failed, which no
// amount of waiting repairs.
func capacityTerminal(state string) (bool, error) {
	switch state {
	case fabric.CapacityActive:
		return true, nil
	case fabric.CapacityFailed:
		return false, orchestrator.Classifyf(orchestrator.ClassFatal, "capacity entered Failed state")
	}
	return false, nil
}
