package provisioning

import (
	"context"
	"fmt"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
	"github.com/lakeforge/lakeforge/internal/platform/fabric"
)

// WorkspaceStep ensures the Fabric workspace exists on the configured
// capacity. A pre-existing workspace bound to a different capacity is moved
// onto the desired one.
type WorkspaceStep struct {
	Fabric FabricService

	WorkspaceName string
	Description   string

	// CapacityID resolves the capacity identifier, normally from the
	// capacity step's output.
	CapacityID orchestrator.Binding
}

func (s *WorkspaceStep) Name() string           { return StepWorkspace }
func (s *WorkspaceStep) Dependencies() []string { return []string{StepCapacity} }

func (s *WorkspaceStep) Execute(ctx context.Context, run *orchestrator.Run) (*orchestrator.Result, error) {
	capacityID, err := s.CapacityID.Resolve(run.Store)
	if err != nil {
		return nil, err
	}

	workspace, existing, err := orchestrator.Ensure(ctx,
		func(ctx context.Context) (*fabric.Workspace, error) {
			return s.Fabric.GetWorkspaceByName(ctx, s.WorkspaceName)
		},
		func(ctx context.Context) (*fabric.Workspace, error) {
			return s.Fabric.CreateWorkspace(ctx, fabric.WorkspaceCreateOpts{
				DisplayName: s.WorkspaceName,
				Description: s.Description,
				CapacityID:  capacityID,
			})
		},
	)
	if err != nil {
		return nil, err
	}

	if existing && workspace.CapacityID != capacityID {
		if err := s.Fabric.AssignWorkspaceToCapacity(ctx, workspace.ID, capacityID); err != nil {
			return nil, fmt.Errorf("moving workspace %q onto capacity: %w", s.WorkspaceName, err)
		}
		// The workspace was mutated, so the record must not claim nothing
		// changed.
		existing = false
	}

	return &orchestrator.Result{
		Outputs:  orchestrator.Outputs{OutputID: workspace.ID},
		Existing: existing,
	}, nil
}
