package provisioning

import (
	"context"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
	"github.com/lakeforge/lakeforge/internal/platform/fabric"
)

// LakehouseStep ensures one lakehouse exists inside the workspace. Each
// configured lakehouse gets its own step so independent lakehouses are
// created concurrently and fail independently.
type LakehouseStep struct {
	Fabric FabricService

	LakehouseName string
	Description   string

	WorkspaceID orchestrator.Binding
}

func (s *LakehouseStep) Name() string           { return LakehouseStepName(s.LakehouseName) }
func (s *LakehouseStep) Dependencies() []string { return []string{StepWorkspace} }

func (s *LakehouseStep) Execute(ctx context.Context, run *orchestrator.Run) (*orchestrator.Result, error) {
	workspaceID, err := s.WorkspaceID.Resolve(run.Store)
	if err != nil {
		return nil, err
	}

	lakehouse, existing, err := orchestrator.Ensure(ctx,
		func(ctx context.Context) (*fabric.Lakehouse, error) {
			return s.Fabric.GetLakehouseByName(ctx, workspaceID, s.LakehouseName)
		},
		func(ctx context.Context) (*fabric.Lakehouse, error) {
			return s.Fabric.CreateLakehouse(ctx, workspaceID, s.LakehouseName, s.Description)
		},
	)
	if err != nil {
		return nil, err
	}

	return &orchestrator.Result{
		Outputs:  orchestrator.Outputs{OutputID: lakehouse.ID},
		Existing: existing,
	}, nil
}
