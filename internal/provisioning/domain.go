package provisioning

import (
	"context"
	"fmt"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
	"github.com/lakeforge/lakeforge/internal/platform/fabric"
)

// DomainStep ensures the governance domain exists. It has no upstream
// dependencies, so it runs concurrently with the capacity step.
type DomainStep struct {
	Fabric FabricService

	DomainName  string
	Description string
}

func (s *DomainStep) Name() string           { return StepDomain }
func (s *DomainStep) Dependencies() []string { return nil }

func (s *DomainStep) Execute(ctx context.Context, run *orchestrator.Run) (*orchestrator.Result, error) {
	domain, existing, err := orchestrator.Ensure(ctx,
		func(ctx context.Context) (*fabric.Domain, error) {
			return s.Fabric.GetDomainByName(ctx, s.DomainName)
		},
		func(ctx context.Context) (*fabric.Domain, error) {
			return s.Fabric.CreateDomain(ctx, s.DomainName, s.Description)
		},
	)
	if err != nil {
		return nil, err
	}

	return &orchestrator.Result{
		Outputs:  orchestrator.Outputs{OutputID: domain.ID},
		Existing: existing,
	}, nil
}

// DomainAssignStep attaches the workspace to the governance domain.
// Re-assigning a workspace already in the domain is a provider-side no-op,
// so the step is naturally idempotent.
type DomainAssignStep struct {
	Fabric FabricService

	DomainID    orchestrator.Binding
	WorkspaceID orchestrator.Binding
}

func (s *DomainAssignStep) Name() string           { return StepDomainAssign }
func (s *DomainAssignStep) Dependencies() []string { return []string{StepDomain, StepWorkspace} }

func (s *DomainAssignStep) Execute(ctx context.Context, run *orchestrator.Run) (*orchestrator.Result, error) {
	domainID, err := s.DomainID.Resolve(run.Store)
	if err != nil {
		return nil, err
	}
	workspaceID, err := s.WorkspaceID.Resolve(run.Store)
	if err != nil {
		return nil, err
	}

	if err := s.Fabric.AssignWorkspacesToDomain(ctx, domainID, []string{workspaceID}); err != nil {
		return nil, fmt.Errorf("assigning workspace to domain: %w", err)
	}

	return &orchestrator.Result{}, nil
}
