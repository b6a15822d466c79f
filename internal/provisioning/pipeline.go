package provisioning

import (
	"fmt"

	"github.com/lakeforge/lakeforge/internal/config"
	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

// BuildGraph assembles the provisioning steps for the given configuration
// into a dependency graph.
//
// The Fabric side forms one chain (capacity, then workspace, then the
// lakehouses fanning out, with the domain converging independently and the
// assignment joining both). The Purview side forms another (collection,
// data source, scan) with no edges into the Fabric chain, so the two
// converge concurrently.
func BuildGraph(cfg *config.Config, timeouts *config.Timeouts, fabricSvc FabricService, purviewSvc PurviewService) (*orchestrator.Graph, error) {
	graph := orchestrator.NewGraph()

	steps := []orchestrator.Step{
		&CapacityStep{
			Fabric:           fabricSvc,
			CapacityName:     cfg.Capacity.Name,
			PollInterval:     timeouts.CapacityPollInterval,
			PollTimeout:      timeouts.CapacityPollTimeout,
			ProceedOnTimeout: cfg.Capacity.OnPollTimeout != config.OnTimeoutFail,
		},
		&WorkspaceStep{
			Fabric:        fabricSvc,
			WorkspaceName: cfg.Workspace.Name,
			Description:   cfg.Workspace.Description,
			CapacityID:    orchestrator.OutputBinding(StepCapacity, OutputID),
		},
	}

	for _, lakehouse := range cfg.Lakehouses {
		steps = append(steps, &LakehouseStep{
			Fabric:        fabricSvc,
			LakehouseName: lakehouse.Name,
			Description:   lakehouse.Description,
			WorkspaceID:   orchestrator.OutputBinding(StepWorkspace, OutputID),
		})
	}

	if cfg.Domain.Name != "" {
		steps = append(steps,
			&DomainStep{
				Fabric:      fabricSvc,
				DomainName:  cfg.Domain.Name,
				Description: cfg.Domain.Description,
			},
			&DomainAssignStep{
				Fabric:      fabricSvc,
				DomainID:    orchestrator.OutputBinding(StepDomain, OutputID),
				WorkspaceID: orchestrator.OutputBinding(StepWorkspace, OutputID),
			},
		)
	}

	if cfg.PurviewEnabled() {
		steps = append(steps,
			&CollectionStep{
				Purview:        purviewSvc,
				CollectionName: cfg.Purview.Collection.Name,
				FriendlyName:   cfg.Purview.Collection.FriendlyName,
				Parent:         cfg.Purview.Collection.Parent,
			},
			&DataSourceStep{
				Purview:        purviewSvc,
				DataSourceName: cfg.Purview.DataSource.Name,
				TenantID:       cfg.Tenant.TenantID,
				Collection:     orchestrator.OutputBinding(StepCollection, OutputName),
			},
			&ScanStep{
				Purview:          purviewSvc,
				ScanName:         cfg.Purview.Scan.Name,
				TriggerRun:       cfg.Purview.Scan.TriggerRun,
				DataSource:       orchestrator.OutputBinding(StepDataSource, OutputName),
				Collection:       orchestrator.OutputBinding(StepCollection, OutputName),
				PollInterval:     timeouts.ScanPollInterval,
				PollTimeout:      timeouts.ScanPollTimeout,
				ProceedOnTimeout: cfg.Purview.Scan.OnPollTimeout != config.OnTimeoutFail,
			},
		)
	}

	for _, step := range steps {
		if err := graph.Add(step); err != nil {
			return nil, fmt.Errorf("assembling pipeline: %w", err)
		}
	}

	return graph, nil
}
