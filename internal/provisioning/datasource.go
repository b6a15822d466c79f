package provisioning

import (
	"context"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
	"github.com/lakeforge/lakeforge/internal/platform/purview"
)

// DataSourceKindFabric is the Purview source kind covering Fabric and
// Power BI tenants.
const DataSourceKindFabric = "PowerBI"

// DataSourceStep registers the Fabric tenant as a scannable data source in
// the collection.
type DataSourceStep struct {
	Purview PurviewService

	DataSourceName string
	TenantID       string

	Collection orchestrator.Binding
}

func (s *DataSourceStep) Name() string { return StepDataSource }

// Registration itself is tenant-level, but the source exists to be scanned:
// it is ordered after the workspace it covers.
func (s *DataSourceStep) Dependencies() []string { return []string{StepWorkspace, StepCollection} }

func (s *DataSourceStep) Execute(ctx context.Context, run *orchestrator.Run) (*orchestrator.Result, error) {
	collection, err := s.Collection.Resolve(run.Store)
	if err != nil {
		return nil, err
	}

	source, existing, err := orchestrator.Ensure(ctx,
		func(ctx context.Context) (*purview.DataSource, error) {
			return s.Purview.GetDataSource(ctx, s.DataSourceName)
		},
		func(ctx context.Context) (*purview.DataSource, error) {
			return s.Purview.CreateDataSource(ctx, purview.DataSource{
				Name:       s.DataSourceName,
				Kind:       DataSourceKindFabric,
				Collection: collection,
				TenantID:   s.TenantID,
			})
		},
	)
	if err != nil {
		return nil, err
	}

	return &orchestrator.Result{
		Outputs:  orchestrator.Outputs{OutputName: source.Name},
		Existing: existing,
	}, nil
}
