package provisioning

import (
	"context"

	"github.com/lakeforge/lakeforge/internal/platform/fabric"
	"github.com/lakeforge/lakeforge/internal/platform/purview"
)

// FabricService is the slice of the Fabric control plane the steps use.
// Implemented by *fabric.Client; tests substitute fakes.
type FabricService interface {
	GetCapacityByName(ctx context.Context, name string) (*fabric.Capacity, error)
	GetCapacityState(ctx context.Context, id string) (string, error)
	ResumeCapacity(ctx context.Context, id string) error

	GetWorkspaceByName(ctx context.Context, name string) (*fabric.Workspace, error)
	CreateWorkspace(ctx context.Context, opts fabric.WorkspaceCreateOpts) (*fabric.Workspace, error)
	AssignWorkspaceToCapacity(ctx context.Context, workspaceID, capacityID string) error

	GetLakehouseByName(ctx context.Context, workspaceID, name string) (*fabric.Lakehouse, error)
	CreateLakehouse(ctx context.Context, workspaceID, name, description string) (*fabric.Lakehouse, error)

	GetDomainByName(ctx context.Context, name string) (*fabric.Domain, error)
	CreateDomain(ctx context.Context, name, description string) (*fabric.Domain, error)
	AssignWorkspacesToDomain(ctx context.Context, domainID string, workspaceIDs []string) error
}

// PurviewService is the slice of the Purview control plane the steps use.
// Implemented by *purview.Client; tests substitute fakes.
type PurviewService interface {
	GetCollection(ctx context.Context, name string) (*purview.Collection, error)
	CreateCollection(ctx context.Context, name, friendlyName, parent string) (*purview.Collection, error)

	GetDataSource(ctx context.Context, name string) (*purview.DataSource, error)
	CreateDataSource(ctx context.Context, source purview.DataSource) (*purview.DataSource, error)

	GetScan(ctx context.Context, dataSource, name string) (*purview.Scan, error)
	CreateScan(ctx context.Context, scan purview.Scan) (*purview.Scan, error)
	RunScan(ctx context.Context, dataSource, scan, runID string) (string, error)
	GetScanRunStatus(ctx context.Context, dataSource, scan, runID string) (string, error)
}

var (
	_ FabricService  = (*fabric.Client)(nil)
	_ PurviewService = (*purview.Client)(nil)
)
