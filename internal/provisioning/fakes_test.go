package provisioning

import (
	"context"
	"fmt"
	"sync"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
	"github.com/lakeforge/lakeforge/internal/platform/fabric"
	"github.com/lakeforge/lakeforge/internal/platform/purview"
)

// fakeFabric is an in-memory FabricService. Create methods assign
// predictable IDs so tests can assert on output wiring.
type fakeFabric struct {
	mu sync.Mutex

	capacity *fabric.Capacity

	// stateSequence is consumed by GetCapacityState; once drained, the
	// capacity's stored state is returned. Observing Active also pins the
	// stored state to Active.
	stateSequence []string
	resumeCalls   int

	workspaces          map[string]*fabric.Workspace
	lakehouses          map[string][]*fabric.Lakehouse
	domains             map[string]*fabric.Domain
	domainAssignments   map[string][]string
	capacityAssignments map[string]string

	createWorkspaceCalls int
	createLakehouseCalls int
	createDomainCalls    int

	nextID int
}

func newFakeFabric() *fakeFabric {
	return &fakeFabric{
		workspaces:          make(map[string]*fabric.Workspace),
		lakehouses:          make(map[string][]*fabric.Lakehouse),
		domains:             make(map[string]*fabric.Domain),
		domainAssignments:   make(map[string][]string),
		capacityAssignments: make(map[string]string),
	}
}

func (f *fakeFabric) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%04d", prefix, f.nextID)
}

func (f *fakeFabric) GetCapacityByName(ctx context.Context, name string) (*fabric.Capacity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.capacity != nil && f.capacity.DisplayName == name {
		copied := *f.capacity
		return &copied, nil
	}
	return nil, orchestrator.Classifyf(orchestrator.ClassNotFound, "capacity %q not found", name)
}

func (f *fakeFabric) GetCapacityState(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.stateSequence) > 0 {
		state := f.stateSequence[0]
		f.stateSequence = f.stateSequence[1:]
		if state == fabric.CapacityActive {
			f.capacity.State = fabric.CapacityActive
		}
		return state, nil
	}
	return f.capacity.State, nil
}

func (f *fakeFabric) ResumeCapacity(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumeCalls++
	return nil
}

func (f *fakeFabric) GetWorkspaceByName(ctx context.Context, name string) (*fabric.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ws, ok := f.workspaces[name]; ok {
		copied := *ws
		return &copied, nil
	}
	return nil, orchestrator.Classifyf(orchestrator.ClassNotFound, "workspace %q not found", name)
}

func (f *fakeFabric) CreateWorkspace(ctx context.Context, opts fabric.WorkspaceCreateOpts) (*fabric.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createWorkspaceCalls++
	ws := &fabric.Workspace{
		ID:          f.id("ws"),
		DisplayName: opts.DisplayName,
		Description: opts.Description,
		CapacityID:  opts.CapacityID,
	}
	f.workspaces[opts.DisplayName] = ws
	copied := *ws
	return &copied, nil
}

func (f *fakeFabric) AssignWorkspaceToCapacity(ctx context.Context, workspaceID, capacityID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.capacityAssignments[workspaceID] = capacityID
	for _, ws := range f.workspaces {
		if ws.ID == workspaceID {
			ws.CapacityID = capacityID
		}
	}
	return nil
}

func (f *fakeFabric) GetLakehouseByName(ctx context.Context, workspaceID, name string) (*fabric.Lakehouse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, lh := range f.lakehouses[workspaceID] {
		if lh.DisplayName == name {
			copied := *lh
			return &copied, nil
		}
	}
	return nil, orchestrator.Classifyf(orchestrator.ClassNotFound, "lakehouse %q not found", name)
}

func (f *fakeFabric) CreateLakehouse(ctx context.Context, workspaceID, name, description string) (*fabric.Lakehouse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createLakehouseCalls++
	lh := &fabric.Lakehouse{
		ID:          f.id("lh"),
		DisplayName: name,
		Description: description,
		WorkspaceID: workspaceID,
	}
	f.lakehouses[workspaceID] = append(f.lakehouses[workspaceID], lh)
	copied := *lh
	return &copied, nil
}

func (f *fakeFabric) GetDomainByName(ctx context.Context, name string) (*fabric.Domain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.domains[name]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, orchestrator.Classifyf(orchestrator.ClassNotFound, "domain %q not found", name)
}

func (f *fakeFabric) CreateDomain(ctx context.Context, name, description string) (*fabric.Domain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createDomainCalls++
	d := &fabric.Domain{ID: f.id("dom"), DisplayName: name, Description: description}
	f.domains[name] = d
	copied := *d
	return &copied, nil
}

func (f *fakeFabric) AssignWorkspacesToDomain(ctx context.Context, domainID string, workspaceIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.domainAssignments[domainID] = append(f.domainAssignments[domainID], workspaceIDs...)
	return nil
}

// fakePurview is an in-memory PurviewService.
type fakePurview struct {
	mu sync.Mutex

	collections map[string]*purview.Collection
	dataSources map[string]*purview.DataSource
	scans       map[string]*purview.Scan

	// runStatusSequence is consumed by GetScanRunStatus; once drained,
	// Succeeded is returned.
	runStatusSequence []string
	runConflict       bool
	runCalls          int

	createCollectionCalls int
	createDataSourceCalls int
	createScanCalls       int
}

func newFakePurview() *fakePurview {
	return &fakePurview{
		collections: make(map[string]*purview.Collection),
		dataSources: make(map[string]*purview.DataSource),
		scans:       make(map[string]*purview.Scan),
	}
}

func (f *fakePurview) GetCollection(ctx context.Context, name string) (*purview.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.collections[name]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, orchestrator.Classifyf(orchestrator.ClassNotFound, "collection %q not found", name)
}

func (f *fakePurview) CreateCollection(ctx context.Context, name, friendlyName, parent string) (*purview.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCollectionCalls++
	c := &purview.Collection{Name: name, FriendlyName: friendlyName, Parent: parent}
	f.collections[name] = c
	copied := *c
	return &copied, nil
}

func (f *fakePurview) GetDataSource(ctx context.Context, name string) (*purview.DataSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.dataSources[name]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, orchestrator.Classifyf(orchestrator.ClassNotFound, "data source %q not found", name)
}

func (f *fakePurview) CreateDataSource(ctx context.Context, source purview.DataSource) (*purview.DataSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createDataSourceCalls++
	copied := source
	f.dataSources[source.Name] = &copied
	out := copied
	return &out, nil
}

func (f *fakePurview) GetScan(ctx context.Context, dataSource, name string) (*purview.Scan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.scans[dataSource+"/"+name]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, orchestrator.Classifyf(orchestrator.ClassNotFound, "scan %q not found", name)
}

func (f *fakePurview) CreateScan(ctx context.Context, scan purview.Scan) (*purview.Scan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createScanCalls++
	copied := scan
	f.scans[scan.DataSourceName+"/"+scan.Name] = &copied
	out := copied
	return &out, nil
}

func (f *fakePurview) RunScan(ctx context.Context, dataSource, scan, runID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runConflict {
		return "", orchestrator.Classifyf(orchestrator.ClassConflict, "scan %q already running", scan)
	}
	f.runCalls++
	return runID, nil
}

func (f *fakePurview) GetScanRunStatus(ctx context.Context, dataSource, scan, runID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.runStatusSequence) > 0 {
		status := f.runStatusSequence[0]
		f.runStatusSequence = f.runStatusSequence[1:]
		return status, nil
	}
	return purview.ScanRunSucceeded, nil
}
