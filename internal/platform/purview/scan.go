package purview

import (
	"context"
	"fmt"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

// Scan run states reported by the control plane.
const (
	ScanRunQueued     = "Queued"
	ScanRunInProgress = "InProgress"
	ScanRunSucceeded  = "Succeeded"
	ScanRunFailed     = "Failed"
	ScanRunCancelled  = "Cancelled"
)

// Scan is a scan definition attached to a data source.
type Scan struct {
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	DataSourceName string `json:"-"`
	Collection     string `json:"-"`
}

type scanBody struct {
	Name       string `json:"name,omitempty"`
	Kind       string `json:"kind"`
	Properties struct {
		Collection *struct {
			ReferenceName string `json:"referenceName"`
			Type          string `json:"type"`
		} `json:"collection,omitempty"`
	} `json:"properties"`
}

// GetScan returns the named scan on the data source, or a not-found
// classified error.
func (c *Client) GetScan(ctx context.Context, dataSource, name string) (*Scan, error) {
	var body scanBody
	if err := c.rest.Get(ctx, "/scan/datasources/"+dataSource+"/scans/"+name, &body); err != nil {
		return nil, fmt.Errorf("getting scan %q: %w", name, err)
	}
	scan := &Scan{Name: body.Name, Kind: body.Kind, DataSourceName: dataSource}
	if body.Properties.Collection != nil {
		scan.Collection = body.Properties.Collection.ReferenceName
	}
	return scan, nil
}

// CreateScan creates a scan definition on the data source.
func (c *Client) CreateScan(ctx context.Context, scan Scan) (*Scan, error) {
	var body scanBody
	body.Kind = scan.Kind
	if scan.Collection != "" {
		body.Properties.Collection = &struct {
			ReferenceName string `json:"referenceName"`
			Type          string `json:"type"`
		}{ReferenceName: scan.Collection, Type: "CollectionReference"}
	}

	var created scanBody
	if err := c.rest.Put(ctx, "/scan/datasources/"+scan.DataSourceName+"/scans/"+scan.Name, body, &created); err != nil {
		return nil, fmt.Errorf("creating scan %q: %w", scan.Name, err)
	}
	return &Scan{
		Name:           created.Name,
		Kind:           created.Kind,
		DataSourceName: scan.DataSourceName,
		Collection:     scan.Collection,
	}, nil
}

// RunScan triggers a run of the scan and returns the run ID. A run already
// in progress conflicts; the in-flight run's ID is not recoverable from
// that response, so the caller receives the conflict classification and
// decides.
func (c *Client) RunScan(ctx context.Context, dataSource, scan, runID string) (string, error) {
	var out struct {
		RunID string `json:"runId"`
	}
	path := "/scan/datasources/" + dataSource + "/scans/" + scan + "/runs/" + runID
	if err := c.rest.Put(ctx, path, map[string]string{"scanLevel": "Incremental"}, &out); err != nil {
		return "", fmt.Errorf("triggering scan %q: %w", scan, err)
	}
	if out.RunID == "" {
		out.RunID = runID
	}
	return out.RunID, nil
}

// GetScanRunStatus returns the status of a scan run.
func (c *Client) GetScanRunStatus(ctx context.Context, dataSource, scan, runID string) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	path := "/scan/datasources/" + dataSource + "/scans/" + scan + "/runs/" + runID
	if err := c.rest.Get(ctx, path, &out); err != nil {
		return "", fmt.Errorf("getting scan run %s: %w", runID, err)
	}
	return out.Status, nil
}

// ScanRunTerminal reports whether a scan run state is final, with an error
// for failure states.
func ScanRunTerminal(state string) (bool, error) {
	switch state {
	case ScanRunSucceeded:
		return true, nil
	case ScanRunFailed, ScanRunCancelled:
		return false, orchestrator.Classifyf(orchestrator.ClassFatal, "scan run ended %s", state)
	}
	return false, nil
}
