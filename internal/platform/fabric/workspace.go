package fabric

import (
	"context"
	"fmt"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

// Workspace is a Fabric workspace.
type Workspace struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	CapacityID  string `json:"capacityId,omitempty"`
}

// WorkspaceCreateOpts holds the parameters for creating a workspace.
type WorkspaceCreateOpts struct {
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	CapacityID  string `json:"capacityId,omitempty"`
}

// GetWorkspaceByName returns the workspace with exactly the given display
// name, or a not-found classified error.
func (c *Client) GetWorkspaceByName(ctx context.Context, name string) (*Workspace, error) {
	var resp listResponse[Workspace]
	if err := c.rest.Get(ctx, "/workspaces", &resp); err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	for i := range resp.Value {
		if resp.Value[i].DisplayName == name {
			return &resp.Value[i], nil
		}
	}
	return nil, orchestrator.Classifyf(orchestrator.ClassNotFound, "workspace %q not found", name)
}

// CreateWorkspace creates a workspace, optionally bound to a capacity.
func (c *Client) CreateWorkspace(ctx context.Context, opts WorkspaceCreateOpts) (*Workspace, error) {
	var workspace Workspace
	if err := c.rest.Post(ctx, "/workspaces", opts, &workspace); err != nil {
		return nil, fmt.Errorf("creating workspace %q: %w", opts.DisplayName, err)
	}
	return &workspace, nil
}

// AssignWorkspaceToCapacity moves an existing workspace onto a capacity.
// Used when the workspace pre-exists but is not on the desired capacity.
func (c *Client) AssignWorkspaceToCapacity(ctx context.Context, workspaceID, capacityID string) error {
	body := map[string]string{"capacityId": capacityID}
	if err := c.rest.Post(ctx, "/workspaces/"+workspaceID+"/assignToCapacity", body, nil); err != nil {
		return fmt.Errorf("assigning workspace %s to capacity %s: %w", workspaceID, capacityID, err)
	}
	return nil
}
