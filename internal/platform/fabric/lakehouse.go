package fabric

import (
	"context"
	"fmt"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

// Lakehouse is a lakehouse item inside a workspace.
type Lakehouse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	WorkspaceID string `json:"workspaceId,omitempty"`
}

// GetLakehouseByName returns the lakehouse with exactly the given display
// name within the workspace, or a not-found classified error.
func (c *Client) GetLakehouseByName(ctx context.Context, workspaceID, name string) (*Lakehouse, error) {
	var resp listResponse[Lakehouse]
	if err := c.rest.Get(ctx, "/workspaces/"+workspaceID+"/lakehouses", &resp); err != nil {
		return nil, fmt.Errorf("listing lakehouses in workspace %s: %w", workspaceID, err)
	}
	for i := range resp.Value {
		if resp.Value[i].DisplayName == name {
			return &resp.Value[i], nil
		}
	}
	return nil, orchestrator.Classifyf(orchestrator.ClassNotFound, "lakehouse %q not found in workspace %s", name, workspaceID)
}

// CreateLakehouse creates a lakehouse in the workspace.
func (c *Client) CreateLakehouse(ctx context.Context, workspaceID, name, description string) (*Lakehouse, error) {
	body := map[string]string{"displayName": name}
	if description != "" {
		body["description"] = description
	}
	var lakehouse Lakehouse
	if err := c.rest.Post(ctx, "/workspaces/"+workspaceID+"/lakehouses", body, &lakehouse); err != nil {
		return nil, fmt.Errorf("creating lakehouse %q: %w", name, err)
	}
	return &lakehouse, nil
}
