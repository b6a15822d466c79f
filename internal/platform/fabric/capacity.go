package fabric

import (
	"context"
	"fmt"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

// Capacity states reported by the control plane.
const (
	CapacityActive   = "Active"
	CapacityPaused   = "Paused"
	CapacityResuming = "Resuming"
	CapacityPausing  = "Pausing"
	CapacityFailed   = "Failed"
)

// Capacity is a Fabric compute capacity. Capacities are provisioned out of
// band (they are billed Azure resources); the client can only look them up,
// inspect their state, and resume them.
type Capacity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	State       string `json:"state"`
	SKU         string `json:"sku"`
	Region      string `json:"region"`
}

// GetCapacityByName returns the capacity with exactly the given display
// name, or a not-found classified error. Lookup is exact match: fuzzy
// matching could silently bind the run to an unintended capacity.
func (c *Client) GetCapacityByName(ctx context.Context, name string) (*Capacity, error) {
	var resp listResponse[Capacity]
	if err := c.rest.Get(ctx, "/capacities", &resp); err != nil {
		return nil, fmt.Errorf("listing capacities: %w", err)
	}
	for i := range resp.Value {
		if resp.Value[i].DisplayName == name {
			return &resp.Value[i], nil
		}
	}
	return nil, orchestrator.Classifyf(orchestrator.ClassNotFound, "capacity %q not found", name)
}

// GetCapacityState returns the current state of the capacity.
func (c *Client) GetCapacityState(ctx context.Context, id string) (string, error) {
	var capacity Capacity
	if err := c.rest.Get(ctx, "/capacities/"+id, &capacity); err != nil {
		return "", fmt.Errorf("getting capacity %s: %w", id, err)
	}
	return capacity.State, nil
}

// ResumeCapacity requests a resume of a paused capacity. The transition is
// asynchronous; callers poll GetCapacityState until Active.
func (c *Client) ResumeCapacity(ctx context.Context, id string) error {
	if err := c.rest.Post(ctx, "/capacities/"+id+"/resume", nil, nil); err != nil {
		// Resuming an already-resuming capacity conflicts; that is the
		// state we want, so swallow it.
		if orchestrator.IsConflict(err) {
			return nil
		}
		return fmt.Errorf("resuming capacity %s: %w", id, err)
	}
	return nil
}
