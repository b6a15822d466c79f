package fabric

import (
	"context"
	"fmt"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

// Domain is an organizational governance domain.
type Domain struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
}

// GetDomainByName returns the domain with exactly the given display name,
// or a not-found classified error.
func (c *Client) GetDomainByName(ctx context.Context, name string) (*Domain, error) {
	var resp struct {
		Domains []Domain `json:"domains"`
	}
	if err := c.rest.Get(ctx, "/admin/domains", &resp); err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}
	for i := range resp.Domains {
		if resp.Domains[i].DisplayName == name {
			return &resp.Domains[i], nil
		}
	}
	return nil, orchestrator.Classifyf(orchestrator.ClassNotFound, "domain %q not found", name)
}

// CreateDomain creates a governance domain.
func (c *Client) CreateDomain(ctx context.Context, name, description string) (*Domain, error) {
	body := map[string]string{"displayName": name}
	if description != "" {
		body["description"] = description
	}
	var domain Domain
	if err := c.rest.Post(ctx, "/admin/domains", body, &domain); err != nil {
		return nil, fmt.Errorf("creating domain %q: %w", name, err)
	}
	return &domain, nil
}

// AssignWorkspacesToDomain attaches workspaces to a domain. Assigning a
// workspace already in the domain is a no-op on the provider side.
func (c *Client) AssignWorkspacesToDomain(ctx context.Context, domainID string, workspaceIDs []string) error {
	body := map[string][]string{"workspacesIds": workspaceIDs}
	if err := c.rest.Post(ctx, "/admin/domains/"+domainID+"/assignWorkspaces", body, nil); err != nil {
		if orchestrator.IsConflict(err) {
			return nil
		}
		return fmt.Errorf("assigning workspaces to domain %s: %w", domainID, err)
	}
	return nil
}
