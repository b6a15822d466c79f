package purview

import (
	"context"
	"fmt"
)

// DataSource is a source registered for governance scanning. For Fabric
// workspaces the kind is "PowerBI" and the source is addressed by tenant.
type DataSource struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Collection string `json:"-"`
	TenantID   string `json:"-"`
}

type dataSourceBody struct {
	Name       string `json:"name,omitempty"`
	Kind       string `json:"kind"`
	Properties struct {
		Tenant     string `json:"tenant,omitempty"`
		Collection *struct {
			ReferenceName string `json:"referenceName"`
			Type          string `json:"type"`
		} `json:"collection,omitempty"`
	} `json:"properties"`
}

// GetDataSource returns the named data source, or a not-found classified
// error.
func (c *Client) GetDataSource(ctx context.Context, name string) (*DataSource, error) {
	var body dataSourceBody
	if err := c.rest.Get(ctx, "/scan/datasources/"+name, &body); err != nil {
		return nil, fmt.Errorf("getting data source %q: %w", name, err)
	}
	source := &DataSource{Name: body.Name, Kind: body.Kind, TenantID: body.Properties.Tenant}
	if body.Properties.Collection != nil {
		source.Collection = body.Properties.Collection.ReferenceName
	}
	return source, nil
}

// CreateDataSource registers a data source in the given collection.
func (c *Client) CreateDataSource(ctx context.Context, source DataSource) (*DataSource, error) {
	var body dataSourceBody
	body.Kind = source.Kind
	body.Properties.Tenant = source.TenantID
	if source.Collection != "" {
		body.Properties.Collection = &struct {
			ReferenceName string `json:"referenceName"`
			Type          string `json:"type"`
		}{ReferenceName: source.Collection, Type: "CollectionReference"}
	}

	var created dataSourceBody
	if err := c.rest.Put(ctx, "/scan/datasources/"+source.Name, body, &created); err != nil {
		return nil, fmt.Errorf("registering data source %q: %w", source.Name, err)
	}
	return &DataSource{
		Name:       created.Name,
		Kind:       created.Kind,
		TenantID:   created.Properties.Tenant,
		Collection: source.Collection,
	}, nil
}
