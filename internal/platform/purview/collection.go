package purview

import (
	"context"
	"fmt"
)

// Collection is a node in the Purview collection hierarchy. Collections are
// addressed by name, which Purview requires to be unique per account, so
// the name is both the natural key and the identifier.
type Collection struct {
	Name         string `json:"name"`
	FriendlyName string `json:"friendlyName,omitempty"`
	Parent       string `json:"-"`
}

// collectionBody is the wire shape for collection reads and writes.
type collectionBody struct {
	Name             string `json:"name,omitempty"`
	FriendlyName     string `json:"friendlyName,omitempty"`
	ParentCollection *struct {
		ReferenceName string `json:"referenceName"`
	} `json:"parentCollection,omitempty"`
}

// GetCollection returns the named collection, or a not-found classified
// error.
func (c *Client) GetCollection(ctx context.Context, name string) (*Collection, error) {
	var body collectionBody
	if err := c.rest.Get(ctx, "/account/collections/"+name, &body); err != nil {
		return nil, fmt.Errorf("getting collection %q: %w", name, err)
	}
	collection := &Collection{Name: body.Name, FriendlyName: body.FriendlyName}
	if body.ParentCollection != nil {
		collection.Parent = body.ParentCollection.ReferenceName
	}
	return collection, nil
}

// CreateCollection creates a collection under the given parent. An empty
// parent places it under the account root.
func (c *Client) CreateCollection(ctx context.Context, name, friendlyName, parent string) (*Collection, error) {
	body := collectionBody{FriendlyName: friendlyName}
	if parent != "" {
		body.ParentCollection = &struct {
			ReferenceName string `json:"referenceName"`
		}{ReferenceName: parent}
	}
	var created collectionBody
	if err := c.rest.Put(ctx, "/account/collections/"+name, body, &created); err != nil {
		return nil, fmt.Errorf("creating collection %q: %w", name, err)
	}
	return &Collection{Name: created.Name, FriendlyName: created.FriendlyName, Parent: parent}, nil
}
