// Package fabric provides a client for the Microsoft Fabric control plane:
// capacities, workspaces, lakehouses, and governance domains.
package fabric

import (
	"net/http"

	"github.com/lakeforge/lakeforge/internal/platform/azauth"
	"github.com/lakeforge/lakeforge/internal/platform/rest"
)

// DefaultBaseURL is the public Fabric API endpoint.
const DefaultBaseURL = "https://api.fabric.microsoft.com/v1"

// Scope is the OAuth2 scope for Fabric API tokens.
const Scope = "https://api.fabric.microsoft.com/.default"

// Client wraps the Fabric REST API.
type Client struct {
	rest *rest.Client
}

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// NewClient creates a Fabric client authenticated by the given provider.
func NewClient(tokens azauth.TokenProvider, opts ...Option) *Client {
	o := &options{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(o)
	}
	var restOpts []rest.Option
	if o.httpClient != nil {
		restOpts = append(restOpts, rest.WithHTTPClient(o.httpClient))
	}
	return &Client{rest: rest.NewClient(o.baseURL, tokens, classify, restOpts...)}
}

// listResponse is the envelope Fabric list endpoints return.
type listResponse[T any] struct {
	Value []T `json:"value"`
}
