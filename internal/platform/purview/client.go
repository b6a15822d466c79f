// Package purview provides a client for the Microsoft Purview governance
// plane: collections, registered data sources, and scans.
package purview

import (
	"fmt"
	"net/http"

	"github.com/lakeforge/lakeforge/internal/platform/azauth"
	"github.com/lakeforge/lakeforge/internal/platform/rest"
)

// Scope is the OAuth2 scope for Purview API tokens.
const Scope = "https://purview.azure.net/.default"

// Client wraps the Purview REST API for one account.
type Client struct {
	rest *rest.Client
}

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL overrides the account endpoint. Used by tests.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// NewClient creates a client for the given Purview account.
func NewClient(account string, tokens azauth.TokenProvider, opts ...Option) *Client {
	o := &options{baseURL: fmt.Sprintf("https://%s.purview.azure.com", account)}
	for _, opt := range opts {
		opt(o)
	}
	var restOpts []rest.Option
	if o.httpClient != nil {
		restOpts = append(restOpts, rest.WithHTTPClient(o.httpClient))
	}
	return &Client{rest: rest.NewClient(o.baseURL, tokens, classify, restOpts...)}
}
