// Package azauth provides Azure AD client-credentials tokens for the
// platform clients.
package azauth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenProvider supplies bearer tokens for a remote control plane.
type TokenProvider interface {
	// Token returns a valid access token, fetching a new one if the cached
	// token has expired.
	Token(ctx context.Context) (string, error)

	// Invalidate discards the cached token. Called by a client after an
	// Unauthorized response so the next call fetches a fresh token; the
	// client retries exactly once after invalidating.
	Invalidate()
}

// expirySlack refreshes tokens slightly before their reported expiry so a
// token never dies mid-request.
const expirySlack = 2 * time.Minute

// ClientCredentials implements TokenProvider using the OAuth2 client
// credentials flow against an Azure AD tenant. The token is cached until
// expiry; refreshes are serialized under a mutex so concurrent steps that
// hit Unauthorized at the same time trigger a single fetch.
type ClientCredentials struct {
	cfg clientcredentials.Config

	mu    sync.Mutex
	token *oauth2.Token
}

// NewClientCredentials creates a provider for the given tenant and app
// registration. scope is the resource default scope, e.g.
// "https://api.fabric.microsoft.com/.default".
func NewClientCredentials(tenantID, clientID, clientSecret, scope string) *ClientCredentials {
	return &ClientCredentials{
		cfg: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", tenantID),
			Scopes:       []string{scope},
		},
	}
}

// WithTokenURL overrides the token endpoint. Used by tests.
func (p *ClientCredentials) WithTokenURL(url string) *ClientCredentials {
	p.cfg.TokenURL = url
	return p
}

// Token implements TokenProvider.
func (p *ClientCredentials) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != nil && p.token.Valid() && time.Until(p.token.Expiry) > expirySlack {
		return p.token.AccessToken, nil
	}

	token, err := p.cfg.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching token: %w", err)
	}
	p.token = token
	return token.AccessToken, nil
}

// Invalidate implements TokenProvider.
func (p *ClientCredentials) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = nil
}

// Static is a TokenProvider returning a fixed token. Used by tests and by
// callers that manage tokens externally.
type Static string

// Token implements TokenProvider.
func (s Static) Token(context.Context) (string, error) { return string(s), nil }

// Invalidate implements TokenProvider.
func (Static) Invalidate() {}
