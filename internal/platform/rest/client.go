// Package rest implements the authenticated HTTP transport shared by the
// control-plane clients. It owns request shaping, bearer-token injection
// with a single forced refresh on Unauthorized, and the translation of
// responses into the orchestrator's error classification through a
// per-provider classifier.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
	"github.com/lakeforge/lakeforge/internal/platform/azauth"
)

// Classifier maps a provider response to the error taxonomy. Free-text and
// provider-code matching lives entirely inside classifier implementations;
// nothing downstream of the client inspects response bodies.
type Classifier func(status int, code, message string) orchestrator.Classification

// Client issues authenticated JSON requests against one control plane.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     azauth.TokenProvider
	classify   Classifier
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for the control plane at baseURL.
func NewClient(baseURL string, tokens azauth.TokenProvider, classify Classifier, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		tokens:     tokens,
		classify:   classify,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Do issues one request. On 401 the token cache is invalidated and the
// request is retried exactly once with a fresh token; repeated 401s surface
// as fatal. Transport-level failures are transient: the caller's
// existence-check-before-create pattern makes replay safe, the client does
// not replay blindly itself.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return orchestrator.Classifyf(orchestrator.ClassFatal, "encoding %s %s body: %v", method, path, err)
		}
	}

	refreshed := false
	for {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return orchestrator.Classify(orchestrator.ClassFatal, err)
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return orchestrator.Classify(orchestrator.ClassFatal, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return orchestrator.Classifyf(orchestrator.ClassTransient, "%s %s: %v", method, path, err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return orchestrator.Classifyf(orchestrator.ClassTransient, "%s %s: reading response: %v", method, path, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && !refreshed {
			c.tokens.Invalidate()
			refreshed = true
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out != nil && len(respBody) > 0 {
				if err := json.Unmarshal(respBody, out); err != nil {
					return orchestrator.Classifyf(orchestrator.ClassFatal, "%s %s: decoding response: %v", method, path, err)
				}
			}
			return nil
		}

		code, message := parseAPIError(respBody)
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		class := c.classify(resp.StatusCode, code, message)
		return orchestrator.Classifyf(class, "%s %s: %d %s (code=%s)", method, path, resp.StatusCode, message, code)
	}
}

// apiError covers the two error body shapes the Azure control planes use:
// flat {"errorCode","message"} and nested {"error":{"code","message"}}.
type apiError struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	Err       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseAPIError(body []byte) (code, message string) {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", ""
	}
	if parsed.Err != nil {
		return parsed.Err.Code, parsed.Err.Message
	}
	return parsed.ErrorCode, parsed.Message
}
