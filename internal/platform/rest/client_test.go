package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

func statusClassifier(status int, code, message string) orchestrator.Classification {
	switch {
	case status == http.StatusNotFound:
		return orchestrator.ClassNotFound
	case status == http.StatusConflict:
		return orchestrator.ClassConflict
	case status == http.StatusTooManyRequests || status >= 500:
		return orchestrator.ClassTransient
	default:
		return orchestrator.ClassFatal
	}
}

// countingTokens tracks refreshes forced through Invalidate.
type countingTokens struct {
	invalidations atomic.Int32
	generation    atomic.Int32
}

func (c *countingTokens) Token(context.Context) (string, error) {
	return "token-" + string(rune('a'+c.generation.Load())), nil
}

func (c *countingTokens) Invalidate() {
	c.invalidations.Add(1)
	c.generation.Add(1)
}

func TestClientDecodesSuccessResponse(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-a", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"ws-1","displayName":"sales"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, &countingTokens{}, statusClassifier)

	var out struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	}
	require.NoError(t, client.Get(context.Background(), "/workspaces/ws-1", &out))
	assert.Equal(t, "ws-1", out.ID)
	assert.Equal(t, "sales", out.DisplayName)
}

func TestClientRetriesOnceAfterUnauthorized(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"errorCode":"TokenExpired","message":"expired"}`, http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer token-b", r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	tokens := &countingTokens{}
	client := NewClient(server.URL, tokens, statusClassifier)

	require.NoError(t, client.Get(context.Background(), "/capacities", nil))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), tokens.invalidations.Load())
}

func TestClientRepeatedUnauthorizedIsFatal(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"errorCode":"Unauthorized","message":"nope"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, &countingTokens{}, statusClassifier)

	err := client.Get(context.Background(), "/capacities", nil)
	require.Error(t, err)
	assert.Equal(t, orchestrator.ClassFatal, orchestrator.ClassificationOf(err))
	// Exactly one forced refresh, not unbounded.
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientClassifiesErrorResponses(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		status   int
		body     string
		expected orchestrator.Classification
	}{
		{"not found", http.StatusNotFound, `{"errorCode":"EntityNotFound","message":"gone"}`, orchestrator.ClassNotFound},
		{"conflict", http.StatusConflict, `{"errorCode":"EntityAlreadyExists","message":"dup"}`, orchestrator.ClassConflict},
		{"rate limited", http.StatusTooManyRequests, `{"errorCode":"TooManyRequests","message":"slow down"}`, orchestrator.ClassTransient},
		{"server error", http.StatusBadGateway, ``, orchestrator.ClassTransient},
		{"forbidden", http.StatusForbidden, `{"error":{"code":"AuthorizationFailed","message":"denied"}}`, orchestrator.ClassFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			client := NewClient(server.URL, &countingTokens{}, statusClassifier)
			err := client.Get(context.Background(), "/x", nil)
			require.Error(t, err)
			assert.Equal(t, tt.expected, orchestrator.ClassificationOf(err))
		})
	}
}

func TestClientTransportErrorIsTransient(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL, &countingTokens{}, statusClassifier)
	err := client.Get(context.Background(), "/x", nil)
	require.Error(t, err)
	assert.Equal(t, orchestrator.ClassTransient, orchestrator.ClassificationOf(err))
}

func TestClientSendsJSONBody(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"new-1"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, &countingTokens{}, statusClassifier)

	var out struct {
		ID string `json:"id"`
	}
	body := map[string]string{"displayName": "sales"}
	require.NoError(t, client.Post(context.Background(), "/workspaces", body, &out))
	assert.Equal(t, "new-1", out.ID)
}

func TestParseAPIError(t *testing.T) {
	t.Parallel()
	code, message := parseAPIError([]byte(`{"errorCode":"X","message":"m"}`))
	assert.Equal(t, "X", code)
	assert.Equal(t, "m", message)

	code, message = parseAPIError([]byte(`{"error":{"code":"Y","message":"n"}}`))
	assert.Equal(t, "Y", code)
	assert.Equal(t, "n", message)

	code, message = parseAPIError([]byte(`not json`))
	assert.Empty(t, code)
	assert.Empty(t, message)
}
