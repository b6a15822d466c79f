package purview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
	"github.com/lakeforge/lakeforge/internal/platform/azauth"
)

func fakePurview(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewClient("test-account", azauth.Static("test-token"), WithBaseURL(server.URL))
}

func TestGetCollection(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /account/collections/governed", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"governed","friendlyName":"Governed Data","parentCollection":{"referenceName":"root"}}`))
	})
	client := fakePurview(t, mux)

	collection, err := client.GetCollection(context.Background(), "governed")
	require.NoError(t, err)
	assert.Equal(t, "governed", collection.Name)
	assert.Equal(t, "Governed Data", collection.FriendlyName)
	assert.Equal(t, "root", collection.Parent)
}

func TestGetCollectionNotFound(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /account/collections/absent", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"EntityNotFound","message":"no such collection"}}`))
	})
	client := fakePurview(t, mux)

	_, err := client.GetCollection(context.Background(), "absent")
	require.Error(t, err)
	assert.True(t, orchestrator.IsNotFound(err))
}

func TestCreateCollectionUnderParent(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /account/collections/governed", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		parent := body["parentCollection"].(map[string]any)
		assert.Equal(t, "root", parent["referenceName"])
		w.Write([]byte(`{"name":"governed","friendlyName":"Governed Data"}`))
	})
	client := fakePurview(t, mux)

	collection, err := client.CreateCollection(context.Background(), "governed", "Governed Data", "root")
	require.NoError(t, err)
	assert.Equal(t, "governed", collection.Name)
	assert.Equal(t, "root", collection.Parent)
}

func TestCreateDataSource(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /scan/datasources/fabric-sales", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PowerBI", body["kind"])
		w.Write([]byte(`{"name":"fabric-sales","kind":"PowerBI","properties":{"tenant":"tenant-1"}}`))
	})
	client := fakePurview(t, mux)

	source, err := client.CreateDataSource(context.Background(), DataSource{
		Name:       "fabric-sales",
		Kind:       "PowerBI",
		TenantID:   "tenant-1",
		Collection: "governed",
	})
	require.NoError(t, err)
	assert.Equal(t, "fabric-sales", source.Name)
	assert.Equal(t, "tenant-1", source.TenantID)
	assert.Equal(t, "governed", source.Collection)
}

func TestCreateScanAndRun(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /scan/datasources/fabric-sales/scans/weekly", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"weekly","kind":"PowerBIMsi"}`))
	})
	mux.HandleFunc("PUT /scan/datasources/fabric-sales/scans/weekly/runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"runId":"run-1"}`))
	})
	mux.HandleFunc("GET /scan/datasources/fabric-sales/scans/weekly/runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"InProgress"}`))
	})
	client := fakePurview(t, mux)

	scan, err := client.CreateScan(context.Background(), Scan{
		Name:           "weekly",
		Kind:           "PowerBIMsi",
		DataSourceName: "fabric-sales",
		Collection:     "governed",
	})
	require.NoError(t, err)
	assert.Equal(t, "weekly", scan.Name)

	runID, err := client.RunScan(context.Background(), "fabric-sales", "weekly", "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", runID)

	status, err := client.GetScanRunStatus(context.Background(), "fabric-sales", "weekly", "run-1")
	require.NoError(t, err)
	assert.Equal(t, ScanRunInProgress, status)
}

func TestScanRunTerminal(t *testing.T) {
	t.Parallel()
	done, err := ScanRunTerminal(ScanRunSucceeded)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = ScanRunTerminal(ScanRunInProgress)
	require.NoError(t, err)
	assert.False(t, done)

	_, err = ScanRunTerminal(ScanRunFailed)
	require.Error(t, err)
}

func TestClassifyPurview(t *testing.T) {
	t.Parallel()
	assert.Equal(t, orchestrator.ClassConflict, classify(http.StatusBadRequest, "ScanAlreadyRunning", ""))
	assert.Equal(t, orchestrator.ClassNotReady, classify(http.StatusBadRequest, "CollectionNotReady", ""))
	assert.Equal(t, orchestrator.ClassNotFound, classify(http.StatusNotFound, "", ""))
	assert.Equal(t, orchestrator.ClassTransient, classify(http.StatusServiceUnavailable, "", ""))
	assert.Equal(t, orchestrator.ClassFatal, classify(http.StatusBadRequest, "InvalidScan", ""))
}
