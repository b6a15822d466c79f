package purview

import (
	"net/http"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

// classify maps a Purview response to the error taxonomy. Purview uses the
// nested ARM error shape; the codes below are the ones worth refining on.
func classify(status int, code, _ string) orchestrator.Classification {
	switch code {
	case "Conflict", "EntityAlreadyExists", "ScanAlreadyRunning":
		return orchestrator.ClassConflict
	case "CollectionNotReady", "DataSourceNotReady":
		return orchestrator.ClassNotReady
	}

	switch status {
	case http.StatusNotFound:
		return orchestrator.ClassNotFound
	case http.StatusConflict:
		return orchestrator.ClassConflict
	case http.StatusTooManyRequests:
		return orchestrator.ClassTransient
	case http.StatusUnauthorized, http.StatusForbidden:
		return orchestrator.ClassFatal
	}
	if status >= 500 {
		return orchestrator.ClassTransient
	}
	return orchestrator.ClassFatal
}
