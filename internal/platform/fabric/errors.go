package fabric

import (
	"net/http"
	"strings"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

// conflictCodes are provider codes meaning the resource already exists.
var conflictCodes = map[string]bool{
	"ItemDisplayNameAlreadyInUse":   true,
	"WorkspaceNameAlreadyExists":    true,
	"DomainDisplayNameAlreadyInUse": true,
	"EntityAlreadyExists":           true,
}

// notReadyCodes are provider codes meaning a dependency exists but is not
// usable yet.
var notReadyCodes = map[string]bool{
	"CapacityNotActive":        true,
	"WorkspaceNotReady":        true,
	"ItemNotReady":             true,
	"OperationStillInProgress": true,
}

// classify maps a Fabric response to the error taxonomy. Status codes decide
// first; the small set of well-known provider codes refines ambiguous
// statuses. This is the only place provider error text is inspected.
func classify(status int, code, message string) orchestrator.Classification {
	if conflictCodes[code] {
		return orchestrator.ClassConflict
	}
	if notReadyCodes[code] {
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
	// Some older endpoints report duplicate names as 400 with a free-text
	// message. Contained here, never in the retry policy.
	if status == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "already") {
		return orchestrator.ClassConflict
	}
	return orchestrator.ClassFatal
}
