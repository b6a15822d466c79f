// Package orchestrator implements the dependency-graph execution engine that
// drives platform provisioning.
//
// A provisioning run is modeled as a directed acyclic graph of idempotent
// steps. Each step declares the steps it depends on, resolves its inputs from
// the outputs of completed upstream steps, and produces named outputs for
// downstream consumers. The executor walks the graph, running independent
// steps concurrently on a bounded worker pool, and returns a complete
// per-step report whether or not the run succeeded, so a later run can be
// scoped to exactly the failed and skipped subset.
//
// The package also owns the error taxonomy shared with the platform clients
// (not-found, conflict, not-ready, transient, fatal), the retry policy that
// interprets it, the convergence poller used by steps with asynchronous
// remote effects, and the write-once output store that carries identifiers
// between steps.
package orchestrator
