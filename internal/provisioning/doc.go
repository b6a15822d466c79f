// Package provisioning defines the concrete steps that converge a Fabric
// and Purview data platform onto its declared configuration, and wires them
// into a dependency graph the orchestrator can execute.
//
// Every step follows the same contract: look the resource up by its natural
// key, create it only when absent, treat creation conflicts as success, and
// publish the resulting identifiers for downstream steps. Steps talk to the
// control planes through narrow service interfaces so tests can substitute
// fakes.
package provisioning
