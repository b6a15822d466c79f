package provisioning

// Step names. Lakehouse steps are named per lakehouse with the
// "lakehouse-" prefix.
const (
	StepCapacity     = "capacity"
	StepDomain       = "domain"
	StepWorkspace    = "workspace"
	StepDomainAssign = "domain-assign"
	StepCollection   = "collection"
	StepDataSource   = "datasource"
	StepScan         = "scan"

	lakehouseStepPrefix = "lakehouse-"
)

// Output names published by the steps.
const (
	OutputID     = "id"
	OutputState  = "state"
	OutputName   = "name"
	OutputRunID  = "runId"
	OutputStatus = "status"
)

// LakehouseStepName returns the step name for a configured lakehouse.
func LakehouseStepName(lakehouse string) string {
	return lakehouseStepPrefix + lakehouse
}
