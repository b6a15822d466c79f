package config

import "fmt"

// Poll timeout tolerances. A step whose convergence poll runs out of time
// either proceeds with a warning (downstream steps carry their own not-ready
// retry loops) or fails hard. The tolerance is declared per step here rather
// than decided at call sites.
const (
	OnTimeoutProceed = "proceed"
	OnTimeoutFail    = "fail"
)

// Config is the root of the platform definition.
type Config struct {
	Tenant     TenantConfig      `yaml:"tenant"`
	Capacity   CapacityConfig    `yaml:"capacity"`
	Domain     DomainConfig      `yaml:"domain"`
	Workspace  WorkspaceConfig   `yaml:"workspace"`
	Lakehouses []LakehouseConfig `yaml:"lakehouses"`
	Purview    PurviewConfig     `yaml:"purview"`
	Execution  ExecutionConfig   `yaml:"execution"`
	Report     ReportConfig      `yaml:"report"`
}

// TenantConfig identifies the Azure AD tenant and app registration used for
// all control-plane calls. The client secret never lives in the file; it is
// read from LAKEFORGE_CLIENT_SECRET.
type TenantConfig struct {
	TenantID     string `yaml:"tenantId"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"-"`
}

// CapacityConfig names the Fabric capacity the workspace runs on. The
// capacity must already exist as an Azure resource; provisioning converges
// its state to Active but never creates or deletes it.
type CapacityConfig struct {
	Name string `yaml:"name"`

	// OnPollTimeout declares what happens when the state poll never
	// observes Active: "proceed" (default) or "fail".
	OnPollTimeout string `yaml:"onPollTimeout"`
}

// DomainConfig describes the governance domain the workspace is assigned to.
type DomainConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// WorkspaceConfig describes the Fabric workspace.
type WorkspaceConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// LakehouseConfig describes one lakehouse inside the workspace.
type LakehouseConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// PurviewConfig describes the governance side of the platform. Leaving
// Account empty disables the Purview steps entirely.
type PurviewConfig struct {
	Account    string           `yaml:"account"`
	Collection CollectionConfig `yaml:"collection"`
	DataSource DataSourceConfig `yaml:"dataSource"`
	Scan       ScanConfig       `yaml:"scan"`
}

// CollectionConfig describes the collection the data source is registered in.
type CollectionConfig struct {
	Name         string `yaml:"name"`
	FriendlyName string `yaml:"friendlyName"`
	Parent       string `yaml:"parent"`
}

// DataSourceConfig describes the registered data source.
type DataSourceConfig struct {
	Name string `yaml:"name"`
}

// ScanConfig describes the scan definition on the data source.
type ScanConfig struct {
	Name string `yaml:"name"`

	// TriggerRun starts a scan run once the definition is in place.
	TriggerRun bool `yaml:"triggerRun"`

	// OnPollTimeout declares what happens when the run is still in
	// progress at the end of the poll budget: "proceed" (default, the run
	// keeps going server side) or "fail".
	OnPollTimeout string `yaml:"onPollTimeout"`
}

// ExecutionConfig tunes the orchestrator.
type ExecutionConfig struct {
	// Workers bounds concurrently running steps. Kept small by default:
	// the control planes rate-limit aggressively.
	Workers int `yaml:"workers"`
}

// ReportConfig controls where the run report goes beyond stdout.
type ReportConfig struct {
	// Path is where the JSON report is written. Empty disables the file.
	Path string `yaml:"path"`

	Archive ArchiveConfig `yaml:"archive"`
	History HistoryConfig `yaml:"history"`
}

// ArchiveConfig enables uploading the JSON report to S3-compatible storage.
// The secret key is read from LAKEFORGE_ARCHIVE_SECRET_KEY.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"-"`
}

// HistoryConfig enables recording run outcomes in Postgres. The connection
// URL falls back to LAKEFORGE_HISTORY_DATABASE_URL when not set here.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// PurviewEnabled reports whether the governance steps are configured.
func (c *Config) PurviewEnabled() bool {
	return c.Purview.Account != ""
}

// Validate checks the configuration for problems that would otherwise
// surface mid-run.
func (c *Config) Validate() error {
	if c.Tenant.TenantID == "" {
		return fmt.Errorf("tenant.tenantId is required")
	}
	if c.Tenant.ClientID == "" {
		return fmt.Errorf("tenant.clientId is required")
	}
	if c.Capacity.Name == "" {
		return fmt.Errorf("capacity.name is required")
	}
	if c.Workspace.Name == "" {
		return fmt.Errorf("workspace.name is required")
	}
	if err := validateTolerance("capacity.onPollTimeout", c.Capacity.OnPollTimeout); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Lakehouses))
	for _, lakehouse := range c.Lakehouses {
		if lakehouse.Name == "" {
			return fmt.Errorf("lakehouses entries require a name")
		}
		if seen[lakehouse.Name] {
			return fmt.Errorf("duplicate lakehouse %q", lakehouse.Name)
		}
		seen[lakehouse.Name] = true
	}

	if c.PurviewEnabled() {
		if c.Purview.Collection.Name == "" {
			return fmt.Errorf("purview.collection.name is required when purview.account is set")
		}
		if c.Purview.DataSource.Name == "" {
			return fmt.Errorf("purview.dataSource.name is required when purview.account is set")
		}
		if c.Purview.Scan.Name == "" {
			return fmt.Errorf("purview.scan.name is required when purview.account is set")
		}
		if err := validateTolerance("purview.scan.onPollTimeout", c.Purview.Scan.OnPollTimeout); err != nil {
			return err
		}
	}

	if c.Report.Archive.Enabled {
		if c.Report.Archive.Bucket == "" {
			return fmt.Errorf("report.archive.bucket is required when archiving is enabled")
		}
		if c.Report.Archive.Endpoint == "" {
			return fmt.Errorf("report.archive.endpoint is required when archiving is enabled")
		}
	}

	if c.Execution.Workers < 0 {
		return fmt.Errorf("execution.workers must not be negative")
	}

	return nil
}

func validateTolerance(field, value string) error {
	switch value {
	case "", OnTimeoutProceed, OnTimeoutFail:
		return nil
	}
	return fmt.Errorf("%s must be %q or %q", field, OnTimeoutProceed, OnTimeoutFail)
}
