// Package handlers implements the business logic for CLI commands.
//
// Handlers are framework-agnostic and can be tested independently of the
// CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lakeforge/lakeforge/internal/config"
	"github.com/lakeforge/lakeforge/internal/orchestrator"
	"github.com/lakeforge/lakeforge/internal/platform/azauth"
	"github.com/lakeforge/lakeforge/internal/platform/fabric"
	"github.com/lakeforge/lakeforge/internal/platform/purview"
	"github.com/lakeforge/lakeforge/internal/provisioning"
	"github.com/lakeforge/lakeforge/internal/report"
)

// defaultConfigFile is used when no --config flag is given.
const defaultConfigFile = "lakeforge.yaml"

// Factory function variables - can be replaced in tests for dependency injection.
var (
	loadConfigFile = config.LoadFile
	loadTimeouts   = config.LoadTimeouts

	newFabricService = func(cfg *config.Config, timeouts *config.Timeouts) provisioning.FabricService {
		tokens := azauth.NewClientCredentials(cfg.Tenant.TenantID, cfg.Tenant.ClientID, cfg.Tenant.ClientSecret, fabric.Scope)
		return fabric.NewClient(tokens, fabric.WithHTTPClient(&http.Client{Timeout: timeouts.HTTPTimeout}))
	}

	newPurviewService = func(cfg *config.Config, timeouts *config.Timeouts) provisioning.PurviewService {
		tokens := azauth.NewClientCredentials(cfg.Tenant.TenantID, cfg.Tenant.ClientID, cfg.Tenant.ClientSecret, purview.Scope)
		return purview.NewClient(cfg.Purview.Account, tokens, purview.WithHTTPClient(&http.Client{Timeout: timeouts.HTTPTimeout}))
	}

	newObserver = func() orchestrator.Observer { return orchestrator.NewConsoleObserver() }

	saveReport = report.Save
	loadReport = report.Load

	printSummary = func(r *orchestrator.Report) {
		fmt.Print(report.Render(r, report.ColorEnabled()))
	}
)

// ProvisionOptions carries the provision command's flags.
type ProvisionOptions struct {
	ConfigPath string
	ResumeFrom string
	ReportPath string
	DryRun     bool
}

var registerMetricsOnce sync.Once

// Provision converges the platform onto its declared configuration.
//
// The workflow:
//  1. Load and validate the platform definition.
//  2. Build authenticated Fabric and Purview clients.
//  3. Assemble the step graph and execute it, resuming from a prior report
//     when one is given.
//  4. Render the summary, persist the report, and ship it to the configured
//     archive and history sinks.
//
// Archive and history failures do not fail the run: the platform state is
// already converged, and the report file remains on disk.
func Provision(ctx context.Context, opts ProvisionOptions) error {
	registerMetricsOnce.Do(func() {
		orchestrator.RegisterMetrics(prometheus.DefaultRegisterer)
	})

	cfg, err := loadConfigFile(configPath(opts.ConfigPath))
	if err != nil {
		return configError(err)
	}
	if opts.DryRun {
		return printPlan(cfg)
	}
	if cfg.Tenant.ClientSecret == "" {
		return configError(fmt.Errorf("no client secret: set %s", config.EnvClientSecret))
	}

	timeouts := loadTimeouts()
	retryCfg := retryFromTimeouts(timeouts)

	fabricSvc := newFabricService(cfg, timeouts)
	var purviewSvc provisioning.PurviewService
	if cfg.PurviewEnabled() {
		purviewSvc = newPurviewService(cfg, timeouts)
	}

	graph, err := provisioning.BuildGraph(cfg, timeouts, fabricSvc, purviewSvc)
	if err != nil {
		return configError(err)
	}

	runOpts := orchestrator.RunOptions{}
	if opts.ResumeFrom != "" {
		prior, err := loadReport(opts.ResumeFrom)
		if err != nil {
			return configError(err)
		}
		runOpts = orchestrator.ResumeOptions(prior)
		log.Printf("resuming: %d steps carried over from run %s", len(runOpts.AlreadyDone), prior.RunID)
	}

	executor := orchestrator.NewExecutor(graph,
		orchestrator.WithWorkers(cfg.Execution.Workers),
		orchestrator.WithRetryConfig(retryCfg),
		orchestrator.WithObserver(newObserver()),
	)

	result, err := executor.RunWithOptions(ctx, runOpts)
	if err != nil {
		return configError(err)
	}

	printSummary(result)
	persistReport(ctx, cfg, opts, result)

	if result.Outcome != orchestrator.OutcomeAllSucceeded {
		return runError(fmt.Errorf("run %s finished with outcome %s", result.RunID, result.Outcome))
	}
	return nil
}

// printPlan assembles the graph with nil services and prints the steps in
// dependency order. No control plane is contacted.
func printPlan(cfg *config.Config) error {
	graph, err := provisioning.BuildGraph(cfg, loadTimeouts(), nil, nil)
	if err != nil {
		return configError(err)
	}
	order, err := graph.TopoOrder()
	if err != nil {
		return configError(err)
	}

	fmt.Printf("plan: %d steps\n", len(order))
	for _, name := range order {
		deps := graph.Step(name).Dependencies()
		if len(deps) == 0 {
			fmt.Printf("  %s\n", name)
			continue
		}
		fmt.Printf("  %s (after %s)\n", name, strings.Join(deps, ", "))
	}
	return nil
}

func configPath(flag string) string {
	if flag != "" {
		return flag
	}
	return defaultConfigFile
}

func retryFromTimeouts(t *config.Timeouts) orchestrator.RetryConfig {
	cfg := orchestrator.DefaultRetryConfig()
	cfg.MaxAttempts = t.RetryMaxAttempts
	cfg.BaseDelay = t.RetryBaseDelay
	cfg.MaxDelay = t.RetryMaxDelay
	cfg.NotReadyInterval = t.NotReadyInterval
	cfg.NotReadyBudget = t.NotReadyBudget
	return cfg
}

// persistReport writes the report file and ships it to the optional archive
// and history sinks. Failures are logged, never fatal.
func persistReport(ctx context.Context, cfg *config.Config, opts ProvisionOptions, result *orchestrator.Report) {
	path := opts.ReportPath
	if path == "" {
		path = cfg.Report.Path
	}
	if path != "" {
		if err := saveReport(path, result); err != nil {
			log.Printf("warning: %v", err)
		} else {
			log.Printf("report written to %s", path)
		}
	}

	if cfg.Report.Archive.Enabled {
		archiver, err := report.NewArchiver(cfg.Report.Archive)
		if err != nil {
			log.Printf("warning: report archive unavailable: %v", err)
		} else if key, err := archiver.Upload(ctx, result); err != nil {
			log.Printf("warning: archiving report: %v", err)
		} else {
			log.Printf("report archived to s3://%s/%s", cfg.Report.Archive.Bucket, key)
		}
	}

	if cfg.Report.History.Enabled && cfg.Report.History.URL != "" {
		history, err := report.OpenHistory(ctx, cfg.Report.History.URL)
		if err != nil {
			log.Printf("warning: run history unavailable: %v", err)
			return
		}
		defer history.Close()
		if err := history.Record(ctx, result); err != nil {
			log.Printf("warning: recording run history: %v", err)
		}
	}
}
