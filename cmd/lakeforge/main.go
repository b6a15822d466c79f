// Package main is the entry point for the lakeforge CLI.
//
// lakeforge provisions a governed Microsoft Fabric data platform from a
// declarative YAML definition: compute capacity, workspace, lakehouses, a
// governance domain, and the matching Purview collection, data source, and
// scan. Runs are idempotent; re-running against a converged platform changes
// nothing.
//
// Commands: provision, validate, version, completion.
//
// For detailed usage information, run:
//
//	lakeforge --help
package main

import (
	"fmt"
	"os"

	"github.com/lakeforge/lakeforge/cmd/lakeforge/commands"
	"github.com/lakeforge/lakeforge/cmd/lakeforge/handlers"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(handlers.ExitCode(err))
	}
}
