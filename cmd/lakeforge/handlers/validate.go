package handlers

import (
	"context"
	"fmt"

	"github.com/lakeforge/lakeforge/internal/config"
	"github.com/lakeforge/lakeforge/internal/provisioning"
)

// Validate parses the platform definition and assembles the step graph
// without making any network calls.
func Validate(_ context.Context, path string) error {
	cfg, err := loadConfigFile(configPath(path))
	if err != nil {
		return configError(err)
	}

	// Assemble the graph with nil services: only the wiring is checked,
	// nothing executes.
	graph, err := provisioning.BuildGraph(cfg, config.LoadTimeouts(), nil, nil)
	if err != nil {
		return configError(err)
	}
	if _, err := graph.TopoOrder(); err != nil {
		return configError(err)
	}

	fmt.Printf("%s is valid: %d steps\n", configPath(path), graph.Len())
	return nil
}
