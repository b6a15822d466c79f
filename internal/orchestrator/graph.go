package orchestrator

import (
	"fmt"
	"sort"
)

// Graph holds the set of steps and the dependency edges between them.
// Steps are added in declaration order; a step may only depend on steps
// already present, so the graph is acyclic by construction. TopoOrder still
// verifies acyclicity as a guard against graphs assembled through other
// paths.
type Graph struct {
	steps map[string]Step
	order []string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{steps: make(map[string]Step)}
}

// Add inserts a step. It rejects duplicate names and dependencies on steps
// not yet present.
func (g *Graph) Add(step Step) error {
	name := step.Name()
	if name == "" {
		return &ConfigurationError{Reason: "step with empty name"}
	}
	if _, exists := g.steps[name]; exists {
		return &ConfigurationError{Reason: fmt.Sprintf("duplicate step %q", name)}
	}
	for _, dep := range step.Dependencies() {
		if _, ok := g.steps[dep]; !ok {
			return &ConfigurationError{
				Reason: fmt.Sprintf("step %q depends on unknown step %q", name, dep),
			}
		}
	}
	g.steps[name] = step
	g.order = append(g.order, name)
	return nil
}

// Len returns the number of steps.
func (g *Graph) Len() int {
	return len(g.steps)
}

// Step returns the step with the given name, or nil.
func (g *Graph) Step(name string) Step {
	return g.steps[name]
}

// Names returns all step names in declaration order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Dependents returns the names of steps that directly depend on name.
func (g *Graph) Dependents(name string) []string {
	var out []string
	for _, candidate := range g.order {
		for _, dep := range g.steps[candidate].Dependencies() {
			if dep == name {
				out = append(out, candidate)
				break
			}
		}
	}
	return out
}

// TopoOrder computes a topological order using Kahn's algorithm. A cycle is
// a ConfigurationError; no step may execute against a cyclic graph.
func (g *Graph) TopoOrder() ([]string, error) {
	indegree := make(map[string]int, len(g.steps))
	for _, name := range g.order {
		indegree[name] = len(g.steps[name].Dependencies())
	}

	var ready []string
	for _, name := range g.order {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	ordered := make([]string, 0, len(g.steps))
	for len(ready) > 0 {
		// Deterministic order keeps runs and tests reproducible.
		sort.Strings(ready)
		name := ready[0]
		ready = ready[1:]
		ordered = append(ordered, name)

		for _, dependent := range g.Dependents(name) {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(ordered) != len(g.steps) {
		var stuck []string
		for name, deg := range indegree {
			if deg > 0 {
				stuck = append(stuck, name)
			}
		}
		sort.Strings(stuck)
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("dependency cycle involving steps %v", stuck),
		}
	}
	return ordered, nil
}
