package graph

import (
	"errors"
	"sort"
)

var ErrCycleDetected = errors.New("cycle detected in graph")

// TopologicalSort orders the nodes so that every node appears after its
// dependencies. Ties are broken by name for determinism. Returns
// ErrCycleDetected when the graph is cyclic.
func (g *Graph) TopologicalSort() ([]string, error) {
	dependents := make(map[string][]string, len(g.nodes))
	inDegree := make(map[string]int, len(g.nodes))

	for name := range g.nodes {
		inDegree[name] = 0
	}

	for name, deps := range g.edges {
		for _, dep := range deps {
			if _, ok := g.nodes[dep]; ok {
				dependents[dep] = append(dependents[dep], name)
				inDegree[name]++
			}
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	sorted := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		sorted = append(sorted, name)

		ready := make([]string, 0, len(dependents[name]))
		for _, dependent := range dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
		sort.Strings(ready)
		queue = append(queue, ready...)
	}

	if len(sorted) != len(g.nodes) {
		return nil, ErrCycleDetected
	}

	return sorted, nil
}

// ResolutionOrder returns the order in which target's transitive dependencies
// would be built, ending with target itself. Names without a node are kept in
// the order so callers can see what a resolution would request.
func (g *Graph) ResolutionOrder(target string) ([]string, error) {
	visited := make(map[string]bool)
	visiting := make(map[string]bool)
	var order []string

	var visit func(name string) error
	visit = func(name string) error {
		if visiting[name] {
			return ErrCycleDetected
		}
		if visited[name] {
			return nil
		}

		if _, ok := g.nodes[name]; !ok {
			order = append(order, name)
			visited[name] = true
			return nil
		}

		visiting[name] = true
		for _, dep := range g.edges[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		visiting[name] = false

		visited[name] = true
		order = append(order, name)
		return nil
	}

	if err := visit(target); err != nil {
		return nil, err
	}

	return order, nil
}
