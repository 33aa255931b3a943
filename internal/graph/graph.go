// Package graph models the dependency graph of a frozen service registry.
//
// A Graph is built once from the registry's name -> dependency-names mapping
// and is immutable afterwards, so it is safe for concurrent readers without
// locking.
package graph

import "sort"

type Graph struct {
	nodes map[string]struct{}
	edges map[string][]string
}

// New builds a graph from a name -> dependency-names mapping. The dependency
// slices are copied; the caller keeps ownership of deps.
func New(deps map[string][]string) *Graph {
	g := &Graph{
		nodes: make(map[string]struct{}, len(deps)),
		edges: make(map[string][]string, len(deps)),
	}

	for name, d := range deps {
		g.nodes[name] = struct{}{}
		edges := make([]string, len(d))
		copy(edges, d)
		g.edges[name] = edges
	}

	return g
}

func (g *Graph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

func (g *Graph) Size() int {
	return len(g.nodes)
}

// Nodes returns all node names in sorted order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		nodes = append(nodes, name)
	}
	sort.Strings(nodes)
	return nodes
}

// Dependencies returns the declared dependencies of name, in declaration
// order. The returned slice is a copy.
func (g *Graph) Dependencies(name string) []string {
	deps, ok := g.edges[name]
	if !ok {
		return nil
	}

	result := make([]string, len(deps))
	copy(result, deps)
	return result
}

// Dependents returns the names that declare a dependency on name, sorted.
func (g *Graph) Dependents(name string) []string {
	var dependents []string
	for node, deps := range g.edges {
		for _, dep := range deps {
			if dep == name {
				dependents = append(dependents, node)
				break
			}
		}
	}
	sort.Strings(dependents)
	return dependents
}

// MissingDependencies returns every dependency name referenced by an edge
// that has no node of its own, sorted and de-duplicated.
func (g *Graph) MissingDependencies() []string {
	seen := make(map[string]bool)
	var missing []string

	for _, deps := range g.edges {
		for _, dep := range deps {
			if _, ok := g.nodes[dep]; !ok && !seen[dep] {
				missing = append(missing, dep)
				seen[dep] = true
			}
		}
	}

	sort.Strings(missing)
	return missing
}
