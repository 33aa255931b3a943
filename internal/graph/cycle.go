package graph

// HasCycle reports whether the graph contains at least one dependency cycle.
// Edges to names that have no node are ignored; missing dependencies are a
// separate condition reported by MissingDependencies.
func (g *Graph) HasCycle() bool {
	white := make(map[string]bool, len(g.nodes))
	gray := make(map[string]bool, len(g.nodes))

	for name := range g.nodes {
		white[name] = true
	}

	var dfs func(name string) bool
	dfs = func(name string) bool {
		white[name] = false
		gray[name] = true

		for _, dep := range g.edges[name] {
			if _, ok := g.nodes[dep]; !ok {
				continue
			}
			if gray[dep] {
				return true
			}
			if white[dep] && dfs(dep) {
				return true
			}
		}

		gray[name] = false
		return false
	}

	for _, name := range g.Nodes() {
		if white[name] && dfs(name) {
			return true
		}
	}

	return false
}

// CyclePathFrom returns one cycle reachable from start, rendered as the walk
// that exposed it with the repeated name appearing at both ends, or nil if no
// cycle is reachable.
func (g *Graph) CyclePathFrom(start string) []string {
	visited := make(map[string]bool)
	inPath := make(map[string]bool)
	var path []string

	var dfs func(name string) []string
	dfs = func(name string) []string {
		if inPath[name] {
			var cycle []string
			found := false
			for _, p := range path {
				if p == name {
					found = true
				}
				if found {
					cycle = append(cycle, p)
				}
			}
			return append(cycle, name)
		}

		if visited[name] {
			return nil
		}

		visited[name] = true
		path = append(path, name)
		inPath[name] = true

		for _, dep := range g.edges[name] {
			if _, ok := g.nodes[dep]; !ok {
				continue
			}
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		inPath[name] = false
		return nil
	}

	return dfs(start)
}

// CyclePaths enumerates one representative path per cyclic strongly connected
// component, using Tarjan's algorithm to find the components.
func (g *Graph) CyclePaths() [][]string {
	var paths [][]string
	for _, scc := range g.cyclicComponents() {
		if path := g.CyclePathFrom(scc[0]); path != nil {
			paths = append(paths, path)
		}
	}
	return paths
}

type tarjanState struct {
	graph   *Graph
	index   int
	stack   []string
	onStack map[string]bool
	indices map[string]int
	lowlink map[string]int
	sccs    [][]string
}

// cyclicComponents returns the strongly connected components that contain a
// cycle: every component of size > 1, plus single nodes with a self edge.
func (g *Graph) cyclicComponents() [][]string {
	st := &tarjanState{
		graph:   g,
		onStack: make(map[string]bool),
		indices: make(map[string]int),
		lowlink: make(map[string]int),
	}

	for _, name := range g.Nodes() {
		if _, visited := st.indices[name]; !visited {
			st.strongConnect(name)
		}
	}

	var cyclic [][]string
	for _, scc := range st.sccs {
		if len(scc) > 1 {
			cyclic = append(cyclic, scc)
			continue
		}
		for _, dep := range g.edges[scc[0]] {
			if dep == scc[0] {
				cyclic = append(cyclic, scc)
				break
			}
		}
	}

	return cyclic
}

func (st *tarjanState) strongConnect(name string) {
	st.indices[name] = st.index
	st.lowlink[name] = st.index
	st.index++
	st.stack = append(st.stack, name)
	st.onStack[name] = true

	for _, dep := range st.graph.edges[name] {
		if _, ok := st.graph.nodes[dep]; !ok {
			continue
		}

		if _, visited := st.indices[dep]; !visited {
			st.strongConnect(dep)
			st.lowlink[name] = min(st.lowlink[name], st.lowlink[dep])
		} else if st.onStack[dep] {
			st.lowlink[name] = min(st.lowlink[name], st.indices[dep])
		}
	}

	if st.lowlink[name] == st.indices[name] {
		var scc []string
		for {
			n := len(st.stack) - 1
			w := st.stack[n]
			st.stack = st.stack[:n]
			st.onStack[w] = false
			scc = append(scc, w)
			if w == name {
				break
			}
		}
		st.sccs = append(st.sccs, scc)
	}
}
