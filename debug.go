package loom

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type GraphInfo struct {
	Services []ServiceInfo
}

type ServiceInfo struct {
	Name         string
	Dependencies []string
	Dependents   []string
	Eager        bool
	Resolved     bool
}

// Graph returns a snapshot of the registry's dependency graph. Services are
// listed in dependency order (dependencies before dependents); when the
// registry is cyclic they fall back to sorted-name order.
func (inj *Injector) Graph() GraphInfo {
	g := inj.internal.Graph()

	order, err := g.TopologicalSort()
	if err != nil {
		order = g.Nodes()
	}

	services := make([]ServiceInfo, 0, len(order))
	for _, name := range order {
		services = append(services, ServiceInfo{
			Name:         name,
			Dependencies: g.Dependencies(name),
			Dependents:   g.Dependents(name),
			Eager:        inj.internal.Eager(name),
			Resolved:     inj.internal.Resolved(name),
		})
	}

	return GraphInfo{Services: services}
}

func (inj *Injector) PrintGraph() {
	inj.FprintGraph(os.Stdout)
}

func (inj *Injector) FprintGraph(w io.Writer) {
	info := inj.Graph()

	if len(info.Services) == 0 {
		_, _ = fmt.Fprintln(w, "(empty injector)")
		return
	}

	for _, svc := range info.Services {
		status := "○"
		if svc.Resolved {
			status = "●"
		}

		label := svc.Name
		if svc.Eager {
			label += " (eager)"
		}

		if len(svc.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s\n", status, label)
		} else {
			_, _ = fmt.Fprintf(w, "%s %s ← %s\n", status, label, strings.Join(svc.Dependencies, ", "))
		}
	}
}

func (inj *Injector) SprintGraph() string {
	var sb strings.Builder
	inj.FprintGraph(&sb)
	return sb.String()
}

func (inj *Injector) PrintGraphDOT() {
	inj.FprintGraphDOT(os.Stdout)
}

func (inj *Injector) FprintGraphDOT(w io.Writer) {
	info := inj.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, svc := range info.Services {
		style := ""
		if svc.Resolved {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", svc.Name, svc.Name, style)
	}

	_, _ = fmt.Fprintln(w)

	for _, svc := range info.Services {
		for _, dep := range svc.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", svc.Name, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (inj *Injector) SprintGraphDOT() string {
	var sb strings.Builder
	inj.FprintGraphDOT(&sb)
	return sb.String()
}
