// Command run executes the comparison benchmarks and renders the averaged
// results grouped by scenario, fastest first.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type result struct {
	Name       string  `json:"name"`
	Framework  string  `json:"framework"`
	Scenario   string  `json:"scenario"`
	NsPerOp    float64 `json:"ns_per_op"`
	BytesPerOp int64   `json:"bytes_per_op"`
	AllocsOp   int64   `json:"allocs_per_op"`
}

const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"
)

var frameworkColors = map[string]string{
	"Loom": "\033[32m",
	"Do":   "\033[33m",
	"Dig":  "\033[35m",
	"Fx":   "\033[34m",
}

var scenarioOrder = []string{
	"Provide_Simple", "Provide_Chain",
	"Resolve_Singleton", "Resolve_Chain",
	"Named_10",
	"Bootstrap_10", "Bootstrap_50",
}

func main() {
	fmt.Printf("\n%sloom DI benchmark suite%s\n\n", bold, reset)
	fmt.Printf("%srunning benchmarks, this takes a minute...%s\n\n", dim, reset)

	cmd := exec.Command("go", "test", "-bench=.", "-benchmem", "-count=3", "-benchtime=100ms")
	cmd.Dir = ".."
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "benchmark run failed: %s\n", string(exitErr.Stderr))
		} else {
			fmt.Fprintf(os.Stderr, "benchmark run failed: %v\n", err)
		}
		os.Exit(1)
	}

	results := parse(output)
	grouped := group(results)

	for _, scenario := range grouped {
		printScenario(scenario.name, scenario.results)
	}
	printSummary(grouped)

	if len(os.Args) > 1 && os.Args[1] == "--json" {
		exportJSON(results)
	}
}

type scenarioResults struct {
	name    string
	results []result
}

var benchLine = regexp.MustCompile(`^Benchmark(\w+)-\d+\s+(\d+)\s+([\d.]+) ns/op\s+(\d+) B/op\s+(\d+) allocs/op`)

// parse averages the -count runs of each benchmark into one result. The
// benchmark naming convention is Scenario_Variant_Framework.
func parse(output []byte) []result {
	runs := make(map[string][]result)
	var order []string

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		m := benchLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}

		name := m[1]
		nsPerOp, _ := strconv.ParseFloat(m[3], 64)
		bytesPerOp, _ := strconv.ParseInt(m[4], 10, 64)
		allocsOp, _ := strconv.ParseInt(m[5], 10, 64)

		parts := strings.Split(name, "_")
		if len(parts) < 3 {
			continue
		}

		if _, seen := runs[name]; !seen {
			order = append(order, name)
		}
		runs[name] = append(runs[name], result{
			Name:       name,
			Framework:  parts[len(parts)-1],
			Scenario:   strings.Join(parts[:len(parts)-1], "_"),
			NsPerOp:    nsPerOp,
			BytesPerOp: bytesPerOp,
			AllocsOp:   allocsOp,
		})
	}

	results := make([]result, 0, len(order))
	for _, name := range order {
		samples := runs[name]
		avg := samples[0]
		var ns float64
		var bytesTotal, allocsTotal int64
		for _, s := range samples {
			ns += s.NsPerOp
			bytesTotal += s.BytesPerOp
			allocsTotal += s.AllocsOp
		}
		n := float64(len(samples))
		avg.NsPerOp = ns / n
		avg.BytesPerOp = int64(float64(bytesTotal) / n)
		avg.AllocsOp = int64(float64(allocsTotal) / n)
		results = append(results, avg)
	}

	return results
}

func group(results []result) []scenarioResults {
	byScenario := make(map[string][]result)
	for _, r := range results {
		byScenario[r.Scenario] = append(byScenario[r.Scenario], r)
	}

	var grouped []scenarioResults
	add := func(name string) {
		rs, ok := byScenario[name]
		if !ok {
			return
		}
		sort.Slice(rs, func(i, j int) bool { return rs[i].NsPerOp < rs[j].NsPerOp })
		grouped = append(grouped, scenarioResults{name: name, results: rs})
		delete(byScenario, name)
	}

	for _, name := range scenarioOrder {
		add(name)
	}

	var leftovers []string
	for name := range byScenario {
		leftovers = append(leftovers, name)
	}
	sort.Strings(leftovers)
	for _, name := range leftovers {
		add(name)
	}

	return grouped
}

func printScenario(name string, results []result) {
	fmt.Printf("%s%s%s\n", bold, strings.ReplaceAll(name, "_", " "), reset)

	fastest := results[0].NsPerOp
	for i, r := range results {
		color := frameworkColors[r.Framework]
		if color == "" {
			color = reset
		}

		relative := "fastest"
		if i > 0 && fastest > 0 {
			relative = fmt.Sprintf("%.1fx slower", r.NsPerOp/fastest)
		}

		fmt.Printf("  %s%-6s%s %12s %10d B/op %6d allocs/op  %s%s%s\n",
			color, r.Framework, reset,
			formatNs(r.NsPerOp), r.BytesPerOp, r.AllocsOp,
			dim, relative, reset,
		)
	}
	fmt.Println()
}

func formatNs(ns float64) string {
	switch {
	case ns >= 1_000_000:
		return fmt.Sprintf("%.2f ms", ns/1_000_000)
	case ns >= 1_000:
		return fmt.Sprintf("%.2f µs", ns/1_000)
	default:
		return fmt.Sprintf("%.0f ns", ns)
	}
}

func printSummary(grouped []scenarioResults) {
	wins := make(map[string]int)
	for _, scenario := range grouped {
		wins[scenario.results[0].Framework]++
	}

	type standing struct {
		framework string
		wins      int
	}
	var standings []standing
	for framework, count := range wins {
		standings = append(standings, standing{framework, count})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].wins != standings[j].wins {
			return standings[i].wins > standings[j].wins
		}
		return standings[i].framework < standings[j].framework
	})

	fmt.Printf("%ssummary%s\n", bold, reset)
	for _, s := range standings {
		color := frameworkColors[s.framework]
		if color == "" {
			color = reset
		}
		fmt.Printf("  %s%-6s%s %d/%d scenarios fastest\n", color, s.framework, reset, s.wins, len(grouped))
	}

	fmt.Println()
	fmt.Printf("%sframeworks compared:%s\n", dim, reset)
	fmt.Println("  Loom - this library (github.com/loom-di/loom)")
	fmt.Println("  Do   - generics-based DI (github.com/samber/do)")
	fmt.Println("  Dig  - reflection-based DI (go.uber.org/dig)")
	fmt.Println("  Fx   - full application framework (go.uber.org/fx)")
	fmt.Println()
}

func exportJSON(results []result) {
	payload := struct {
		Benchmarks []result `json:"benchmarks"`
	}{Benchmarks: results}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode results: %v\n", err)
		return
	}
	if err := os.WriteFile("benchmark_results.json", data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write results: %v\n", err)
		return
	}
	fmt.Printf("%sresults exported to benchmark_results.json%s\n", dim, reset)
}
