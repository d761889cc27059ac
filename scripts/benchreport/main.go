// Command benchreport turns `go test -bench` output into a markdown table
// comparing the pool with plain Go heap allocation.
//
//	go test -run=^$ -bench=BenchmarkChurn -benchmem ./pool | go run ./scripts/benchreport
//
// Benchmarks must be named Benchmark<Operation>/<impl>/<case>, where impl is
// "pool" or "goheap". Results of other shapes are listed as pool-only.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Operation   string
	Case        string
	Impl        string // "pool" or "goheap"
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// ComparisonResult represents a comparison between the pool and the Go heap.
type ComparisonResult struct {
	Operation  string
	Case       string
	PoolNs     float64
	HeapNs     float64
	Speedup    float64
	PoolMem    int64
	HeapMem    int64
	PoolAllocs int64
	HeapAllocs int64
	PoolOnly   bool
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

// BenchmarkChurn/pool/mixed-8    1000000    45.1 ns/op    0 B/op    0 allocs/op
var benchmarkRegex = regexp.MustCompile(
	`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+B/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
)

func main() {
	flag.Parse()

	var in io.Reader = os.Stdin
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	results := parseBenchmarks(bufio.NewScanner(in))
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	comparisons := generateComparisons(results)
	report := generateMarkdownReport(comparisons, time.Now())

	if *outputFile == "" {
		fmt.Fprint(os.Stdout, report)
		return
	}
	if err := os.WriteFile(*outputFile, []byte(report), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	for scanner.Scan() {
		line := scanner.Text()

		// Lines from `go test -json` carry the text in Output.
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		res := BenchmarkResult{Name: matches[1], Impl: "pool"}
		res.Iterations, _ = strconv.Atoi(matches[2])
		res.NsPerOp, _ = strconv.ParseFloat(matches[3], 64)
		if matches[4] != "" {
			res.BytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			res.AllocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}

		// Benchmark<Operation>/<impl>/<case>-<procs>
		parts := strings.Split(trimProcs(res.Name), "/")
		res.Operation = strings.TrimPrefix(parts[0], "Benchmark")
		switch len(parts) {
		case 1:
		case 2:
			res.Case = parts[1]
		default:
			res.Impl = parts[1]
			res.Case = strings.Join(parts[2:], "/")
		}
		results = append(results, res)
	}

	return results
}

// trimProcs removes the -GOMAXPROCS suffix go test appends to names.
func trimProcs(name string) string {
	i := strings.LastIndex(name, "-")
	if i < 0 {
		return name
	}
	if _, err := strconv.Atoi(name[i+1:]); err != nil {
		return name
	}
	return name[:i]
}

func generateComparisons(results []BenchmarkResult) []ComparisonResult {
	type key struct {
		operation string
		tcase     string
	}

	grouped := make(map[key]map[string]BenchmarkResult)
	for _, result := range results {
		k := key{result.Operation, result.Case}
		if grouped[k] == nil {
			grouped[k] = make(map[string]BenchmarkResult)
		}
		grouped[k][result.Impl] = result
	}

	var comparisons []ComparisonResult
	for k, impls := range grouped {
		pool, hasPool := impls["pool"]
		heap, hasHeap := impls["goheap"]

		switch {
		case hasPool && hasHeap:
			speedup := 0.0
			if pool.NsPerOp > 0 {
				speedup = heap.NsPerOp / pool.NsPerOp
			}
			comparisons = append(comparisons, ComparisonResult{
				Operation:  k.operation,
				Case:       k.tcase,
				PoolNs:     pool.NsPerOp,
				HeapNs:     heap.NsPerOp,
				Speedup:    speedup,
				PoolMem:    pool.BytesPerOp,
				HeapMem:    heap.BytesPerOp,
				PoolAllocs: pool.AllocsPerOp,
				HeapAllocs: heap.AllocsPerOp,
			})
		case hasPool:
			comparisons = append(comparisons, ComparisonResult{
				Operation:  k.operation,
				Case:       k.tcase,
				PoolNs:     pool.NsPerOp,
				PoolMem:    pool.BytesPerOp,
				PoolAllocs: pool.AllocsPerOp,
				PoolOnly:   true,
			})
		}
	}

	sort.Slice(comparisons, func(i, j int) bool {
		if comparisons[i].Operation != comparisons[j].Operation {
			return comparisons[i].Operation < comparisons[j].Operation
		}
		return comparisons[i].Case < comparisons[j].Case
	})

	return comparisons
}

func generateMarkdownReport(comparisons []ComparisonResult, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Pool Benchmark Report\n\n")
	fmt.Fprintf(&sb, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	poolFaster, heapFaster, poolOnly := 0, 0, 0
	for _, comp := range comparisons {
		switch {
		case comp.PoolOnly:
			poolOnly++
		case comp.Speedup > 1.0:
			poolFaster++
		case comp.Speedup < 1.0:
			heapFaster++
		}
	}

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Compared**: %d (pool faster: %d, heap faster: %d)\n",
		len(comparisons)-poolOnly, poolFaster, heapFaster)
	fmt.Fprintf(&sb, "- **Pool only**: %d\n\n", poolOnly)

	sb.WriteString("| Operation | Case | pool (ns/op) | goheap (ns/op) | Speedup | Memory (B/op) | Allocs |\n")
	sb.WriteString("|-----------|------|--------------|----------------|---------|---------------|--------|\n")
	for _, comp := range comparisons {
		if comp.PoolOnly {
			fmt.Fprintf(&sb, "| %s | %s | %s | *N/A* | *pool only* | %s | %s |\n",
				comp.Operation, comp.Case, formatNumber(comp.PoolNs),
				formatBytes(comp.PoolMem), formatNumber(float64(comp.PoolAllocs)))
			continue
		}
		indicator := "✓"
		if comp.Speedup < 1.0 {
			indicator = "✗"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %.2fx %s | %s vs %s | %s vs %s |\n",
			comp.Operation, comp.Case,
			formatNumber(comp.PoolNs), formatNumber(comp.HeapNs),
			comp.Speedup, indicator,
			formatBytes(comp.PoolMem), formatBytes(comp.HeapMem),
			formatNumber(float64(comp.PoolAllocs)), formatNumber(float64(comp.HeapAllocs)))
	}

	sb.WriteString("\n## Notes\n\n")
	sb.WriteString("- **Speedup > 1.0**: the pool is faster ✓\n")
	sb.WriteString("- **Memory and allocations**: lower is better; pooled blocks do not count as Go heap allocations\n")

	return sb.String()
}

func formatNumber(n float64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.2fM", n/1000000)
	} else if n >= 1000 {
		return fmt.Sprintf("%.1fK", n/1000)
	}
	return fmt.Sprintf("%.0f", n)
}

func formatBytes(b int64) string {
	if b < 0 {
		b = 0
	}
	return humanize.IBytes(uint64(b))
}
