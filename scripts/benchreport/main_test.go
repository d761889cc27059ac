package main

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `goos: linux
goarch: amd64
pkg: github.com/joshuapare/poolkit/pool
BenchmarkAllocate_FastPath-8    	97412035	        12.30 ns/op	       0 B/op	       0 allocs/op
BenchmarkChurn/pool/small-8     	52000000	        22.50 ns/op	       6 B/op	       0 allocs/op
BenchmarkChurn/goheap/small-8   	40000000	        45.00 ns/op	      16 B/op	       1 allocs/op
{"Action":"output","Output":"BenchmarkChurn/pool/large-8   \t 1000 \t 50.0 ns/op\t 0 B/op\t 0 allocs/op\n"}
{"Action":"output","Output":"BenchmarkChurn/goheap/large-8 \t 1000 \t 25.0 ns/op\t 128 B/op\t 1 allocs/op\n"}
PASS
`

func TestParseBenchmarks(t *testing.T) {
	results := parseBenchmarks(bufio.NewScanner(strings.NewReader(sampleOutput)))
	require.Len(t, results, 5)

	assert.Equal(t, "Allocate_FastPath", results[0].Operation)
	assert.Equal(t, "pool", results[0].Impl)
	assert.Empty(t, results[0].Case)

	assert.Equal(t, "Churn", results[2].Operation)
	assert.Equal(t, "goheap", results[2].Impl)
	assert.Equal(t, "small", results[2].Case)
	assert.Equal(t, 45.0, results[2].NsPerOp)
	assert.Equal(t, int64(16), results[2].BytesPerOp)
	assert.Equal(t, int64(1), results[2].AllocsPerOp)
}

func TestGenerateComparisons(t *testing.T) {
	comps := generateComparisons(parseBenchmarks(bufio.NewScanner(strings.NewReader(sampleOutput))))
	require.Len(t, comps, 3)

	assert.True(t, comps[0].PoolOnly)
	assert.Equal(t, "large", comps[1].Case)
	assert.InDelta(t, 0.5, comps[1].Speedup, 1e-9)
	assert.Equal(t, "small", comps[2].Case)
	assert.InDelta(t, 2.0, comps[2].Speedup, 1e-9)
}

func TestMarkdownReport(t *testing.T) {
	comps := generateComparisons(parseBenchmarks(bufio.NewScanner(strings.NewReader(sampleOutput))))
	report := generateMarkdownReport(comps, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	assert.Contains(t, report, "Generated: 2026-01-02 03:04:05")
	assert.Contains(t, report, "pool faster: 1, heap faster: 1")
	assert.Contains(t, report, "| Churn | small | 22 | 45 | 2.00x ✓ | 6 B vs 16 B | 0 vs 1 |")
	assert.Contains(t, report, "*pool only*")
}

func TestTrimProcs(t *testing.T) {
	assert.Equal(t, "BenchmarkChurn/pool/small", trimProcs("BenchmarkChurn/pool/small-8"))
	assert.Equal(t, "BenchmarkChurn/pool/x-y", trimProcs("BenchmarkChurn/pool/x-y"))
	assert.Equal(t, "BenchmarkX", trimProcs("BenchmarkX"))
}
