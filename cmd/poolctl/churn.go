package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/poolkit/internal/workload"
	"github.com/joshuapare/poolkit/pool"
	"github.com/joshuapare/poolkit/pool/sysmem"
)

var (
	churnOps      int
	churnSeed     uint64
	churnMaxLive  int
	churnWorkers  int
	churnSizes    string
	churnBudget   string
	churnNoVerify bool
)

func init() {
	cmd := newChurnCmd()
	cmd.Flags().IntVar(&churnOps, "ops", workload.DefaultSpec.Ops, "Steps per worker")
	cmd.Flags().Uint64Var(&churnSeed, "seed", workload.DefaultSpec.Seed, "PRNG seed")
	cmd.Flags().IntVar(&churnMaxLive, "max-live", workload.DefaultSpec.MaxLive, "Live blocks held before the oldest is released")
	cmd.Flags().IntVarP(&churnWorkers, "workers", "w", 1, "Independent pools run in parallel")
	cmd.Flags().StringVar(&churnSizes, "sizes", "", "Comma-separated request sizes (default: mixed pooled and oversized)")
	cmd.Flags().StringVar(&churnBudget, "budget", "", "Cap system memory per worker, e.g. 64KiB")
	cmd.Flags().BoolVar(&churnNoVerify, "no-verify", false, "Skip block content verification")
	rootCmd.AddCommand(cmd)
}

func newChurnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "churn",
		Short: "Run seeded allocation churn and report statistics",
		Long: `The churn command drives one or more pools through a reproducible mix
of allocations and releases. Blocks are filled and hashed while live and
checked before release.

Example:
  poolctl churn
  poolctl churn --ops 1000000 --workers 4
  poolctl churn --sizes 8,16,24 --budget 16KiB -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChurn(cmd.Context())
		},
	}
	return cmd
}

type churnReport struct {
	Worker    int        `json:"worker"`
	Allocs    int64      `json:"allocs"`
	Frees     int64      `json:"frees"`
	Bytes     int64      `json:"bytes"`
	PeakLive  int        `json:"peak_live"`
	Footprint int64      `json:"footprint"`
	Stats     pool.Stats `json:"stats"`
}

func runChurn(ctx context.Context) error {
	cfg, err := selectedConfig()
	if err != nil {
		return err
	}

	spec := workload.DefaultSpec
	spec.Ops = churnOps
	spec.Seed = churnSeed
	spec.MaxLive = churnMaxLive
	spec.Verify = !churnNoVerify
	if churnSizes != "" {
		if spec.Sizes, err = parseSizes(churnSizes); err != nil {
			return err
		}
	}
	if churnWorkers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", churnWorkers)
	}

	var budget uint64
	if churnBudget != "" {
		if budget, err = humanize.ParseBytes(churnBudget); err != nil {
			return fmt.Errorf("invalid budget %q: %w", churnBudget, err)
		}
	}

	printVerbose("Running %d worker(s), %d steps each, config %s\n", churnWorkers, spec.Ops, cfg.Name)
	start := time.Now()

	var results []workload.Result
	if churnWorkers == 1 {
		// A single run keeps its pool so the full report can be printed.
		p, err := pool.New(&pool.Options{Config: cfg, System: churnSystem(budget)})
		if err != nil {
			return err
		}
		defer p.Release()
		res, runErr := workload.Run(ctx, p, spec)
		if runErr != nil {
			return runErr
		}
		results = []workload.Result{res}
		if verbose && !jsonOut {
			p.PrintStats(os.Stdout)
		}
	} else {
		// Workers share the system allocator, so the budget is scaled.
		opts := &pool.Options{Config: cfg, System: churnSystem(budget * uint64(churnWorkers))}
		if results, err = workload.RunParallel(ctx, churnWorkers, opts, spec); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	reports := make([]churnReport, len(results))
	for i, res := range results {
		reports[i] = churnReport{
			Worker:    i,
			Allocs:    res.Allocs,
			Frees:     res.Frees,
			Bytes:     res.Bytes,
			PeakLive:  res.PeakLive,
			Footprint: res.Stats.GrowBytes,
			Stats:     res.Stats,
		}
	}

	if jsonOut {
		return printJSON(reports)
	}
	for _, r := range reports {
		hit := 0.0
		if r.Allocs > 0 {
			hit = 100 * float64(r.Stats.AllocFastPath) / float64(r.Allocs)
		}
		printInfo("worker %d: %s allocs, %s requested, peak %d live, footprint %s, free-list hits %.1f%%\n",
			r.Worker, humanize.Comma(r.Allocs), humanize.IBytes(uint64(r.Bytes)), r.PeakLive,
			humanize.IBytes(uint64(r.Footprint)), hit)
	}
	printInfo("done in %s\n", elapsed.Round(time.Millisecond))
	return nil
}

// churnSystem returns the system allocator for a run, budgeted when budget > 0.
func churnSystem(budget uint64) sysmem.Allocator {
	sys := sysmem.Default()
	if budget == 0 {
		return sys
	}
	return sysmem.Limit(sys, int(budget))
}

// parseSizes parses a comma-separated list of positive sizes.
func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid size %q", field)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes in %q", s)
	}
	return sizes, nil
}
