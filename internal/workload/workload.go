// Package workload drives pools through reproducible allocation churn.
//
// A run keeps a FIFO window of live blocks. Each step either allocates a
// block of a randomly chosen size or releases the oldest live block, so
// free lists are exercised in the interleaved order real callers produce.
package workload

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/eapache/queue"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/poolkit/pool"
)

var (
	// ErrCorrupt indicates a block's contents changed while it was live.
	ErrCorrupt = errors.New("workload: block contents changed while live")
	// ErrWorkers indicates a parallel run was asked for fewer than one worker.
	ErrWorkers = errors.New("workload: worker count must be at least 1")
)

// ctxCheckInterval is how many steps run between context checks.
const ctxCheckInterval = 1024

// Spec describes a churn run.
type Spec struct {
	Seed    uint64 // PRNG seed; equal seeds replay equal runs
	Ops     int    // Number of steps
	Sizes   []int  // Candidate request sizes
	MaxLive int    // Live blocks held before the oldest is forced out
	Verify  bool   // Fill blocks and check their hash before release
}

// DefaultSpec mixes every pooled size of the default configuration with a
// few oversized requests.
var DefaultSpec = Spec{
	Seed:    1,
	Ops:     100_000,
	Sizes:   []int{4, 8, 13, 24, 32, 40, 64, 100, 128, 129, 400},
	MaxLive: 512,
	Verify:  true,
}

// Result summarizes a run.
type Result struct {
	Allocs   int64
	Frees    int64
	Bytes    int64 // Bytes requested over the run
	PeakLive int
	Stats    pool.Stats
}

type liveBlock struct {
	buf  []byte
	size int
	sum  uint64
}

// Run executes spec against p. Every block still live at the end is
// released, so a run leaves p's free lists full but its callers' view empty.
func Run(ctx context.Context, p *pool.Pool, spec Spec) (Result, error) {
	if len(spec.Sizes) == 0 {
		return Result{}, errors.New("workload: no sizes")
	}
	if spec.MaxLive <= 0 {
		spec.MaxLive = 1
	}

	var res Result
	rng := rand.New(rand.NewPCG(spec.Seed, spec.Seed^0x9e3779b97f4a7c15))
	live := queue.New()

	release := func() error {
		blk := live.Remove().(liveBlock)
		if spec.Verify && xxh3.Hash(blk.buf) != blk.sum {
			return fmt.Errorf("%w: %d-byte block at step %d", ErrCorrupt, blk.size, res.Allocs+res.Frees)
		}
		p.Deallocate(blk.buf, blk.size)
		res.Frees++
		return nil
	}

	for step := range spec.Ops {
		if step%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		if live.Length() >= spec.MaxLive || (live.Length() > 0 && rng.IntN(3) == 0) {
			if err := release(); err != nil {
				return res, err
			}
			continue
		}

		size := spec.Sizes[rng.IntN(len(spec.Sizes))]
		buf, err := p.Allocate(size)
		if err != nil {
			return res, fmt.Errorf("workload: step %d: %w", step, err)
		}
		blk := liveBlock{buf: buf, size: size}
		if spec.Verify {
			for i := range buf {
				buf[i] = byte(rng.Uint32())
			}
			blk.sum = xxh3.Hash(buf)
		}
		live.Add(blk)
		res.Allocs++
		res.Bytes += int64(size)
		res.PeakLive = max(res.PeakLive, live.Length())
	}

	for live.Length() > 0 {
		if err := release(); err != nil {
			return res, err
		}
	}
	res.Stats = p.Stats()
	return res, nil
}

// RunParallel runs spec on workers goroutines, each with its own Pool
// created from opts. Worker i uses seed spec.Seed+i. The first failure
// cancels the others.
func RunParallel(ctx context.Context, workers int, opts *pool.Options, spec Spec) ([]Result, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrWorkers, workers)
	}
	results := make([]Result, workers)
	g, gctx := errgroup.WithContext(ctx)
	for i := range workers {
		g.Go(func() error {
			p, err := pool.New(opts)
			if err != nil {
				return err
			}
			defer p.Release()

			s := spec
			s.Seed += uint64(i)
			res, err := Run(gctx, p, s)
			results[i] = res
			if err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			return nil
		})
	}
	return results, g.Wait()
}
