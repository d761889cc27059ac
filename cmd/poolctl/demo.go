package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"github.com/spf13/cobra"

	"github.com/joshuapare/poolkit/pool"
)

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Replay the two-pass allocation scenario",
		Long: `The demo command allocates two 4-byte blocks, writes 20 and 10 into
them, releases both and repeats the sequence. The second pass must receive the
same addresses as the first. It then allocates a 400-byte array, which bypasses
the pool, and sums the values 1..100 stored in it.

Example:
  poolctl demo
  poolctl demo --config wide --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
	return cmd
}

type demoPass struct {
	First  uintptr `json:"first"`
	Second uintptr `json:"second"`
	Diff   int     `json:"diff"`
}

type demoResult struct {
	Config string     `json:"config"`
	Passes []demoPass `json:"passes"`
	Reused bool       `json:"reused"`
	Sum    int        `json:"sum"`
	Stats  pool.Stats `json:"stats"`
}

func runDemo() error {
	cfg, err := selectedConfig()
	if err != nil {
		return err
	}
	p, err := pool.New(&pool.Options{Config: cfg})
	if err != nil {
		return err
	}
	defer p.Release()

	res := demoResult{Config: cfg.Name}
	for range 2 {
		pass, err := demoScoped(p)
		if err != nil {
			return err
		}
		res.Passes = append(res.Passes, pass)
	}
	res.Reused = res.Passes[0].First == res.Passes[1].First &&
		res.Passes[0].Second == res.Passes[1].Second

	if res.Sum, err = demoOversize(p); err != nil {
		return err
	}
	res.Stats = p.Stats()

	if jsonOut {
		return printJSON(res)
	}
	for i, pass := range res.Passes {
		printInfo("pass %d: first=%#x second=%#x (diff %d)\n", i+1, pass.First, pass.Second, pass.Diff)
	}
	printInfo("addresses reused: %v\n", res.Reused)
	printInfo("oversize sum: %d\n", res.Sum)
	if verbose {
		p.PrintStats(os.Stdout)
	}
	if !res.Reused {
		return fmt.Errorf("second pass received different blocks")
	}
	return nil
}

// demoScoped holds two int-sized blocks for the duration of the call.
// Guards release in reverse order, leaving the first block on top.
func demoScoped(p *pool.Pool) (demoPass, error) {
	g1, err := pool.Acquire(p, 4)
	if err != nil {
		return demoPass{}, err
	}
	defer g1.Release()
	binary.NativeEndian.PutUint32(g1.Bytes(), 20)
	printVerbose("*pNum1: %d\n", binary.NativeEndian.Uint32(g1.Bytes()))

	g2, err := pool.Acquire(p, 4)
	if err != nil {
		return demoPass{}, err
	}
	defer g2.Release()
	binary.NativeEndian.PutUint32(g2.Bytes(), 10)
	printVerbose("*pNum2: %d\n", binary.NativeEndian.Uint32(g2.Bytes()))

	first := blockAddr(g1.Bytes())
	second := blockAddr(g2.Bytes())
	return demoPass{First: first, Second: second, Diff: int(second) - int(first)}, nil
}

func demoOversize(p *pool.Pool) (int, error) {
	const n = 100
	g, err := pool.Acquire(p, 4*n)
	if err != nil {
		return 0, err
	}
	defer g.Release()

	b := g.Bytes()
	for i := range n {
		binary.NativeEndian.PutUint32(b[4*i:], uint32(i+1))
	}
	sum := 0
	for i := range n {
		sum += int(binary.NativeEndian.Uint32(b[4*i:]))
	}
	return sum, nil
}

func blockAddr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
