package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newClassesCmd())
}

func newClassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Print the size class table",
		Long: `The classes command prints every size class of the selected
configuration: the request range it serves and the bytes a refill carves.

Example:
  poolctl classes
  poolctl classes --config compact --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses()
		},
	}
	return cmd
}

type classRow struct {
	Class     int `json:"class"`
	Min       int `json:"min"`
	Max       int `json:"max"`
	Refill    int `json:"refill_bytes"`
	FirstGrow int `json:"first_grow_bytes"`
}

func runClasses() error {
	cfg, err := selectedConfig()
	if err != nil {
		return err
	}

	rows := make([]classRow, 0, cfg.NumClasses())
	for i := range cfg.NumClasses() {
		width := cfg.ClassSize(i)
		rows = append(rows, classRow{
			Class:     i,
			Min:       width - cfg.Alignment + 1,
			Max:       width,
			Refill:    cfg.RefillBatch * width,
			FirstGrow: 2 * cfg.RefillBatch * width,
		})
	}

	if jsonOut {
		return printJSON(rows)
	}
	printInfo("%s: alignment %d, max pooled %d, refill batch %d\n\n",
		cfg.Name, cfg.Alignment, cfg.MaxPooledSize, cfg.RefillBatch)
	printInfo("%-6s %-12s %-10s %s\n", "CLASS", "REQUEST", "REFILL", "FIRST CHUNK")
	for _, r := range rows {
		printInfo("%-6d %4d - %-5d %-10s %s\n", r.Class, r.Min, r.Max,
			humanize.IBytes(uint64(r.Refill)), humanize.IBytes(uint64(r.FirstGrow)))
	}
	printInfo("\nRequests above %d bytes bypass the pool.\n", cfg.MaxPooledSize)
	return nil
}
