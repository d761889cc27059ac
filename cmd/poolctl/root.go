package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/poolkit/pool"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configName string
)

var rootCmd = &cobra.Command{
	Use:   "poolctl",
	Short: "Exercise and inspect size-class pool allocators",
	Long: `poolctl drives the poolkit size-class allocator. It can replay the
reference two-pass scenario, print the size class layout of a configuration,
and run seeded allocation churn while reporting allocator statistics.`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVarP(&configName, "config", "c", "classic", "Size class preset (classic, compact, wide)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// presets maps --config values to configurations.
var presets = map[string]*pool.Config{
	"classic": &pool.ConfigClassic,
	"compact": &pool.ConfigCompact,
	"wide":    &pool.ConfigWide,
}

// selectedConfig resolves the --config flag.
func selectedConfig() (*pool.Config, error) {
	cfg, ok := presets[strings.ToLower(configName)]
	if !ok {
		return nil, fmt.Errorf("unknown config %q (want classic, compact or wide)", configName)
	}
	return cfg, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
