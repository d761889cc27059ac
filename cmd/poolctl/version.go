package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const poolkitModule = "github.com/joshuapare/poolkit"

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Built     string `json:"built"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Poolkit   string `json:"poolkit"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the poolctl build stamp, the Go toolchain it was built with
and the version of the poolkit library linked into it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion() error {
	info := currentVersion()
	if jsonOut {
		return printJSON(info)
	}
	fmt.Printf("poolctl %s (%s)\n", info.Version, info.Platform)
	fmt.Printf("  commit:  %s\n", info.Commit)
	fmt.Printf("  built:   %s\n", info.Built)
	fmt.Printf("  go:      %s\n", info.GoVersion)
	fmt.Printf("  poolkit: %s\n", info.Poolkit)
	return nil
}

func currentVersion() versionInfo {
	info := versionInfo{
		Version:   version,
		Commit:    commit,
		Built:     date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Poolkit:   "unknown",
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, dep := range bi.Deps {
		if dep.Path != poolkitModule {
			continue
		}
		info.Poolkit = dep.Version
		if dep.Replace != nil {
			info.Poolkit = "local " + dep.Replace.Path
		}
	}
	if version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	return info
}
