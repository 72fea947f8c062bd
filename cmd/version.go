package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Build metadata, set with -ldflags "-X .../cmd.Version=...".
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// VersionInfo describes the running cfis binary.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// versionInfo returns the linker-set metadata, falling back to the VCS
// stamp of the module build for fields left at their defaults.
func versionInfo(info *debug.BuildInfo, ok bool) VersionInfo {
	v := VersionInfo{
		Version:   Version,
		Commit:    CommitSHA,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if !ok || info == nil {
		return v
	}
	if v.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && v.Commit == "unknown":
			v.Commit = s.Value
		case s.Key == "vcs.time" && v.BuildDate == "unknown":
			v.BuildDate = s.Value
		}
	}
	return v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := versionInfo(debug.ReadBuildInfo())
		if mustGetBool(cmd, "json") {
			return outputJSON(v)
		}
		fmt.Printf("cfis %s\n", v.Version)
		fmt.Printf("  Commit: %s\n", v.Commit)
		fmt.Printf("  Built:  %s\n", v.BuildDate)
		fmt.Printf("  Go:     %s\n", v.GoVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("json", false, "Output as JSON")
}
