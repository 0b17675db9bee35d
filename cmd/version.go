package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd prints the build metadata stamped by the release pipeline
// through -ldflags. Include its output when reporting bugs.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build and runtime information.",
	Long: `Print the devpulse release version together with the git commit,
build timestamp and Go runtime it was compiled with.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("devpulse %s\n", version)
		cmd.Printf("  commit %s, built %s\n", commit, date)
		cmd.Printf("  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
