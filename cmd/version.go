package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set with -ldflags "-X branchgen.dev/pkg/branchgen/cmd.version=..." for release builds.
var version = ""

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version and Go version used to build branchgen.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				cmd.Println("version: unknown")
				return
			}

			toolVersion := version
			if toolVersion == "" {
				toolVersion = info.Main.Version
			}

			if toolVersion == "" {
				toolVersion = "(devel)"
			}

			cmd.Println("branchgen version\t", toolVersion)
			cmd.Println("go version\t\t", info.GoVersion)
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
