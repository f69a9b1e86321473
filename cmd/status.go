package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"branchgen.dev/pkg/branchgen/internal/domain"
	m "branchgen.dev/pkg/branchgen/internal/model"
)

// statusCmd represents the status command.
var statusCmd = newStatusCmd()

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether generated spec files are intact",
		Long: `Compare every spec file recorded in the manifest with its content on disk
and report it as ok, edited or missing.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, err := newWorkflow(cmd)
			if err != nil {
				return err
			}

			return wf.Status(cmd.Context(), domain.StatusArgs{
				Manifest: m.Path(viper.GetString(manifestConfigKey)),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
