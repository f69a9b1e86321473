package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"branchgen.dev/pkg/branchgen/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List classes, branches and planned test cases",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := newWorkflow(cmd)
			if err != nil {
				return err
			}

			return wf.List(cmd.Context(), domain.ListArgs{
				Paths:    parsePaths(args),
				Exclude:  viper.GetStringSlice(excludeConfigKey),
				Parallel: viper.GetInt(parallelConfigKey),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
