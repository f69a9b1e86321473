package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"branchgen.dev/pkg/branchgen/internal/domain"
)

var watchDebounceFlag time.Duration

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Regenerate spec files as sources change",
		Long:  watchLongDescription,
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindGenerateFlags(cmd)
			bindFlagToConfig(cmd.Flags().Lookup(debounceFlagName), debounceConfigKey)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			wf, err := newWorkflow(cmd)
			if err != nil {
				return err
			}

			return wf.Watch(ctx, domain.WatchArgs{
				GenerateArgs: generateArgsFromConfig(args),
				Debounce:     viper.GetDuration(debounceConfigKey),
			})
		},
	}

	configureGenerateFlags(cmd)
	cmd.Flags().DurationVar(&watchDebounceFlag, debounceFlagName, defaultDebounce, "quiet period before regenerating changed sources")

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
