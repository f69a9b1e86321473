package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"branchgen.dev/pkg/branchgen/internal/domain"
	m "branchgen.dev/pkg/branchgen/internal/model"
)

var generateParallelFlag int
var generateForceFlag bool
var generateDryRunFlag bool
var generateTemplateFlag string
var generateFalseLabelFlag string

// generateCmd represents the generate command.
var generateCmd = newGenerateCmd()

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [paths...]",
		Aliases: []string{"gen"},
		Short:   "Generate branch-aware spec files",
		Long:    generateLongDescription,
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindGenerateFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := newWorkflow(cmd)
			if err != nil {
				return err
			}

			generateArgs := generateArgsFromConfig(args)
			generateArgs.Options.DryRun = generateDryRunFlag

			return wf.Generate(cmd.Context(), generateArgs)
		},
	}

	configureGenerateFlags(cmd)
	cmd.Flags().BoolVar(&generateDryRunFlag, dryRunFlagName, false, "print a diff of what would be written instead of writing")

	return cmd
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

// configureGenerateFlags declares the flags shared by generate and watch.
func configureGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&generateParallelFlag, parallelFlagName, "p", defaultParallel, "number of files scaffolded concurrently")
	cmd.Flags().BoolVarP(&generateForceFlag, forceFlagName, "f", defaultForce, "overwrite spec files that were edited or not written by branchgen")
	cmd.Flags().StringVarP(&generateTemplateFlag, templateFlagName, "t", defaultTemplate, "template: auto, angular, jest or a path to a text/template file")
	cmd.Flags().StringVar(&generateFalseLabelFlag, falseLabelFlagName, defaultFalseLabel, "label for the negative outcome of a branch in test titles")
}

// bindGenerateFlags binds the flags of the running command only, since
// generate and watch share config keys.
func bindGenerateFlags(cmd *cobra.Command) {
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(forceFlagName), forceConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(templateFlagName), templateConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(falseLabelFlagName), falseLabelConfigKey)
}

func generateArgsFromConfig(args []string) domain.GenerateArgs {
	return domain.GenerateArgs{
		Paths:    parsePaths(args),
		Exclude:  viper.GetStringSlice(excludeConfigKey),
		Parallel: viper.GetInt(parallelConfigKey),
		Manifest: m.Path(viper.GetString(manifestConfigKey)),
		Options: domain.ScaffoldOptions{
			OutputRoot: m.Path(viper.GetString(outputFlagName)),
			Force:      viper.GetBool(forceConfigKey),
			NoCache:    viper.GetBool(noCacheFlagName),
		},
	}
}
