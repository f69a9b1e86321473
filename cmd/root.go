// Package cmd provides the root command and CLI setup for branchgen.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"branchgen.dev/pkg/branchgen/internal/adapter"
	"branchgen.dev/pkg/branchgen/internal/controller"
	"branchgen.dev/pkg/branchgen/internal/domain"
	m "branchgen.dev/pkg/branchgen/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var tsAdapter adapter.TSFileAdapter
var manifestStore adapter.ManifestStore
var locator domain.Locator

// workflow overrides the per-invocation workflow when set (tests inject mocks here).
var workflow domain.Workflow

// outputDirFlag is a root-level flag placing spec files under a separate tree.
var outputDirFlag string

// noCacheFlag disables skipping of unchanged sources when set.
var noCacheFlag bool

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var verboseFlag bool
var logFileFlag string

func init() {
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	tsAdapter = adapter.NewLocalTSFileAdapter()
	manifestStore = adapter.NewManifestStore()
	locator = domain.NewLocator(fsAdapter, tsAdapter)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...              recursively scan current directory
  - ./src/app/...      recursively scan src/app
  - ./src ./lib        scan the files directly inside multiple directories
  - ./hero.service.ts  a single file`

const rootLongDescription = `Branchgen generates placeholder unit tests for TypeScript and JavaScript
classes. Every if statement and statement-level ternary in a method becomes
a pair of test cases, one per outcome, nested along the decision path.

` + pathPatternsHelp

const generateLongDescription = `Generate <name>.<type>.class.spec.<ext> files for the given paths
(default: ./...). Spec files written by branchgen are tracked in a manifest
and are only rewritten while unmodified, unless --force is given.

` + pathPatternsHelp

const listLongDescription = `List classes, methods, branch counts and the test cases that would be
generated, without writing anything.

` + pathPatternsHelp

const watchLongDescription = `Generate spec files, then keep regenerating them as sources change
until interrupted.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "branchgen",
		Short:        "Branch-aware test scaffold generator",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			return checkConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			defaultOutputDir,
			"directory to write spec files to, mirroring the source tree (default: next to each source)",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVar(&noCacheFlag, noCacheFlagName, defaultNoCache, "re-render sources even when unchanged since the last run")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noCacheFlagName), noCacheFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", nil, "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// newWorkflow wires the workflow for one invocation. The renderer and
// generator depend on flags, so they are built after parsing.
func newWorkflow(cmd *cobra.Command) (domain.Workflow, error) {
	if workflow != nil {
		return workflow, nil
	}

	renderer, err := domain.NewRenderer(cmd.Context(), fsAdapter, viper.GetString(templateConfigKey))
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}

	generator := domain.NewGenerator(domain.WithFalseLabel(viper.GetString(falseLabelConfigKey)))
	extractor := domain.NewExtractor(tsAdapter)
	scaffolder := domain.NewScaffolder(fsAdapter, locator, extractor, generator, renderer)
	ui := controller.NewUI(cmd, controller.IsTTY(os.Stdout))

	return domain.NewWorkflow(fsAdapter, manifestStore, ui, locator, scaffolder), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
