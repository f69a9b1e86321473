package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"branchgen.dev/pkg/branchgen/internal/domain"
	domainmocks "branchgen.dev/pkg/branchgen/internal/domain/mocks"
	m "branchgen.dev/pkg/branchgen/internal/model"
)

// newTestRootCmd returns a fresh root command with sub attached, logging into a
// temp dir. Viper is reset so flag bindings of earlier tests do not leak.
func newTestRootCmd(t *testing.T, sub *cobra.Command) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	viper.Reset()
	initConfig()
	t.Cleanup(func() {
		viper.Reset()
		initConfig()
	})

	t.Setenv("BRANCHGEN_LOG_FILENAME", filepath.Join(t.TempDir(), "branchgen.log"))

	cmd := newRootCmd()
	if sub != nil {
		cmd.AddCommand(sub)
	}

	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})

	return cmd, output
}

// useMockWorkflow swaps the package workflow for a mock for the duration of the test.
func useMockWorkflow(t *testing.T) *domainmocks.MockWorkflow {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow := workflow
	workflow = mockWorkflow

	t.Cleanup(func() { workflow = originalWorkflow })

	return mockWorkflow
}

func TestParsePaths(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []m.Path
	}{
		{"empty", []string{}, []m.Path{}},
		{"single", []string{"./..."}, []m.Path{m.Path("./...")}},
		{
			"multiple",
			[]string{"./src", "./lib/...", "./hero.service.ts"},
			[]m.Path{m.Path("./src"), m.Path("./lib/..."), m.Path("./hero.service.ts")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePaths(tt.args)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "branchgen", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)

	for _, name := range []string{outputFlagName, noCacheFlagName, excludeFlagName, verboseFlagName, logFileFlagName} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd, output := newTestRootCmd(t, nil)

	cmd.SetArgs([]string{})
	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, output.String(), "Usage:")
	assert.Contains(t, output.String(), "Supports Go-style path patterns")
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"generate", "list", "watch", "status", "init", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestInit(t *testing.T) {
	assert.NotNil(t, fsAdapter)
	assert.NotNil(t, tsAdapter)
	assert.NotNil(t, manifestStore)
	assert.NotNil(t, locator)
}

func TestNewWorkflow_PrefersInjectedWorkflow(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)

	got, err := newWorkflow(newGenerateCmd())
	require.NoError(t, err)
	assert.Same(t, mockWorkflow, got)
}

func TestNewWorkflow_RejectsMissingTemplate(t *testing.T) {
	cmd, _ := newTestRootCmd(t, newGenerateCmd())
	cmd.SetArgs([]string{"generate", "--template", filepath.Join(t.TempDir(), "missing.tmpl"), t.TempDir()})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load template")
}

func TestRootCmd_ConfiguresLogger(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	mockWorkflow.On("Status", mock.Anything, domain.StatusArgs{Manifest: m.Path(defaultManifest)}).Return(nil)

	cmd, _ := newTestRootCmd(t, newStatusCmd())
	logPath := filepath.Join(t.TempDir(), "custom.log")
	cmd.SetArgs([]string{"status", "--log-file", logPath, "--verbose"})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, globalLogger)
	assert.True(t, globalLogger.Enabled(t.Context(), slog.LevelDebug), "verbose enables debug")
}

func TestExecute(t *testing.T) {
	originalRootCmd := rootCmd

	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})

	rootCmd = mockCmd

	Execute()

	rootCmd = originalRootCmd
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")
				return fmt.Errorf("command failed")
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute() // This should call os.Exit(1)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)

	if exitErr, ok := err.(*exec.ExitError); ok {
		assert.Equal(t, 1, exitErr.ExitCode())
	} else {
		assert.Fail(t, "expected exec.ExitError", "got %T", err)
	}

	assert.Contains(t, string(output), "error occurred")
}
