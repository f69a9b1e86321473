package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"branchgen.dev/pkg/branchgen/internal/domain"
	m "branchgen.dev/pkg/branchgen/internal/model"
)

func TestStatusCmd_UsesManifestFromEnv(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newStatusCmd())
	t.Setenv("BRANCHGEN_MANIFEST", "out/manifest.yaml")

	mockWorkflow.On("Status", mock.Anything, domain.StatusArgs{Manifest: m.Path("out/manifest.yaml")}).Return(nil)

	cmd.SetArgs([]string{"status"})
	require.NoError(t, cmd.Execute())
}

func TestStatusCmd_RejectsArguments(t *testing.T) {
	useMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newStatusCmd())

	cmd.SetArgs([]string{"status", "extra"})
	require.Error(t, cmd.Execute())
}
