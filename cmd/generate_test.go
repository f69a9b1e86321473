package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"branchgen.dev/pkg/branchgen/internal/domain"
	m "branchgen.dev/pkg/branchgen/internal/model"
)

func TestGenerateCmd_Defaults(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newGenerateCmd())

	mockWorkflow.On("Generate", mock.Anything, mock.MatchedBy(func(args domain.GenerateArgs) bool {
		return len(args.Paths) == 0 &&
			len(args.Exclude) == 0 &&
			args.Parallel == defaultParallel &&
			args.Manifest == m.Path(defaultManifest) &&
			args.Options == domain.ScaffoldOptions{}
	})).Return(nil)

	cmd.SetArgs([]string{"generate"})
	require.NoError(t, cmd.Execute())
}

func TestGenerateCmd_Flags(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newGenerateCmd())

	mockWorkflow.On("Generate", mock.Anything, mock.MatchedBy(func(args domain.GenerateArgs) bool {
		return assert.ObjectsAreEqual([]m.Path{"./src/...", "./lib"}, args.Paths) &&
			assert.ObjectsAreEqual([]string{`\.module\.ts$`}, args.Exclude) &&
			args.Parallel == 2 &&
			args.Options.OutputRoot == m.Path("specs") &&
			args.Options.Force &&
			args.Options.DryRun &&
			args.Options.NoCache
	})).Return(nil)

	cmd.SetArgs([]string{
		"generate",
		"--parallel", "2",
		"--force",
		"--dry-run",
		"--no-cache",
		"-o", "specs",
		"-x", `\.module\.ts$`,
		"./src/...", "./lib",
	})
	require.NoError(t, cmd.Execute())
}

func TestGenerateCmd_EnvOverridesDefaults(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newGenerateCmd())
	t.Setenv("BRANCHGEN_GENERATE_PARALLEL", "7")
	t.Setenv("BRANCHGEN_MANIFEST", "build/manifest.yaml")

	mockWorkflow.On("Generate", mock.Anything, mock.MatchedBy(func(args domain.GenerateArgs) bool {
		return args.Parallel == 7 && args.Manifest == m.Path("build/manifest.yaml")
	})).Return(nil)

	cmd.SetArgs([]string{"generate"})
	require.NoError(t, cmd.Execute())
}

func TestGenerateCmd_PropagatesWorkflowError(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newGenerateCmd())

	mockWorkflow.On("Generate", mock.Anything, mock.Anything).Return(errors.New("1 of 1 file(s) failed"))

	cmd.SetArgs([]string{"generate", "./..."})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
}

const heroComponentSource = `import { Component } from '@angular/core';

@Component({ selector: 'app-hero' })
export class HeroDetailComponent {
  save(hero) {
    if (hero.dirty) {
      this.store(hero);
    }
  }

  reset() {}
}
`

func TestGenerateCmd_WritesSpecFiles(t *testing.T) {
	tempDir := t.TempDir()
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	require.NoError(t, os.MkdirAll(filepath.Join("src", "app"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join("src", "app", "hero-detail.component.ts"), []byte(heroComponentSource), 0o600))

	cmd, output := newTestRootCmd(t, newGenerateCmd())
	cmd.SetArgs([]string{"generate", "--false-label", "false", "./src/..."})
	require.NoError(t, cmd.Execute())

	spec, err := os.ReadFile(filepath.Join("src", "app", "hero-detail.component.class.spec.ts"))
	require.NoError(t, err)

	content := string(spec)
	assert.Contains(t, content, "describe('HeroDetailComponent Class'")
	assert.Contains(t, content, "it('save should do < (hero.dirty) true >'")
	assert.Contains(t, content, "it('save should do < (hero.dirty) false >'")
	assert.Contains(t, content, "it('reset should <do something>'")

	_, err = os.Stat(defaultManifest)
	require.NoError(t, err)
	assert.Contains(t, output.String(), string(m.StatusCreated))

	again, _ := newTestRootCmd(t, newGenerateCmd())
	again.SetArgs([]string{"generate", "--false-label", "false", "./src/..."})
	require.NoError(t, again.Execute())

	unchanged, err := os.ReadFile(filepath.Join("src", "app", "hero-detail.component.class.spec.ts"))
	require.NoError(t, err)
	assert.Equal(t, spec, unchanged)
}
